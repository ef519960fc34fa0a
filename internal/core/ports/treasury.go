package ports

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Treasury is the custody account holding escrowed and locked funds. Every
// operation must be atomic: either the full amount moves, or nothing does.
type Treasury interface {
	// Collect moves the given amount of an asset from the account into
	// custody. It fails if the account cannot cover the amount.
	Collect(ctx context.Context, from common.Address, asset common.Address, amount uint64) error
	// Payout moves the given amount of an asset from custody back to the
	// account.
	Payout(ctx context.Context, to common.Address, asset common.Address, amount uint64) error
	// Settle releases the given amount of an asset from custody toward the
	// external venue that consumed it. The amount leaves the ledger, no
	// account is credited.
	Settle(ctx context.Context, asset common.Address, amount uint64) error
}

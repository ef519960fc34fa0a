package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// CrossChainSwapRepository is the abstraction for any kind of database
// intended to persist CrossChainSwaps.
type CrossChainSwapRepository interface {
	// AddSwap stores a new swap.
	AddSwap(ctx context.Context, swap *CrossChainSwap) error
	// GetSwap returns the swap with the given id, or
	// ErrCrossChainSwapNotFound.
	GetSwap(ctx context.Context, id string) (*CrossChainSwap, error)
	// GetAllSwaps returns all the swaps ever created.
	GetAllSwaps(ctx context.Context) ([]*CrossChainSwap, error)
	// GetSwapsForAccount returns all the swaps requested by the given user.
	GetSwapsForAccount(ctx context.Context, user common.Address) ([]*CrossChainSwap, error)
	// UpdateSwap allows to commit multiple changes to the same swap in a
	// transactional way.
	UpdateSwap(
		ctx context.Context, id string,
		updateFn func(s *CrossChainSwap) (*CrossChainSwap, error),
	) error
	// NextNonce returns a monotonically increasing counter used to derive
	// swap ids.
	NextNonce(ctx context.Context) (uint64, error)
}

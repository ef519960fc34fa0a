package ports

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// ComplianceGate is the boundary of the external compliance registry. The
// daemon only consumes it as a pre-condition gate, administration of the
// registry itself belongs to its operator.
type ComplianceGate interface {
	// IsCompliant returns whether the given asset is cleared for orders and
	// swaps.
	IsCompliant(ctx context.Context, asset common.Address) (bool, error)
	// RequireCompliant fails with a non-nil error if the asset is not
	// compliant.
	RequireCompliant(ctx context.Context, asset common.Address) error
}

package ports

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// SwapArgs packs the arguments of a router swap execution.
type SwapArgs struct {
	Path         []common.Address
	AmountIn     uint64
	MinAmountOut uint64
	Recipient    common.Address
	Deadline     time.Time
}

// SwapRouter is the boundary of the external router performing the actual
// asset exchange. The daemon treats it as an opaque, fallible service: any
// error is an external-dependency failure and the triggering operation must
// roll back atomically and stay retryable.
type SwapRouter interface {
	// Quote returns the output amount currently quoted for swapping amountIn
	// along the given path.
	Quote(ctx context.Context, path []common.Address, amountIn uint64) (uint64, error)
	// ExecuteSwap performs the exchange and returns the output amount
	// credited to the recipient. The call must not outlive args.Deadline.
	ExecuteSwap(ctx context.Context, args SwapArgs) (uint64, error)
}

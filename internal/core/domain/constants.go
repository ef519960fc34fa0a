package domain

import "github.com/ethereum/go-ethereum/common"

const (
	// CrossChainSwapStatusCodeUndefined is the zero value of a swap status. It
	// is never persisted: a swap that cannot be found in the repository yields
	// ErrCrossChainSwapNotFound instead of a record in this status.
	CrossChainSwapStatusCodeUndefined CrossChainSwapStatus = iota
	// CrossChainSwapStatusCodeInitiated marks a swap whose source funds are
	// locked and whose outbound message has been dispatched.
	CrossChainSwapStatusCodeInitiated
	// CrossChainSwapStatusCodeCompleted marks a swap settled on the remote
	// chain, as asserted by a trusted reporter.
	CrossChainSwapStatusCodeCompleted
	// CrossChainSwapStatusCodeFailed marks a swap reported as failed remotely.
	// Failed swaps can still be cancelled to recover the locked funds.
	CrossChainSwapStatusCodeFailed
	// CrossChainSwapStatusCodeCancelled marks a swap cancelled by its
	// requester. Terminal, funds already refunded.
	CrossChainSwapStatusCodeCancelled
)

// MinPathLength is the minimum number of hops of an order's swap path.
const MinPathLength = 2

// NativeAsset is the conventional sentinel identifying the chain's native
// coin as source asset of an order.
var NativeAsset = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

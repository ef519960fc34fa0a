package domain

import "errors"

var (
	// ErrOrderNotFound ...
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNotOwned is returned when the caller of a restricted operation
	// is not the order owner.
	ErrOrderNotOwned = errors.New("order does not belong to the caller")
	// ErrOrderInactive is returned when operating on a cancelled or exhausted
	// order.
	ErrOrderInactive = errors.New("order is not active")
	// ErrOrderNotDue is returned when executing an order before its next
	// execution time. Callers should retry later, the request itself is valid.
	ErrOrderNotDue = errors.New("order is not due for execution")
	// ErrOrderZeroAmount ...
	ErrOrderZeroAmount = errors.New("amount per interval must not be zero")
	// ErrOrderZeroIntervals ...
	ErrOrderZeroIntervals = errors.New("total intervals must not be zero")
	// ErrOrderInvalidInterval ...
	ErrOrderInvalidInterval = errors.New("interval duration must be positive")
	// ErrOrderInvalidPath is returned when the swap path is too short or its
	// endpoints do not match the declared source and target assets.
	ErrOrderInvalidPath = errors.New("invalid swap path")
	// ErrOrderEscrowOverflow is returned when amountPerInterval*totalIntervals
	// does not fit the escrow arithmetic.
	ErrOrderEscrowOverflow = errors.New("escrow commitment overflows")
	// ErrOrderInsufficientFunding is returned when the provided funds do not
	// cover the full escrow commitment.
	ErrOrderInsufficientFunding = errors.New("provided funds do not cover the escrow commitment")
	// ErrOrderScheduleExhausted ...
	ErrOrderScheduleExhausted = errors.New("order schedule is exhausted")

	// ErrCrossChainSwapNotFound ...
	ErrCrossChainSwapNotFound = errors.New("cross-chain swap not found")
	// ErrCrossChainSwapZeroAmount ...
	ErrCrossChainSwapZeroAmount = errors.New("swap amounts must not be zero")
	// ErrCrossChainSwapNullAsset ...
	ErrCrossChainSwapNullAsset = errors.New("swap assets must not be null")
	// ErrCrossChainSwapNotRequester is returned when the canceller of a swap
	// is not its original requester.
	ErrCrossChainSwapNotRequester = errors.New("swap does not belong to the caller")
	// ErrCrossChainSwapNotInitiated is returned when reporting an outcome for
	// a swap that is not in the Initiated status, including a second report
	// for an already settled one.
	ErrCrossChainSwapNotInitiated = errors.New("swap is not in initiated status")
	// ErrCrossChainSwapNotCancellable is returned when cancelling a swap that
	// is completed or already cancelled.
	ErrCrossChainSwapNotCancellable = errors.New("swap cannot be cancelled in its current status")
)

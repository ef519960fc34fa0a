package application

import "errors"

var (
	// ErrAssetNotCompliant is returned when the target asset of an order or
	// swap is not cleared by the compliance registry.
	ErrAssetNotCompliant = errors.New("asset is not compliant")
	// ErrSwapDeadlineExpired is returned when initiating a swap with a
	// deadline already in the past.
	ErrSwapDeadlineExpired = errors.New("swap deadline is expired")
	// ErrUnauthorizedReporter is returned when the caller asserting a
	// cross-chain outcome is not in the trusted reporter set.
	ErrUnauthorizedReporter = errors.New("caller is not a trusted reporter")
	// ErrMessageDispatchFailed is returned when the outbound message is
	// rejected by the transport. The initiation rolls back and can be
	// retried.
	ErrMessageDispatchFailed = errors.New("outbound message dispatch failed")
	// ErrSwapExecutionFailed is returned when the router fails to execute an
	// interval swap. No escrow is consumed and the order stays retryable.
	ErrSwapExecutionFailed = errors.New("router swap execution failed")
	// ErrNativeAssetUnsupported is returned when creating a native-funded
	// order while no wrapped native asset is configured for the router.
	ErrNativeAssetUnsupported = errors.New("no wrapped native asset configured")
)

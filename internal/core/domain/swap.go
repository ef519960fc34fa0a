package domain

import (
	"encoding/binary"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// CrossChainSwapStatus represents the different statuses that a cross-chain
// swap can assume. The zero value is never persisted, which keeps a missing
// record distinguishable from a freshly created one.
type CrossChainSwapStatus int

func (s CrossChainSwapStatus) String() string {
	switch s {
	case CrossChainSwapStatusCodeInitiated:
		return "initiated"
	case CrossChainSwapStatusCodeCompleted:
		return "completed"
	case CrossChainSwapStatusCodeFailed:
		return "failed"
	case CrossChainSwapStatusCodeCancelled:
		return "cancelled"
	default:
		return "undefined"
	}
}

// CrossChainSwap is the data structure representing a swap settling on a
// remote chain reachable only through an asynchronous one-way message. The
// source amount stays locked in custody until a trusted reporter asserts the
// remote outcome, or until the requester cancels.
type CrossChainSwap struct {
	Id              string
	User            common.Address
	SourceAsset     common.Address
	TargetAsset     common.Address
	SourceAmount    uint64
	MinTargetAmount uint64
	CreatedAt       time.Time
	Status          CrossChainSwapStatus
	// SettledAmount is informational, the settled funds live on the remote
	// chain and are never paid out by this ledger.
	SettledAmount uint64
	FailReason    string
	MessageRef    string
}

// NewCrossChainSwap returns a swap in Initiated status with a content-derived
// id. The nonce keeps ids unique for identical parameters, the timestamp
// keeps them unpredictable in advance.
func NewCrossChainSwap(
	user, sourceAsset, targetAsset common.Address,
	sourceAmount, minTargetAmount uint64, messageRef string, nonce uint64,
) *CrossChainSwap {
	now := time.Now()
	return &CrossChainSwap{
		Id: deriveSwapId(
			user, sourceAsset, targetAsset, sourceAmount, minTargetAmount,
			now.UnixNano(), nonce,
		),
		User:            user,
		SourceAsset:     sourceAsset,
		TargetAsset:     targetAsset,
		SourceAmount:    sourceAmount,
		MinTargetAmount: minTargetAmount,
		CreatedAt:       now,
		Status:          CrossChainSwapStatusCodeInitiated,
		MessageRef:      messageRef,
	}
}

// Complete brings the swap from the Initiated to the Completed status,
// recording the amount settled on the remote chain.
func (s *CrossChainSwap) Complete(settledAmount uint64) error {
	if s.Status != CrossChainSwapStatusCodeInitiated {
		return ErrCrossChainSwapNotInitiated
	}

	s.Status = CrossChainSwapStatusCodeCompleted
	s.SettledAmount = settledAmount
	return nil
}

// Fail brings the swap from the Initiated to the Failed status. Failed swaps
// keep their funds locked until cancelled by the requester.
func (s *CrossChainSwap) Fail(reason string) error {
	if s.Status != CrossChainSwapStatusCodeInitiated {
		return ErrCrossChainSwapNotInitiated
	}

	s.Status = CrossChainSwapStatusCodeFailed
	s.FailReason = reason
	return nil
}

// Cancel brings the swap to the terminal Cancelled status. Only the original
// requester can cancel, and only while the swap is Initiated or Failed. It
// returns the source amount to refund.
func (s *CrossChainSwap) Cancel(caller common.Address) (uint64, error) {
	if caller != s.User {
		return 0, ErrCrossChainSwapNotRequester
	}
	if s.Status != CrossChainSwapStatusCodeInitiated &&
		s.Status != CrossChainSwapStatusCodeFailed {
		return 0, ErrCrossChainSwapNotCancellable
	}

	s.Status = CrossChainSwapStatusCodeCancelled
	return s.SourceAmount, nil
}

// IsInitiated returns whether the swap is in Initiated status.
func (s *CrossChainSwap) IsInitiated() bool {
	return s.Status == CrossChainSwapStatusCodeInitiated
}

// IsCompleted returns whether the swap is in Completed status.
func (s *CrossChainSwap) IsCompleted() bool {
	return s.Status == CrossChainSwapStatusCodeCompleted
}

// IsFailed returns whether the swap is in Failed status.
func (s *CrossChainSwap) IsFailed() bool {
	return s.Status == CrossChainSwapStatusCodeFailed
}

// IsCancelled returns whether the swap is in Cancelled status.
func (s *CrossChainSwap) IsCancelled() bool {
	return s.Status == CrossChainSwapStatusCodeCancelled
}

// IsTerminal returns whether the swap reached a status it can never leave.
func (s *CrossChainSwap) IsTerminal() bool {
	return s.Status == CrossChainSwapStatusCodeCompleted ||
		s.Status == CrossChainSwapStatusCodeCancelled
}

func deriveSwapId(
	user, sourceAsset, targetAsset common.Address,
	sourceAmount, minTargetAmount uint64, unixNano int64, nonce uint64,
) string {
	buf := make([]byte, 0, 3*common.AddressLength+32)
	buf = append(buf, user.Bytes()...)
	buf = append(buf, sourceAsset.Bytes()...)
	buf = append(buf, targetAsset.Bytes()...)
	buf = binary.BigEndian.AppendUint64(buf, sourceAmount)
	buf = binary.BigEndian.AppendUint64(buf, minTargetAmount)
	buf = binary.BigEndian.AppendUint64(buf, uint64(unixNano))
	buf = binary.BigEndian.AppendUint64(buf, nonce)
	return hexutil.Encode(crypto.Keccak256(buf))
}

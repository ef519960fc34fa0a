package domain

import (
	"math"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Order is the data structure representing a prepaid interval order. The full
// escrow commitment, AmountPerInterval*TotalIntervals of the source asset, is
// collected upfront at creation time and consumed one interval per execution.
// Orders are never deleted, only deactivated.
type Order struct {
	Id                 uint64
	Owner              common.Address
	SourceAsset        common.Address
	TargetAsset        common.Address
	Path               []common.Address
	AmountPerInterval  uint64
	Interval           time.Duration
	TotalIntervals     uint64
	IntervalsCompleted uint64
	StartTime          time.Time
	NextExecutionTime  time.Time
	Active             bool
}

// NewOrder returns a new active order after validating the provided arguments.
// The id is assigned later by the repository, the first execution is scheduled
// one interval from now.
func NewOrder(
	owner, sourceAsset common.Address, path []common.Address,
	amountPerInterval uint64, interval time.Duration, totalIntervals uint64,
) (*Order, error) {
	if amountPerInterval == 0 {
		return nil, ErrOrderZeroAmount
	}
	if totalIntervals == 0 {
		return nil, ErrOrderZeroIntervals
	}
	if interval <= 0 {
		return nil, ErrOrderInvalidInterval
	}
	// the native sentinel is only meaningful on the funding side, the
	// target of a purchase is always an external token
	if len(path) < MinPathLength || path[0] != sourceAsset ||
		path[len(path)-1] == NativeAsset {
		return nil, ErrOrderInvalidPath
	}
	if amountPerInterval > math.MaxUint64/totalIntervals {
		return nil, ErrOrderEscrowOverflow
	}

	now := time.Now()
	return &Order{
		Owner:             owner,
		SourceAsset:       sourceAsset,
		TargetAsset:       path[len(path)-1],
		Path:              path,
		AmountPerInterval: amountPerInterval,
		Interval:          interval,
		TotalIntervals:    totalIntervals,
		StartTime:         now,
		NextExecutionTime: now.Add(interval),
		Active:            true,
	}, nil
}

// EscrowRequired returns the total amount of the source asset that must be
// funded at creation time.
func (o *Order) EscrowRequired() uint64 {
	return o.AmountPerInterval * o.TotalIntervals
}

// RemainingEscrow returns the portion of the escrow commitment not yet
// consumed by executions. This is also the refund paid out on cancellation.
func (o *Order) RemainingEscrow() uint64 {
	return (o.TotalIntervals - o.IntervalsCompleted) * o.AmountPerInterval
}

// IsReady returns whether the order is due for the execution of an interval
// at the given time.
func (o *Order) IsReady(now time.Time) bool {
	return o.Active &&
		o.IntervalsCompleted < o.TotalIntervals &&
		!now.Before(o.NextExecutionTime)
}

// CompleteInterval consumes one interval after a successful swap execution.
// The next execution time advances by exactly one interval from the previous
// schedule, not from the current time, so that repeated late executions do
// not accumulate drift. Returns whether the schedule is now exhausted, in
// which case the order is deactivated permanently.
func (o *Order) CompleteInterval() (bool, error) {
	if !o.Active {
		return false, ErrOrderInactive
	}
	if o.IntervalsCompleted >= o.TotalIntervals {
		return false, ErrOrderScheduleExhausted
	}

	o.IntervalsCompleted++
	o.NextExecutionTime = o.NextExecutionTime.Add(o.Interval)
	if o.IntervalsCompleted == o.TotalIntervals {
		o.Active = false
		return true, nil
	}
	return false, nil
}

// Cancel deactivates the order and returns the amount of the source asset to
// refund to the owner. Cancelling an overdue order carries no penalty.
func (o *Order) Cancel() (uint64, error) {
	if !o.Active {
		return 0, ErrOrderInactive
	}

	refund := o.RemainingEscrow()
	o.Active = false
	return refund, nil
}

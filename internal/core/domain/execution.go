package domain

import (
	"context"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Execution is the audit record of a single executed interval of an order.
type Execution struct {
	Id        string
	OrderId   uint64
	AmountIn  uint64
	AmountOut uint64
	// Price is the amountOut/amountIn ratio quoted by the router at execution
	// time, truncated to 8 decimal places.
	Price      string
	ExecutedAt time.Time
}

// NewExecution returns the execution record for an interval swapped through
// the router with the given input and output amounts.
func NewExecution(orderId, amountIn, amountOut uint64) *Execution {
	return &Execution{
		Id:         uuid.New().String(),
		OrderId:    orderId,
		AmountIn:   amountIn,
		AmountOut:  amountOut,
		Price:      executionPrice(amountIn, amountOut),
		ExecutedAt: time.Now(),
	}
}

// ExecutionRepository is the abstraction for any kind of database intended to
// persist Executions. Records are append-only.
type ExecutionRepository interface {
	// AddExecution stores a new execution record.
	AddExecution(ctx context.Context, execution *Execution) error
	// GetExecutionsForOrder returns all the execution records of an order.
	GetExecutionsForOrder(ctx context.Context, orderId uint64) ([]*Execution, error)
}

func executionPrice(amountIn, amountOut uint64) string {
	if amountIn == 0 {
		return "0"
	}
	in := decimal.NewFromBigInt(new(big.Int).SetUint64(amountIn), 0)
	out := decimal.NewFromBigInt(new(big.Int).SetUint64(amountOut), 0)
	return out.Div(in).Truncate(8).String()
}

package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// OrderRepository is the abstraction for any kind of database intended to
// persist Orders. Ids are assigned monotonically by the repository and are
// never reused, deactivation is the only form of deletion.
type OrderRepository interface {
	// AddOrder assigns the next order id, stores the order and returns the
	// assigned id.
	AddOrder(ctx context.Context, order *Order) (uint64, error)
	// GetOrder returns the order with the given id, or ErrOrderNotFound.
	GetOrder(ctx context.Context, id uint64) (*Order, error)
	// GetAllOrders returns all the orders ever created, active or not.
	GetAllOrders(ctx context.Context) ([]*Order, error)
	// GetOrdersForAccount returns all the orders created by the given owner.
	GetOrdersForAccount(ctx context.Context, owner common.Address) ([]*Order, error)
	// UpdateOrder allows to commit multiple changes to the same order in a
	// transactional way.
	UpdateOrder(
		ctx context.Context, id uint64,
		updateFn func(o *Order) (*Order, error),
	) error
}

package dbbadger

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/timshannon/badgerhold/v4"

	"github.com/recurra/recurra-daemon/internal/core/domain"
)

type orderRepositoryImpl struct {
	db *DbManager
}

func newOrderRepositoryImpl(db *DbManager) domain.OrderRepository {
	return orderRepositoryImpl{db}
}

func (r orderRepositoryImpl) AddOrder(
	ctx context.Context, order *domain.Order,
) (uint64, error) {
	seq, err := r.db.orderSeq.Next()
	if err != nil {
		return 0, err
	}
	// sequences start at 0, order ids at 1
	order.Id = seq + 1

	if err := r.db.ordersStore.Insert(order.Id, *order); err != nil {
		return 0, err
	}
	return order.Id, nil
}

func (r orderRepositoryImpl) GetOrder(
	ctx context.Context, id uint64,
) (*domain.Order, error) {
	var order domain.Order
	if err := r.db.ordersStore.Get(id, &order); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r orderRepositoryImpl) GetAllOrders(
	ctx context.Context,
) ([]*domain.Order, error) {
	return r.findOrders(&badgerhold.Query{})
}

func (r orderRepositoryImpl) GetOrdersForAccount(
	ctx context.Context, owner common.Address,
) ([]*domain.Order, error) {
	query := badgerhold.Where("Owner").Eq(owner)
	return r.findOrders(query)
}

func (r orderRepositoryImpl) UpdateOrder(
	ctx context.Context, id uint64,
	updateFn func(o *domain.Order) (*domain.Order, error),
) error {
	currentOrder, err := r.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	updatedOrder, err := updateFn(currentOrder)
	if err != nil {
		return err
	}

	return r.db.ordersStore.Update(id, *updatedOrder)
}

func (r orderRepositoryImpl) findOrders(
	query *badgerhold.Query,
) ([]*domain.Order, error) {
	var list []domain.Order
	if err := r.db.ordersStore.Find(&list, query); err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(list))
	for i := range list {
		orders = append(orders, &list[i])
	}
	return orders, nil
}

package inmemory

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/recurra/recurra-daemon/internal/core/domain"
)

type orderRepositoryImpl struct {
	store *orderStore
}

func (r orderRepositoryImpl) AddOrder(
	_ context.Context, order *domain.Order,
) (uint64, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.nextId++
	order.Id = r.store.nextId
	r.store.orders[order.Id] = *order
	return order.Id, nil
}

func (r orderRepositoryImpl) GetOrder(
	_ context.Context, id uint64,
) (*domain.Order, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	return r.getOrder(id)
}

func (r orderRepositoryImpl) GetAllOrders(
	_ context.Context,
) ([]*domain.Order, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	orders := make([]*domain.Order, 0, len(r.store.orders))
	for _, order := range r.store.orders {
		order := order
		orders = append(orders, &order)
	}
	return orders, nil
}

func (r orderRepositoryImpl) GetOrdersForAccount(
	_ context.Context, owner common.Address,
) ([]*domain.Order, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	orders := make([]*domain.Order, 0)
	for _, order := range r.store.orders {
		if order.Owner == owner {
			order := order
			orders = append(orders, &order)
		}
	}
	return orders, nil
}

func (r orderRepositoryImpl) UpdateOrder(
	_ context.Context, id uint64,
	updateFn func(o *domain.Order) (*domain.Order, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	currentOrder, err := r.getOrder(id)
	if err != nil {
		return err
	}

	updatedOrder, err := updateFn(currentOrder)
	if err != nil {
		return err
	}

	r.store.orders[id] = *updatedOrder
	return nil
}

func (r orderRepositoryImpl) getOrder(id uint64) (*domain.Order, error) {
	order, ok := r.store.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}

package inmemory

import (
	"context"

	"github.com/recurra/recurra-daemon/internal/core/domain"
)

type executionRepositoryImpl struct {
	store *executionStore
}

func (r executionRepositoryImpl) AddExecution(
	_ context.Context, execution *domain.Execution,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.executions[execution.OrderId] = append(
		r.store.executions[execution.OrderId], *execution,
	)
	return nil
}

func (r executionRepositoryImpl) GetExecutionsForOrder(
	_ context.Context, orderId uint64,
) ([]*domain.Execution, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	list := r.store.executions[orderId]
	executions := make([]*domain.Execution, 0, len(list))
	for i := range list {
		execution := list[i]
		executions = append(executions, &execution)
	}
	return executions, nil
}

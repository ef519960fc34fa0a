package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"

	"github.com/recurra/recurra-daemon/internal/core/domain"
)

type executionRepositoryImpl struct {
	db *DbManager
}

func newExecutionRepositoryImpl(db *DbManager) domain.ExecutionRepository {
	return executionRepositoryImpl{db}
}

func (r executionRepositoryImpl) AddExecution(
	ctx context.Context, execution *domain.Execution,
) error {
	return r.db.executionsStore.Insert(execution.Id, *execution)
}

func (r executionRepositoryImpl) GetExecutionsForOrder(
	ctx context.Context, orderId uint64,
) ([]*domain.Execution, error) {
	var list []domain.Execution
	query := badgerhold.Where("OrderId").Eq(orderId)
	if err := r.db.executionsStore.Find(&list, query); err != nil {
		return nil, err
	}

	executions := make([]*domain.Execution, 0, len(list))
	for i := range list {
		executions = append(executions, &list[i])
	}
	return executions, nil
}

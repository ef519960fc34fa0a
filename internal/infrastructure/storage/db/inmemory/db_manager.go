package inmemory

import (
	"sync"

	"github.com/recurra/recurra-daemon/internal/core/domain"
	"github.com/recurra/recurra-daemon/internal/core/ports"
)

// DbManager holds the in-memory stores of all the repositories in a single
// data structure.
type DbManager struct {
	orderStore     *orderStore
	swapStore      *swapStore
	executionStore *executionStore
}

// NewDbManager returns an empty in-memory RepoManager implementation.
func NewDbManager() *DbManager {
	return &DbManager{
		orderStore: &orderStore{
			orders: make(map[uint64]domain.Order),
		},
		swapStore: &swapStore{
			swaps: make(map[string]domain.CrossChainSwap),
		},
		executionStore: &executionStore{
			executions: make(map[uint64][]domain.Execution),
		},
	}
}

// OrderRepository implements the RepoManager interface.
func (d *DbManager) OrderRepository() domain.OrderRepository {
	return orderRepositoryImpl{d.orderStore}
}

// CrossChainSwapRepository implements the RepoManager interface.
func (d *DbManager) CrossChainSwapRepository() domain.CrossChainSwapRepository {
	return crossChainSwapRepositoryImpl{d.swapStore}
}

// ExecutionRepository implements the RepoManager interface.
func (d *DbManager) ExecutionRepository() domain.ExecutionRepository {
	return executionRepositoryImpl{d.executionStore}
}

// Close implements the RepoManager interface.
func (d *DbManager) Close() error {
	return nil
}

var _ ports.RepoManager = (*DbManager)(nil)

type orderStore struct {
	orders map[uint64]domain.Order
	nextId uint64
	locker sync.Mutex
}

type swapStore struct {
	swaps     map[string]domain.CrossChainSwap
	nextNonce uint64
	locker    sync.Mutex
}

type executionStore struct {
	executions map[uint64][]domain.Execution
	locker     sync.Mutex
}

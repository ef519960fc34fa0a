package ports

import "github.com/recurra/recurra-daemon/internal/core/domain"

// RepoManager gives access to all the repositories of the daemon in a single
// data structure.
type RepoManager interface {
	// OrderRepository returns the repository of interval orders.
	OrderRepository() domain.OrderRepository
	// CrossChainSwapRepository returns the repository of cross-chain swaps.
	CrossChainSwapRepository() domain.CrossChainSwapRepository
	// ExecutionRepository returns the repository of execution records.
	ExecutionRepository() domain.ExecutionRepository
	// Close should be used to gracefully close the connection with the
	// underlying storage.
	Close() error
}

package dbbadger

import (
	"context"
	"crypto/rand"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/recurra/recurra-daemon/internal/core/domain"
)

func TestOrderRepository(t *testing.T) {
	repoManager := newTestDb(t)
	repo := repoManager.OrderRepository()
	ctx := context.Background()

	order := newTestOrder(t)
	id, err := repo.AddOrder(ctx, order)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)

	otherId, err := repo.AddOrder(ctx, newTestOrder(t))
	require.NoError(t, err)
	require.Greater(t, otherId, id)

	found, err := repo.GetOrder(ctx, id)
	require.NoError(t, err)
	require.Equal(t, order.Owner, found.Owner)
	require.Equal(t, order.Path, found.Path)
	require.True(t, found.Active)

	_, err = repo.GetOrder(ctx, 42)
	require.EqualError(t, err, domain.ErrOrderNotFound.Error())

	err = repo.UpdateOrder(ctx, id, func(o *domain.Order) (*domain.Order, error) {
		_, err := o.CompleteInterval()
		return o, err
	})
	require.NoError(t, err)

	found, err = repo.GetOrder(ctx, id)
	require.NoError(t, err)
	require.Equal(t, uint64(1), found.IntervalsCompleted)

	byOwner, err := repo.GetOrdersForAccount(ctx, order.Owner)
	require.NoError(t, err)
	require.Len(t, byOwner, 1)

	all, err := repo.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestCrossChainSwapRepository(t *testing.T) {
	repoManager := newTestDb(t)
	repo := repoManager.CrossChainSwapRepository()
	ctx := context.Background()

	nonce, err := repo.NextNonce(ctx)
	require.NoError(t, err)
	swap := domain.NewCrossChainSwap(
		randomAddress(), randomAddress(), randomAddress(), 1000, 990, "msgref", nonce,
	)
	require.NoError(t, repo.AddSwap(ctx, swap))

	found, err := repo.GetSwap(ctx, swap.Id)
	require.NoError(t, err)
	require.True(t, found.IsInitiated())

	_, err = repo.GetSwap(ctx, "unknown")
	require.EqualError(t, err, domain.ErrCrossChainSwapNotFound.Error())

	err = repo.UpdateSwap(ctx, swap.Id, func(s *domain.CrossChainSwap) (*domain.CrossChainSwap, error) {
		return s, s.Complete(995)
	})
	require.NoError(t, err)

	found, err = repo.GetSwap(ctx, swap.Id)
	require.NoError(t, err)
	require.True(t, found.IsTerminal())
	require.Equal(t, uint64(995), found.SettledAmount)

	byUser, err := repo.GetSwapsForAccount(ctx, swap.User)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
}

func newTestDb(t *testing.T) *DbManager {
	t.Helper()

	db, err := NewDbManager(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestOrder(t *testing.T) *domain.Order {
	t.Helper()

	path := []common.Address{randomAddress(), randomAddress()}
	order, err := domain.NewOrder(
		randomAddress(), path[0], path, 5, time.Hour, 10,
	)
	require.NoError(t, err)
	return order
}

func randomAddress() common.Address {
	var addr common.Address
	rand.Read(addr[:])
	return addr
}

package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/recurra/recurra-daemon/internal/core/application"
	"github.com/recurra/recurra-daemon/internal/core/domain"
	"github.com/recurra/recurra-daemon/internal/core/ports"
)

var errRouterDown = errors.New("router unavailable")

type upkeepFixture struct {
	*orderFixture
	upkeepService application.UpkeepService
}

func newUpkeepFixture() *upkeepFixture {
	f := newOrderFixture()
	return &upkeepFixture{
		orderFixture:  f,
		upkeepService: application.NewUpkeepService(f.repoManager, f.orderService),
	}
}

// addOverdueOrder creates a funded order with a distinctive per-interval
// amount and makes its next interval due.
func (f *upkeepFixture) addOverdueOrder(t *testing.T, amount uint64) *domain.Order {
	t.Helper()
	escrow := amount * 10
	f.treasury.Deposit(owner, sourceAsset, escrow)

	order, err := f.orderService.CreateOrder(
		ctx, owner, sourceAsset, swapPath, amount, time.Hour, 10, escrow,
	)
	require.NoError(t, err)
	f.makeOverdue(t, order.Id, 1)
	return order
}

func TestScan(t *testing.T) {
	f := newUpkeepFixture()

	due, orderIds, err := f.upkeepService.Scan(ctx)
	require.NoError(t, err)
	require.False(t, due)
	require.Empty(t, orderIds)

	first := f.addOverdueOrder(t, 5)
	second := f.addOverdueOrder(t, 7)

	// a fresh order scheduled in the future must not show up
	f.treasury.Deposit(owner, sourceAsset, 30)
	_, err = f.orderService.CreateOrder(
		ctx, owner, sourceAsset, swapPath, 3, time.Hour, 10, 30,
	)
	require.NoError(t, err)

	due, orderIds, err = f.upkeepService.Scan(ctx)
	require.NoError(t, err)
	require.True(t, due)
	require.ElementsMatch(t, []uint64{first.Id, second.Id}, orderIds)
}

func TestPerform(t *testing.T) {
	f := newUpkeepFixture()
	first := f.addOverdueOrder(t, 5)
	second := f.addOverdueOrder(t, 7)
	third := f.addOverdueOrder(t, 9)

	// the middle order fails at the router, its neighbours must still execute
	matchAmount := func(amount uint64) interface{} {
		return mock.MatchedBy(func(args ports.SwapArgs) bool {
			return args.AmountIn == amount
		})
	}
	f.router.On("ExecuteSwap", mock.Anything, matchAmount(5)).Return(uint64(42), nil)
	f.router.On("ExecuteSwap", mock.Anything, matchAmount(7)).
		Return(nil, errRouterDown)
	f.router.On("ExecuteSwap", mock.Anything, matchAmount(9)).Return(uint64(42), nil)

	_, orderIds, err := f.upkeepService.Scan(ctx)
	require.NoError(t, err)
	f.upkeepService.Perform(ctx, orderIds)

	for _, tt := range []struct {
		orderId  uint64
		executed uint64
	}{
		{first.Id, 1},
		{second.Id, 0},
		{third.Id, 1},
	} {
		order, err := f.orderService.GetOrder(ctx, tt.orderId)
		require.NoError(t, err)
		require.Equal(t, tt.executed, order.IntervalsCompleted)
	}

	// the failed order is still due and is retried by the next pass
	due, orderIds, err := f.upkeepService.Scan(ctx)
	require.NoError(t, err)
	require.True(t, due)
	require.Equal(t, []uint64{second.Id}, orderIds)
}

func TestRun(t *testing.T) {
	f := newUpkeepFixture()
	order := f.addOverdueOrder(t, 5)
	f.router.On("ExecuteSwap", mock.Anything, mock.Anything).Return(uint64(42), nil)

	runCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	f.upkeepService.Run(runCtx, 50*time.Millisecond)

	executed, err := f.orderService.GetOrder(ctx, order.Id)
	require.NoError(t, err)
	require.Equal(t, uint64(1), executed.IntervalsCompleted)
}

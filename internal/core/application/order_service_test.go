package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/recurra/recurra-daemon/internal/core/application"
	"github.com/recurra/recurra-daemon/internal/core/domain"
	"github.com/recurra/recurra-daemon/internal/core/ports"
	"github.com/recurra/recurra-daemon/internal/infrastructure/compliance"
	"github.com/recurra/recurra-daemon/internal/infrastructure/pubsub"
	"github.com/recurra/recurra-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/recurra/recurra-daemon/internal/infrastructure/treasury"
)

var (
	ctx = context.Background()

	owner       = common.HexToAddress("0x1111111111111111111111111111111111111111")
	stranger    = common.HexToAddress("0x2222222222222222222222222222222222222222")
	sourceAsset   = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	targetAsset   = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	badAsset      = common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")
	wrappedNative = common.HexToAddress("0xdddddddddddddddddddddddddddddddddddddddd")

	swapPath = []common.Address{sourceAsset, targetAsset}
)

type orderFixture struct {
	repoManager  *inmemory.DbManager
	treasury     *treasury.Treasury
	router       *mockSwapRouter
	orderService application.OrderService
}

func newOrderFixture() *orderFixture {
	repoManager := inmemory.NewDbManager()
	treasurySvc := treasury.NewTreasury()
	router := &mockSwapRouter{}
	complianceGate := compliance.NewRegistry([]common.Address{sourceAsset, targetAsset})

	return &orderFixture{
		repoManager: repoManager,
		treasury:    treasurySvc,
		router:      router,
		orderService: application.NewOrderService(
			repoManager, complianceGate, router, treasurySvc,
			pubsub.NewService(), wrappedNative, 30*time.Second,
		),
	}
}

// makeOverdue rewinds the order's schedule so that the given number of
// intervals are already due.
func (f *orderFixture) makeOverdue(t *testing.T, orderId, intervals uint64) {
	t.Helper()
	err := f.repoManager.OrderRepository().UpdateOrder(
		ctx, orderId, func(o *domain.Order) (*domain.Order, error) {
			o.NextExecutionTime = time.Now().
				Add(-time.Duration(intervals-1) * o.Interval).
				Add(-time.Minute)
			return o, nil
		},
	)
	require.NoError(t, err)
}

func TestCreateOrder(t *testing.T) {
	f := newOrderFixture()
	f.treasury.Deposit(owner, sourceAsset, 60)

	order, err := f.orderService.CreateOrder(
		ctx, owner, sourceAsset, swapPath, 5, time.Hour, 10, 60,
	)
	require.NoError(t, err)
	require.NotNil(t, order)
	require.Greater(t, order.Id, uint64(0))
	require.True(t, order.Active)
	require.Equal(t, uint64(50), order.EscrowRequired())
	require.Equal(t, uint64(50), order.RemainingEscrow())

	// the whole escrow is in custody and the overpayment went straight back
	require.Equal(t, uint64(50), f.treasury.CustodyOf(sourceAsset))
	require.Equal(t, uint64(10), f.treasury.BalanceOf(owner, sourceAsset))
}

func TestFailingCreateOrder(t *testing.T) {
	tests := []struct {
		name          string
		targetAsset   common.Address
		amount        uint64
		intervals     uint64
		deposited     uint64
		fundsProvided uint64
		expectedError error
	}{
		{
			name:          "asset not compliant",
			targetAsset:   badAsset,
			amount:        5,
			intervals:     10,
			deposited:     60,
			fundsProvided: 60,
			expectedError: application.ErrAssetNotCompliant,
		},
		{
			name:          "funds below escrow",
			targetAsset:   targetAsset,
			amount:        5,
			intervals:     10,
			deposited:     60,
			fundsProvided: 49,
			expectedError: domain.ErrOrderInsufficientFunding,
		},
		{
			name:          "account balance below funds",
			targetAsset:   targetAsset,
			amount:        5,
			intervals:     10,
			deposited:     40,
			fundsProvided: 50,
			expectedError: treasury.ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()
			f.treasury.Deposit(owner, sourceAsset, tt.deposited)

			order, err := f.orderService.CreateOrder(
				ctx, owner, sourceAsset,
				[]common.Address{sourceAsset, tt.targetAsset},
				tt.amount, time.Hour, tt.intervals, tt.fundsProvided,
			)
			require.ErrorIs(t, err, tt.expectedError)
			require.Nil(t, order)
			// nothing must be retained on a rejected creation
			require.Zero(t, f.treasury.CustodyOf(sourceAsset))
			require.Equal(t, tt.deposited, f.treasury.BalanceOf(owner, sourceAsset))
		})
	}

	t.Run("compliance gate unavailable", func(t *testing.T) {
		treasurySvc := treasury.NewTreasury()
		treasurySvc.Deposit(owner, sourceAsset, 60)
		gate := &mockComplianceGate{}
		gate.On("IsCompliant", mock.Anything, targetAsset).
			Return(nil, errors.New("registry unavailable"))

		orderSvc := application.NewOrderService(
			inmemory.NewDbManager(), gate, &mockSwapRouter{}, treasurySvc,
			pubsub.NewService(), wrappedNative, 30*time.Second,
		)
		order, err := orderSvc.CreateOrder(
			ctx, owner, sourceAsset, swapPath, 5, time.Hour, 10, 60,
		)
		require.Error(t, err)
		require.Nil(t, order)
		require.Zero(t, treasurySvc.CustodyOf(sourceAsset))
	})

	t.Run("native source without wrapped asset", func(t *testing.T) {
		f := newOrderFixture()
		orderSvc := application.NewOrderService(
			f.repoManager, compliance.NewRegistry([]common.Address{targetAsset}),
			f.router, f.treasury, pubsub.NewService(),
			common.Address{}, 30*time.Second,
		)
		f.treasury.Deposit(owner, domain.NativeAsset, 50)

		order, err := orderSvc.CreateOrder(
			ctx, owner, domain.NativeAsset,
			[]common.Address{domain.NativeAsset, targetAsset},
			5, time.Hour, 10, 50,
		)
		require.ErrorIs(t, err, application.ErrNativeAssetUnsupported)
		require.Nil(t, order)
		require.Equal(t, uint64(50), f.treasury.BalanceOf(owner, domain.NativeAsset))
	})
}

func TestExecuteOrderInterval(t *testing.T) {
	f := newOrderFixture()
	f.treasury.Deposit(owner, sourceAsset, 50)
	f.router.On("ExecuteSwap", mock.Anything, mock.Anything).Return(uint64(42), nil)

	order, err := f.orderService.CreateOrder(
		ctx, owner, sourceAsset, swapPath, 5, time.Hour, 10, 50,
	)
	require.NoError(t, err)

	// a fresh order is scheduled one interval ahead, not immediately
	execution, err := f.orderService.ExecuteOrderInterval(ctx, order.Id)
	require.ErrorIs(t, err, domain.ErrOrderNotDue)
	require.Nil(t, execution)

	f.makeOverdue(t, order.Id, 1)

	execution, err = f.orderService.ExecuteOrderInterval(ctx, order.Id)
	require.NoError(t, err)
	require.NotNil(t, execution)
	require.Equal(t, order.Id, execution.OrderId)
	require.Equal(t, uint64(5), execution.AmountIn)
	require.Equal(t, uint64(42), execution.AmountOut)

	updated, err := f.orderService.GetOrder(ctx, order.Id)
	require.NoError(t, err)
	require.Equal(t, uint64(1), updated.IntervalsCompleted)
	require.Equal(t, uint64(45), updated.RemainingEscrow())
	// the consumed escrow left custody with the execution
	require.Equal(t, uint64(45), f.treasury.CustodyOf(sourceAsset))

	// the one due interval is consumed
	_, err = f.orderService.ExecuteOrderInterval(ctx, order.Id)
	require.ErrorIs(t, err, domain.ErrOrderNotDue)

	executions, err := f.orderService.ListExecutionsForOrder(ctx, order.Id)
	require.NoError(t, err)
	require.Len(t, executions, 1)
}

func TestFailingExecuteOrderInterval(t *testing.T) {
	f := newOrderFixture()
	f.treasury.Deposit(owner, sourceAsset, 50)
	f.router.On("ExecuteSwap", mock.Anything, mock.Anything).
		Return(nil, errors.New("router unavailable"))

	order, err := f.orderService.CreateOrder(
		ctx, owner, sourceAsset, swapPath, 5, time.Hour, 10, 50,
	)
	require.NoError(t, err)
	f.makeOverdue(t, order.Id, 1)

	execution, err := f.orderService.ExecuteOrderInterval(ctx, order.Id)
	require.ErrorIs(t, err, application.ErrSwapExecutionFailed)
	require.Nil(t, execution)

	// nothing changed, the order stays due and retryable
	updated, err := f.orderService.GetOrder(ctx, order.Id)
	require.NoError(t, err)
	require.Zero(t, updated.IntervalsCompleted)
	require.True(t, updated.IsReady(time.Now()))
	require.Equal(t, uint64(50), f.treasury.CustodyOf(sourceAsset))

	executions, err := f.orderService.ListExecutionsForOrder(ctx, order.Id)
	require.NoError(t, err)
	require.Empty(t, executions)
}

func TestExecuteNativeSourceOrderInterval(t *testing.T) {
	f := newOrderFixture()
	f.treasury.Deposit(owner, domain.NativeAsset, 50)
	// the router must never see the native sentinel as an input token
	f.router.On("ExecuteSwap", mock.Anything, mock.MatchedBy(
		func(args ports.SwapArgs) bool {
			return args.Path[0] == wrappedNative && args.Path[1] == targetAsset
		},
	)).Return(uint64(42), nil)

	order, err := f.orderService.CreateOrder(
		ctx, owner, domain.NativeAsset,
		[]common.Address{domain.NativeAsset, targetAsset},
		5, time.Hour, 10, 50,
	)
	require.NoError(t, err)
	f.makeOverdue(t, order.Id, 1)

	execution, err := f.orderService.ExecuteOrderInterval(ctx, order.Id)
	require.NoError(t, err)
	require.NotNil(t, execution)
	f.router.AssertExpectations(t)

	// the stored order keeps the sentinel, the rewrite is router-local
	stored, err := f.orderService.GetOrder(ctx, order.Id)
	require.NoError(t, err)
	require.Equal(t, domain.NativeAsset, stored.Path[0])
	require.Equal(t, uint64(45), f.treasury.CustodyOf(domain.NativeAsset))
}

func TestEscrowMatchesCustody(t *testing.T) {
	f := newOrderFixture()
	f.treasury.Deposit(owner, sourceAsset, 62)
	f.router.On("ExecuteSwap", mock.Anything, mock.Anything).Return(uint64(42), nil)

	first, err := f.orderService.CreateOrder(
		ctx, owner, sourceAsset, swapPath, 5, time.Hour, 10, 50,
	)
	require.NoError(t, err)
	second, err := f.orderService.CreateOrder(
		ctx, owner, sourceAsset, swapPath, 4, time.Hour, 3, 12,
	)
	require.NoError(t, err)

	// cancelled orders already refunded their remainder, only active ones
	// still have escrow in custody
	remaining := func() uint64 {
		total := uint64(0)
		for _, id := range []uint64{first.Id, second.Id} {
			o, err := f.orderService.GetOrder(ctx, id)
			require.NoError(t, err)
			if o.Active {
				total += o.RemainingEscrow()
			}
		}
		return total
	}

	// custody must track the aggregate remaining escrow at every step
	require.Equal(t, uint64(62), f.treasury.CustodyOf(sourceAsset))

	f.makeOverdue(t, first.Id, 2)
	for i := 0; i < 2; i++ {
		_, err := f.orderService.ExecuteOrderInterval(ctx, first.Id)
		require.NoError(t, err)
	}
	require.Equal(t, remaining(), f.treasury.CustodyOf(sourceAsset))
	require.Equal(t, uint64(52), f.treasury.CustodyOf(sourceAsset))

	refund, err := f.orderService.CancelOrder(ctx, first.Id, owner)
	require.NoError(t, err)
	require.Equal(t, uint64(40), refund)
	require.Equal(t, remaining(), f.treasury.CustodyOf(sourceAsset))
	require.Equal(t, uint64(12), f.treasury.CustodyOf(sourceAsset))

	// running the second order to completion drains its escrow entirely
	f.makeOverdue(t, second.Id, 3)
	for i := 0; i < 3; i++ {
		_, err := f.orderService.ExecuteOrderInterval(ctx, second.Id)
		require.NoError(t, err)
	}
	require.Zero(t, f.treasury.CustodyOf(sourceAsset))
	require.Equal(t, uint64(40), f.treasury.BalanceOf(owner, sourceAsset))
}

func TestCancelOrder(t *testing.T) {
	f := newOrderFixture()
	f.treasury.Deposit(owner, sourceAsset, 50)
	f.router.On("ExecuteSwap", mock.Anything, mock.Anything).Return(uint64(42), nil)

	order, err := f.orderService.CreateOrder(
		ctx, owner, sourceAsset, swapPath, 5, time.Hour, 10, 50,
	)
	require.NoError(t, err)

	f.makeOverdue(t, order.Id, 3)
	for i := 0; i < 3; i++ {
		_, err := f.orderService.ExecuteOrderInterval(ctx, order.Id)
		require.NoError(t, err)
	}

	require.Equal(t, uint64(35), f.treasury.CustodyOf(sourceAsset))

	refund, err := f.orderService.CancelOrder(ctx, order.Id, owner)
	require.NoError(t, err)
	require.Equal(t, uint64(35), refund)
	require.Equal(t, uint64(35), f.treasury.BalanceOf(owner, sourceAsset))
	require.Zero(t, f.treasury.CustodyOf(sourceAsset))

	cancelled, err := f.orderService.GetOrder(ctx, order.Id)
	require.NoError(t, err)
	require.False(t, cancelled.Active)

	// already inactive
	_, err = f.orderService.CancelOrder(ctx, order.Id, owner)
	require.ErrorIs(t, err, domain.ErrOrderInactive)
	_, err = f.orderService.ExecuteOrderInterval(ctx, order.Id)
	require.ErrorIs(t, err, domain.ErrOrderInactive)
}

func TestFailingCancelOrder(t *testing.T) {
	f := newOrderFixture()
	f.treasury.Deposit(owner, sourceAsset, 50)

	order, err := f.orderService.CreateOrder(
		ctx, owner, sourceAsset, swapPath, 5, time.Hour, 10, 50,
	)
	require.NoError(t, err)

	t.Run("caller is not the owner", func(t *testing.T) {
		_, err := f.orderService.CancelOrder(ctx, order.Id, stranger)
		require.ErrorIs(t, err, domain.ErrOrderNotOwned)

		unchanged, err := f.orderService.GetOrder(ctx, order.Id)
		require.NoError(t, err)
		require.True(t, unchanged.Active)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := f.orderService.CancelOrder(ctx, order.Id+100, owner)
		require.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}

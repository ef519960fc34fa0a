package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"github.com/recurra/recurra-daemon/internal/core/domain"
	"github.com/recurra/recurra-daemon/internal/core/ports"
)

// OrderService is the entrypoint for creating, cancelling and executing
// prepaid interval orders.
type OrderService interface {
	// CreateOrder validates and stores a new interval order, collecting the
	// full escrow commitment from the provided funds and returning any excess
	// to the owner immediately.
	CreateOrder(
		ctx context.Context, owner, sourceAsset common.Address,
		path []common.Address, amountPerInterval uint64,
		interval time.Duration, totalIntervals, fundsProvided uint64,
	) (*domain.Order, error)
	// CancelOrder deactivates an order and refunds the unconsumed escrow to
	// its owner. It returns the refunded amount.
	CancelOrder(ctx context.Context, orderId uint64, caller common.Address) (uint64, error)
	// ExecuteOrderInterval swaps exactly one interval of a due order through
	// the router. On router failure nothing changes and the order stays
	// retryable.
	ExecuteOrderInterval(ctx context.Context, orderId uint64) (*domain.Execution, error)
	// GetOrder returns the order with the given id.
	GetOrder(ctx context.Context, orderId uint64) (*domain.Order, error)
	// ListOrdersForAccount returns all the orders of an owner.
	ListOrdersForAccount(ctx context.Context, owner common.Address) ([]*domain.Order, error)
	// ListExecutionsForOrder returns the execution records of an order.
	ListExecutionsForOrder(ctx context.Context, orderId uint64) ([]*domain.Execution, error)
}

type orderService struct {
	repoManager    ports.RepoManager
	complianceGate ports.ComplianceGate
	swapRouter     ports.SwapRouter
	treasury       ports.Treasury
	pubsub         ports.PubSub
	locker         *entityLocker
	wrappedNative  common.Address
	routerDeadline time.Duration
}

// NewOrderService returns an OrderService backed by the given repositories
// and external collaborators. wrappedNative is the token standing in for the
// native sentinel on the router, routerDeadline bounds every router
// execution.
func NewOrderService(
	repoManager ports.RepoManager,
	complianceGate ports.ComplianceGate,
	swapRouter ports.SwapRouter,
	treasury ports.Treasury,
	pubsub ports.PubSub,
	wrappedNative common.Address,
	routerDeadline time.Duration,
) OrderService {
	return &orderService{
		repoManager:    repoManager,
		complianceGate: complianceGate,
		swapRouter:     swapRouter,
		treasury:       treasury,
		pubsub:         pubsub,
		locker:         newEntityLocker(),
		wrappedNative:  wrappedNative,
		routerDeadline: routerDeadline,
	}
}

func (s *orderService) CreateOrder(
	ctx context.Context, owner, sourceAsset common.Address,
	path []common.Address, amountPerInterval uint64,
	interval time.Duration, totalIntervals, fundsProvided uint64,
) (*domain.Order, error) {
	order, err := domain.NewOrder(
		owner, sourceAsset, path, amountPerInterval, interval, totalIntervals,
	)
	if err != nil {
		return nil, err
	}

	if order.SourceAsset == domain.NativeAsset &&
		s.wrappedNative == (common.Address{}) {
		return nil, ErrNativeAssetUnsupported
	}

	isCompliant, err := s.complianceGate.IsCompliant(ctx, order.TargetAsset)
	if err != nil {
		return nil, err
	}
	if !isCompliant {
		return nil, ErrAssetNotCompliant
	}

	escrow := order.EscrowRequired()
	if fundsProvided < escrow {
		return nil, domain.ErrOrderInsufficientFunding
	}

	if err := s.treasury.Collect(ctx, owner, sourceAsset, fundsProvided); err != nil {
		return nil, err
	}
	// no residual custody of overpayment
	if change := fundsProvided - escrow; change > 0 {
		if err := s.treasury.Payout(ctx, owner, sourceAsset, change); err != nil {
			s.refund(ctx, owner, sourceAsset, fundsProvided)
			return nil, err
		}
	}

	id, err := s.repoManager.OrderRepository().AddOrder(ctx, order)
	if err != nil {
		s.refund(ctx, owner, sourceAsset, escrow)
		return nil, err
	}
	order.Id = id

	log.Infof(
		"created order %d for %s, %d x %d of asset %s every %s",
		order.Id, order.Owner, order.TotalIntervals, order.AmountPerInterval,
		order.SourceAsset, order.Interval,
	)
	s.pubsub.Publish(ports.OrderCreatedTopic, *order)

	return order, nil
}

func (s *orderService) CancelOrder(
	ctx context.Context, orderId uint64, caller common.Address,
) (uint64, error) {
	unlock := s.locker.lock(orderKey(orderId))
	defer unlock()

	var refund uint64
	var cancelled domain.Order
	if err := s.repoManager.OrderRepository().UpdateOrder(
		ctx, orderId, func(o *domain.Order) (*domain.Order, error) {
			if o.Owner != caller {
				return nil, domain.ErrOrderNotOwned
			}
			amount, err := o.Cancel()
			if err != nil {
				return nil, err
			}
			// the refund is paid inside the update so that a payout failure
			// aborts the deactivation
			if err := s.treasury.Payout(ctx, o.Owner, o.SourceAsset, amount); err != nil {
				return nil, err
			}
			refund = amount
			cancelled = *o
			return o, nil
		},
	); err != nil {
		return 0, err
	}

	log.Infof("cancelled order %d, refunded %d", orderId, refund)
	s.pubsub.Publish(ports.OrderCancelledTopic, cancelled)

	return refund, nil
}

func (s *orderService) ExecuteOrderInterval(
	ctx context.Context, orderId uint64,
) (*domain.Execution, error) {
	unlock := s.locker.lock(orderKey(orderId))
	defer unlock()

	order, err := s.repoManager.OrderRepository().GetOrder(ctx, orderId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !order.Active {
		return nil, domain.ErrOrderInactive
	}
	if !order.IsReady(now) {
		return nil, domain.ErrOrderNotDue
	}

	// interval orders intentionally accept the router-quoted price, trading
	// price certainty for schedule automation
	amountOut, err := s.swapRouter.ExecuteSwap(ctx, ports.SwapArgs{
		Path:         s.routerPath(order.Path),
		AmountIn:     order.AmountPerInterval,
		MinAmountOut: 0,
		Recipient:    order.Owner,
		Deadline:     now.Add(s.routerDeadline),
	})
	if err != nil {
		log.WithError(err).Warnf("failed to execute swap for order %d", orderId)
		return nil, fmt.Errorf("%w: %s", ErrSwapExecutionFailed, err)
	}

	var exhausted bool
	var executed domain.Order
	if err := s.repoManager.OrderRepository().UpdateOrder(
		ctx, orderId, func(o *domain.Order) (*domain.Order, error) {
			done, err := o.CompleteInterval()
			if err != nil {
				return nil, err
			}
			// the consumed escrow leaves custody together with the schedule
			// advance so the two cannot diverge
			if err := s.treasury.Settle(
				ctx, o.SourceAsset, o.AmountPerInterval,
			); err != nil {
				return nil, err
			}
			exhausted = done
			executed = *o
			return o, nil
		},
	); err != nil {
		return nil, err
	}

	execution := domain.NewExecution(orderId, order.AmountPerInterval, amountOut)
	if err := s.repoManager.ExecutionRepository().AddExecution(ctx, execution); err != nil {
		log.WithError(err).Warnf("failed to record execution for order %d", orderId)
	}
	executedIntervalsCounter.Inc()

	log.Debugf(
		"executed interval %d/%d of order %d, %d in, %d out",
		executed.IntervalsCompleted, executed.TotalIntervals, orderId,
		order.AmountPerInterval, amountOut,
	)
	s.pubsub.Publish(ports.OrderExecutedTopic, *execution)
	if exhausted {
		log.Infof("order %d completed its schedule", orderId)
		s.pubsub.Publish(ports.OrderCompletedTopic, executed)
	}

	return execution, nil
}

func (s *orderService) GetOrder(
	ctx context.Context, orderId uint64,
) (*domain.Order, error) {
	return s.repoManager.OrderRepository().GetOrder(ctx, orderId)
}

func (s *orderService) ListOrdersForAccount(
	ctx context.Context, owner common.Address,
) ([]*domain.Order, error) {
	return s.repoManager.OrderRepository().GetOrdersForAccount(ctx, owner)
}

func (s *orderService) ListExecutionsForOrder(
	ctx context.Context, orderId uint64,
) ([]*domain.Execution, error) {
	return s.repoManager.ExecutionRepository().GetExecutionsForOrder(ctx, orderId)
}

// routerPath returns the swap path in the router's expected input form. The
// native sentinel is not a token the router can pull, it maps to the
// configured wrapped representation.
func (s *orderService) routerPath(path []common.Address) []common.Address {
	if path[0] != domain.NativeAsset {
		return path
	}
	wrapped := make([]common.Address, len(path))
	copy(wrapped, path)
	wrapped[0] = s.wrappedNative
	return wrapped
}

func (s *orderService) refund(
	ctx context.Context, to, asset common.Address, amount uint64,
) {
	if err := s.treasury.Payout(ctx, to, asset, amount); err != nil {
		log.WithError(err).Errorf(
			"failed to refund %d of asset %s to %s", amount, asset, to,
		)
	}
}

func orderKey(id uint64) string {
	return "order/" + strconv.FormatUint(id, 10)
}

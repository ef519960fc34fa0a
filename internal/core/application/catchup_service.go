package application

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/recurra/recurra-daemon/internal/core/domain"
	"github.com/recurra/recurra-daemon/internal/core/ports"
)

// DefaultCatchUpBound is the maximum number of intervals advanced per order
// in a single catch-up pass, to avoid unbounded work.
const DefaultCatchUpBound = 10

// CatchUpReason is the terminal reason of a catch-up pass over one order.
type CatchUpReason string

const (
	// CatchUpCompleted means the order exhausted its schedule.
	CatchUpCompleted CatchUpReason = "completed"
	// CatchUpUpToDate means the order is no longer due.
	CatchUpUpToDate CatchUpReason = "up-to-date"
	// CatchUpBoundReached means the bound was hit with intervals still due.
	CatchUpBoundReached CatchUpReason = "bound-reached"
	// CatchUpFailed means an execution failed. The loop stops at the first
	// failure instead of skipping ahead.
	CatchUpFailed CatchUpReason = "failed"
)

// CatchUpReport describes the outcome of a catch-up pass over one order.
type CatchUpReport struct {
	OrderId  uint64
	Advanced int
	Elapsed  time.Duration
	Reason   CatchUpReason
	Err      error
}

// CatchUpSummary aggregates the reports of a catch-up pass over many orders.
type CatchUpSummary struct {
	Orders   int
	Advanced int
	Failed   int
	Elapsed  time.Duration
	Reports  []CatchUpReport
}

// CatchUpService repeatedly advances orders that have fallen behind schedule.
type CatchUpService interface {
	// CatchUpOrder executes intervals of one order while it remains due, up
	// to the given bound.
	CatchUpOrder(ctx context.Context, orderId uint64, bound int) CatchUpReport
	// CatchUpAll runs CatchUpOrder over every known order, in parallel
	// across orders. The summary's Failed count is non-zero if any order
	// failed outright.
	CatchUpAll(ctx context.Context, bound, workers int) (*CatchUpSummary, error)
}

type catchUpService struct {
	repoManager  ports.RepoManager
	orderService OrderService
}

// NewCatchUpService returns a CatchUpService executing orders through the
// given OrderService.
func NewCatchUpService(
	repoManager ports.RepoManager, orderService OrderService,
) CatchUpService {
	return &catchUpService{
		repoManager:  repoManager,
		orderService: orderService,
	}
}

func (s *catchUpService) CatchUpOrder(
	ctx context.Context, orderId uint64, bound int,
) CatchUpReport {
	if bound <= 0 {
		bound = DefaultCatchUpBound
	}

	report := CatchUpReport{OrderId: orderId}
	startTime := time.Now()
	defer func() {
		report.Elapsed = time.Since(startTime)
	}()

	for report.Advanced < bound {
		if _, err := s.orderService.ExecuteOrderInterval(ctx, orderId); err != nil {
			switch {
			case errors.Is(err, domain.ErrOrderNotDue):
				report.Reason = CatchUpUpToDate
			case errors.Is(err, domain.ErrOrderInactive):
				report.Reason = CatchUpCompleted
			default:
				report.Reason = CatchUpFailed
				report.Err = err
			}
			return report
		}
		report.Advanced++
	}

	report.Reason = CatchUpBoundReached
	if order, err := s.repoManager.OrderRepository().GetOrder(ctx, orderId); err == nil {
		if !order.Active {
			report.Reason = CatchUpCompleted
		} else if !order.IsReady(time.Now()) {
			report.Reason = CatchUpUpToDate
		}
	}
	return report
}

func (s *catchUpService) CatchUpAll(
	ctx context.Context, bound, workers int,
) (*CatchUpSummary, error) {
	orders, err := s.repoManager.OrderRepository().GetAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = 1
	}

	summary := &CatchUpSummary{}
	startTime := time.Now()

	// safe to run concurrently across orders, racing runs on the same order
	// are serialized by the order service
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	mtx := &sync.Mutex{}
	for _, order := range orders {
		orderId := order.Id
		eg.Go(func() error {
			report := s.CatchUpOrder(egCtx, orderId, bound)

			mtx.Lock()
			defer mtx.Unlock()
			summary.Orders++
			summary.Advanced += report.Advanced
			if report.Reason == CatchUpFailed && report.Advanced == 0 {
				summary.Failed++
			}
			summary.Reports = append(summary.Reports, report)

			log.Infof(
				"catch-up: order %d advanced %d intervals in %s (%s)",
				orderId, report.Advanced, report.Elapsed, report.Reason,
			)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	summary.Elapsed = time.Since(startTime)
	return summary, nil
}

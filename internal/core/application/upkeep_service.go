package application

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/recurra/recurra-daemon/internal/core/domain"
	"github.com/recurra/recurra-daemon/internal/core/ports"
)

// UpkeepService implements the scan-then-perform pattern for discovering and
// executing all currently-due orders in one batch. It is meant to be invoked
// by any external trigger: the daemon's own ticker, a cron or an automation
// network.
type UpkeepService interface {
	// Scan returns whether any order is due and the ids of all due orders.
	Scan(ctx context.Context) (bool, []uint64, error)
	// Perform executes every listed order independently. A failure on one
	// order never blocks the batch: it is logged, counted and swallowed, the
	// order will reappear in the next scan and be retried then.
	Perform(ctx context.Context, orderIds []uint64)
	// Run scans and performs on the given cadence until the context is done.
	Run(ctx context.Context, interval time.Duration)
}

type upkeepService struct {
	repoManager  ports.RepoManager
	orderService OrderService
}

// NewUpkeepService returns an UpkeepService executing orders through the
// given OrderService.
func NewUpkeepService(
	repoManager ports.RepoManager, orderService OrderService,
) UpkeepService {
	return &upkeepService{
		repoManager:  repoManager,
		orderService: orderService,
	}
}

func (s *upkeepService) Scan(ctx context.Context) (bool, []uint64, error) {
	orders, err := s.repoManager.OrderRepository().GetAllOrders(ctx)
	if err != nil {
		return false, nil, err
	}

	now := time.Now()
	dueIds := make([]uint64, 0)
	for _, order := range orders {
		if order.IsReady(now) {
			dueIds = append(dueIds, order.Id)
		}
	}
	return len(dueIds) > 0, dueIds, nil
}

func (s *upkeepService) Perform(ctx context.Context, orderIds []uint64) {
	for _, id := range orderIds {
		if _, err := s.orderService.ExecuteOrderInterval(ctx, id); err != nil {
			// an order that stopped being due between scan and perform is
			// not a failure
			if errors.Is(err, domain.ErrOrderNotDue) ||
				errors.Is(err, domain.ErrOrderInactive) {
				continue
			}
			swallowedFailuresCounter.Inc()
			log.WithError(err).Warnf("upkeep: skipping order %d", id)
		}
	}
}

func (s *upkeepService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		due, orderIds, err := s.Scan(ctx)
		if err != nil {
			log.WithError(err).Warn("upkeep: scan failed")
		} else if due {
			log.Debugf("upkeep: %d orders due", len(orderIds))
			s.Perform(ctx, orderIds)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

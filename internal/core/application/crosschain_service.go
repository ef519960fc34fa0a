package application

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"github.com/recurra/recurra-daemon/internal/core/domain"
	"github.com/recurra/recurra-daemon/internal/core/ports"
	"github.com/recurra/recurra-daemon/pkg/xmsg"
)

// SwapOutcome is the remote result asserted by a trusted reporter.
type SwapOutcome struct {
	Completed bool
	// SettledAmount is the amount settled remotely, meaningful only when
	// Completed.
	SettledAmount uint64
	// Reason describes a remote failure, meaningful only when not Completed.
	Reason string
}

// CrossChainService owns the lock, message, report lifecycle of swaps that
// settle on a remote chain.
type CrossChainService interface {
	// InitiateSwap locks the source amount, dispatches the outbound message
	// and stores the swap in Initiated status.
	InitiateSwap(
		ctx context.Context, user, sourceAsset, targetAsset common.Address,
		sourceAmount, minTargetAmount uint64, deadline time.Time,
	) (*domain.CrossChainSwap, error)
	// ReportSwapOutcome moves an Initiated swap to Completed or Failed. Only
	// a trusted reporter can call it, the remote chain cannot call back into
	// this ledger directly.
	ReportSwapOutcome(
		ctx context.Context, reporter common.Address,
		swapId string, outcome SwapOutcome,
	) error
	// CancelSwap refunds the locked source amount to the requester and moves
	// the swap to the terminal Cancelled status.
	CancelSwap(ctx context.Context, swapId string, caller common.Address) (uint64, error)
	// GetSwap returns the swap with the given id.
	GetSwap(ctx context.Context, swapId string) (*domain.CrossChainSwap, error)
	// ListSwapsForAccount returns all the swaps requested by a user.
	ListSwapsForAccount(ctx context.Context, user common.Address) ([]*domain.CrossChainSwap, error)
}

type crossChainService struct {
	repoManager    ports.RepoManager
	complianceGate ports.ComplianceGate
	transport      ports.MessageTransport
	treasury       ports.Treasury
	pubsub         ports.PubSub
	locker         *entityLocker
	builder        xmsg.Builder
	// reporters is the trusted set allowed to assert remote outcomes. The
	// trust assumption is explicit configuration, not a side effect of
	// ownership.
	reporters map[common.Address]struct{}
}

// NewCrossChainService returns a CrossChainService dispatching messages built
// by the given builder and accepting outcome reports from the given trusted
// reporters.
func NewCrossChainService(
	repoManager ports.RepoManager,
	complianceGate ports.ComplianceGate,
	transport ports.MessageTransport,
	treasury ports.Treasury,
	pubsub ports.PubSub,
	builder xmsg.Builder,
	reporters []common.Address,
) CrossChainService {
	reporterSet := make(map[common.Address]struct{}, len(reporters))
	for _, reporter := range reporters {
		reporterSet[reporter] = struct{}{}
	}
	return &crossChainService{
		repoManager:    repoManager,
		complianceGate: complianceGate,
		transport:      transport,
		treasury:       treasury,
		pubsub:         pubsub,
		locker:         newEntityLocker(),
		builder:        builder,
		reporters:      reporterSet,
	}
}

func (s *crossChainService) InitiateSwap(
	ctx context.Context, user, sourceAsset, targetAsset common.Address,
	sourceAmount, minTargetAmount uint64, deadline time.Time,
) (*domain.CrossChainSwap, error) {
	if sourceAmount == 0 || minTargetAmount == 0 {
		return nil, domain.ErrCrossChainSwapZeroAmount
	}
	nullAsset := common.Address{}
	if sourceAsset == nullAsset || targetAsset == nullAsset {
		return nil, domain.ErrCrossChainSwapNullAsset
	}
	if time.Now().After(deadline) {
		return nil, ErrSwapDeadlineExpired
	}

	isCompliant, err := s.complianceGate.IsCompliant(ctx, targetAsset)
	if err != nil {
		return nil, err
	}
	if !isCompliant {
		return nil, ErrAssetNotCompliant
	}

	if err := s.treasury.Collect(ctx, user, sourceAsset, sourceAmount); err != nil {
		return nil, err
	}

	message := s.builder.Build(sourceAsset, targetAsset, sourceAmount, minTargetAmount)
	payload := message.Encode()
	if err := s.transport.SubmitMessage(ctx, payload); err != nil {
		s.refund(ctx, user, sourceAsset, sourceAmount)
		log.WithError(err).Warn("failed to dispatch outbound swap message")
		return nil, fmt.Errorf("%w: %s", ErrMessageDispatchFailed, err)
	}

	nonce, err := s.repoManager.CrossChainSwapRepository().NextNonce(ctx)
	if err != nil {
		s.refund(ctx, user, sourceAsset, sourceAmount)
		return nil, err
	}
	swap := domain.NewCrossChainSwap(
		user, sourceAsset, targetAsset, sourceAmount, minTargetAmount,
		message.Ref(), nonce,
	)
	if err := s.repoManager.CrossChainSwapRepository().AddSwap(ctx, swap); err != nil {
		s.refund(ctx, user, sourceAsset, sourceAmount)
		return nil, err
	}

	initiatedSwapsCounter.Inc()
	log.Infof(
		"initiated cross-chain swap %s for %s, %d of %s for min %d of %s, message %s",
		swap.Id, user, sourceAmount, sourceAsset, minTargetAmount, targetAsset,
		swap.MessageRef,
	)
	s.pubsub.Publish(ports.SwapInitiatedTopic, *swap)

	return swap, nil
}

func (s *crossChainService) ReportSwapOutcome(
	ctx context.Context, reporter common.Address,
	swapId string, outcome SwapOutcome,
) error {
	if _, ok := s.reporters[reporter]; !ok {
		return ErrUnauthorizedReporter
	}

	unlock := s.locker.lock(swapKey(swapId))
	defer unlock()

	var reported domain.CrossChainSwap
	if err := s.repoManager.CrossChainSwapRepository().UpdateSwap(
		ctx, swapId, func(swap *domain.CrossChainSwap) (*domain.CrossChainSwap, error) {
			if outcome.Completed {
				if err := swap.Complete(outcome.SettledAmount); err != nil {
					return nil, err
				}
				// the locked amount was delivered on the remote chain, it
				// leaves custody with the status change
				if err := s.treasury.Settle(
					ctx, swap.SourceAsset, swap.SourceAmount,
				); err != nil {
					return nil, err
				}
			} else {
				if err := swap.Fail(outcome.Reason); err != nil {
					return nil, err
				}
			}
			reported = *swap
			return swap, nil
		},
	); err != nil {
		return err
	}

	if outcome.Completed {
		log.Infof(
			"swap %s completed remotely, settled %d", swapId, outcome.SettledAmount,
		)
		s.pubsub.Publish(ports.SwapCompletedTopic, reported)
	} else {
		log.Infof("swap %s failed remotely: %s", swapId, outcome.Reason)
		s.pubsub.Publish(ports.SwapFailedTopic, reported)
	}

	return nil
}

func (s *crossChainService) CancelSwap(
	ctx context.Context, swapId string, caller common.Address,
) (uint64, error) {
	unlock := s.locker.lock(swapKey(swapId))
	defer unlock()

	var refund uint64
	var cancelled domain.CrossChainSwap
	if err := s.repoManager.CrossChainSwapRepository().UpdateSwap(
		ctx, swapId, func(swap *domain.CrossChainSwap) (*domain.CrossChainSwap, error) {
			amount, err := swap.Cancel(caller)
			if err != nil {
				return nil, err
			}
			if err := s.treasury.Payout(ctx, swap.User, swap.SourceAsset, amount); err != nil {
				return nil, err
			}
			refund = amount
			cancelled = *swap
			return swap, nil
		},
	); err != nil {
		return 0, err
	}

	log.Infof("cancelled swap %s, refunded %d", swapId, refund)
	s.pubsub.Publish(ports.SwapCancelledTopic, cancelled)

	return refund, nil
}

func (s *crossChainService) GetSwap(
	ctx context.Context, swapId string,
) (*domain.CrossChainSwap, error) {
	return s.repoManager.CrossChainSwapRepository().GetSwap(ctx, swapId)
}

func (s *crossChainService) ListSwapsForAccount(
	ctx context.Context, user common.Address,
) ([]*domain.CrossChainSwap, error) {
	return s.repoManager.CrossChainSwapRepository().GetSwapsForAccount(ctx, user)
}

func (s *crossChainService) refund(
	ctx context.Context, to, asset common.Address, amount uint64,
) {
	if err := s.treasury.Payout(ctx, to, asset, amount); err != nil {
		log.WithError(err).Errorf(
			"failed to refund %d of asset %s to %s", amount, asset, to,
		)
	}
}

func swapKey(id string) string {
	return "swap/" + id
}

package inmemory

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/recurra/recurra-daemon/internal/core/domain"
)

type crossChainSwapRepositoryImpl struct {
	store *swapStore
}

func (r crossChainSwapRepositoryImpl) AddSwap(
	_ context.Context, swap *domain.CrossChainSwap,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.swaps[swap.Id] = *swap
	return nil
}

func (r crossChainSwapRepositoryImpl) GetSwap(
	_ context.Context, id string,
) (*domain.CrossChainSwap, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	return r.getSwap(id)
}

func (r crossChainSwapRepositoryImpl) GetAllSwaps(
	_ context.Context,
) ([]*domain.CrossChainSwap, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	swaps := make([]*domain.CrossChainSwap, 0, len(r.store.swaps))
	for _, swap := range r.store.swaps {
		swap := swap
		swaps = append(swaps, &swap)
	}
	return swaps, nil
}

func (r crossChainSwapRepositoryImpl) GetSwapsForAccount(
	_ context.Context, user common.Address,
) ([]*domain.CrossChainSwap, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	swaps := make([]*domain.CrossChainSwap, 0)
	for _, swap := range r.store.swaps {
		if swap.User == user {
			swap := swap
			swaps = append(swaps, &swap)
		}
	}
	return swaps, nil
}

func (r crossChainSwapRepositoryImpl) UpdateSwap(
	_ context.Context, id string,
	updateFn func(s *domain.CrossChainSwap) (*domain.CrossChainSwap, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	currentSwap, err := r.getSwap(id)
	if err != nil {
		return err
	}

	updatedSwap, err := updateFn(currentSwap)
	if err != nil {
		return err
	}

	r.store.swaps[id] = *updatedSwap
	return nil
}

func (r crossChainSwapRepositoryImpl) NextNonce(_ context.Context) (uint64, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	nonce := r.store.nextNonce
	r.store.nextNonce++
	return nonce, nil
}

func (r crossChainSwapRepositoryImpl) getSwap(id string) (*domain.CrossChainSwap, error) {
	swap, ok := r.store.swaps[id]
	if !ok {
		return nil, domain.ErrCrossChainSwapNotFound
	}
	return &swap, nil
}

package dbbadger

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/timshannon/badgerhold/v4"

	"github.com/recurra/recurra-daemon/internal/core/domain"
)

type crossChainSwapRepositoryImpl struct {
	db *DbManager
}

func newCrossChainSwapRepositoryImpl(db *DbManager) domain.CrossChainSwapRepository {
	return crossChainSwapRepositoryImpl{db}
}

func (r crossChainSwapRepositoryImpl) AddSwap(
	ctx context.Context, swap *domain.CrossChainSwap,
) error {
	return r.db.swapsStore.Insert(swap.Id, *swap)
}

func (r crossChainSwapRepositoryImpl) GetSwap(
	ctx context.Context, id string,
) (*domain.CrossChainSwap, error) {
	var swap domain.CrossChainSwap
	if err := r.db.swapsStore.Get(id, &swap); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrCrossChainSwapNotFound
		}
		return nil, err
	}
	return &swap, nil
}

func (r crossChainSwapRepositoryImpl) GetAllSwaps(
	ctx context.Context,
) ([]*domain.CrossChainSwap, error) {
	return r.findSwaps(&badgerhold.Query{})
}

func (r crossChainSwapRepositoryImpl) GetSwapsForAccount(
	ctx context.Context, user common.Address,
) ([]*domain.CrossChainSwap, error) {
	query := badgerhold.Where("User").Eq(user)
	return r.findSwaps(query)
}

func (r crossChainSwapRepositoryImpl) UpdateSwap(
	ctx context.Context, id string,
	updateFn func(s *domain.CrossChainSwap) (*domain.CrossChainSwap, error),
) error {
	currentSwap, err := r.GetSwap(ctx, id)
	if err != nil {
		return err
	}

	updatedSwap, err := updateFn(currentSwap)
	if err != nil {
		return err
	}

	return r.db.swapsStore.Update(id, *updatedSwap)
}

func (r crossChainSwapRepositoryImpl) NextNonce(ctx context.Context) (uint64, error) {
	return r.db.nonceSeq.Next()
}

func (r crossChainSwapRepositoryImpl) findSwaps(
	query *badgerhold.Query,
) ([]*domain.CrossChainSwap, error) {
	var list []domain.CrossChainSwap
	if err := r.db.swapsStore.Find(&list, query); err != nil {
		return nil, err
	}

	swaps := make([]*domain.CrossChainSwap, 0, len(list))
	for i := range list {
		swaps = append(swaps, &list[i])
	}
	return swaps, nil
}

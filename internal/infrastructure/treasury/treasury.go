// Package treasury implements the custody account over an in-memory balance
// ledger. Production deployments are expected to swap this for an adapter
// over the operator's wallet service, the interface is the contract.
package treasury

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/recurra/recurra-daemon/internal/core/ports"
)

var (
	// ErrInsufficientBalance ...
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInsufficientCustody is returned when paying out more than custody
	// holds for an asset. It indicates an accounting bug, escrow arithmetic
	// never pays out more than was collected.
	ErrInsufficientCustody = errors.New("insufficient custody balance")
)

type balanceKey struct {
	account common.Address
	asset   common.Address
}

// NewTreasury returns an empty in-memory Treasury.
func NewTreasury() *Treasury {
	return &Treasury{
		balances: make(map[balanceKey]uint64),
		custody:  make(map[common.Address]uint64),
	}
}

// Treasury is the in-memory custody ledger. It also exposes Deposit and
// BalanceOf for funding accounts and inspecting balances.
type Treasury struct {
	balances map[balanceKey]uint64
	custody  map[common.Address]uint64
	locker   sync.Mutex
}

// Deposit credits an account with the given amount of an asset.
func (t *Treasury) Deposit(account, asset common.Address, amount uint64) {
	t.locker.Lock()
	defer t.locker.Unlock()

	t.balances[balanceKey{account, asset}] += amount
}

// BalanceOf returns the free balance of an account for an asset.
func (t *Treasury) BalanceOf(account, asset common.Address) uint64 {
	t.locker.Lock()
	defer t.locker.Unlock()

	return t.balances[balanceKey{account, asset}]
}

// CustodyOf returns the amount of an asset currently held in custody.
func (t *Treasury) CustodyOf(asset common.Address) uint64 {
	t.locker.Lock()
	defer t.locker.Unlock()

	return t.custody[asset]
}

func (t *Treasury) Collect(
	_ context.Context, from, asset common.Address, amount uint64,
) error {
	t.locker.Lock()
	defer t.locker.Unlock()

	key := balanceKey{from, asset}
	if t.balances[key] < amount {
		return ErrInsufficientBalance
	}
	t.balances[key] -= amount
	t.custody[asset] += amount
	return nil
}

func (t *Treasury) Payout(
	_ context.Context, to, asset common.Address, amount uint64,
) error {
	t.locker.Lock()
	defer t.locker.Unlock()

	if t.custody[asset] < amount {
		return ErrInsufficientCustody
	}
	t.custody[asset] -= amount
	t.balances[balanceKey{to, asset}] += amount
	return nil
}

func (t *Treasury) Settle(
	_ context.Context, asset common.Address, amount uint64,
) error {
	t.locker.Lock()
	defer t.locker.Unlock()

	if t.custody[asset] < amount {
		return ErrInsufficientCustody
	}
	t.custody[asset] -= amount
	return nil
}

var _ ports.Treasury = (*Treasury)(nil)

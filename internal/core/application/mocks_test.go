package application_test

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"github.com/recurra/recurra-daemon/internal/core/ports"
)

// **** SwapRouter ****

type mockSwapRouter struct {
	mock.Mock
}

func (m *mockSwapRouter) Quote(
	ctx context.Context, path []common.Address, amountIn uint64,
) (uint64, error) {
	args := m.Called(ctx, path, amountIn)

	var res uint64
	if a := args.Get(0); a != nil {
		res = a.(uint64)
	}
	return res, args.Error(1)
}

func (m *mockSwapRouter) ExecuteSwap(
	ctx context.Context, args ports.SwapArgs,
) (uint64, error) {
	called := m.Called(ctx, args)

	var res uint64
	if a := called.Get(0); a != nil {
		res = a.(uint64)
	}
	return res, called.Error(1)
}

// **** MessageTransport ****

type mockMessageTransport struct {
	mock.Mock
}

func (m *mockMessageTransport) SubmitMessage(
	ctx context.Context, payload []byte,
) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// **** ComplianceGate ****

type mockComplianceGate struct {
	mock.Mock
}

func (m *mockComplianceGate) IsCompliant(
	ctx context.Context, asset common.Address,
) (bool, error) {
	args := m.Called(ctx, asset)

	var res bool
	if a := args.Get(0); a != nil {
		res = a.(bool)
	}
	return res, args.Error(1)
}

func (m *mockComplianceGate) RequireCompliant(
	ctx context.Context, asset common.Address,
) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

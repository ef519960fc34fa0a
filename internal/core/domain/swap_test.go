package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recurra/recurra-daemon/internal/core/domain"
)

func TestNewCrossChainSwap(t *testing.T) {
	t.Parallel()

	user := randomAddress()
	sourceAsset, targetAsset := randomAddress(), randomAddress()

	swap := domain.NewCrossChainSwap(
		user, sourceAsset, targetAsset, 1000, 990, "msgref", 0,
	)
	require.True(t, swap.IsInitiated())
	require.False(t, swap.IsTerminal())
	require.NotEmpty(t, swap.Id)
	require.Equal(t, "msgref", swap.MessageRef)

	other := domain.NewCrossChainSwap(
		user, sourceAsset, targetAsset, 1000, 990, "msgref", 1,
	)
	require.NotEqual(t, swap.Id, other.Id)
}

func TestCrossChainSwapComplete(t *testing.T) {
	t.Parallel()

	swap := newTestSwap()

	err := swap.Complete(995)
	require.NoError(t, err)
	require.Equal(t, domain.CrossChainSwapStatus(domain.CrossChainSwapStatusCodeCompleted), swap.Status)
	require.Equal(t, uint64(995), swap.SettledAmount)
	require.True(t, swap.IsTerminal())

	// a second report must fail
	err = swap.Complete(995)
	require.EqualError(t, err, domain.ErrCrossChainSwapNotInitiated.Error())
	err = swap.Fail("too late")
	require.EqualError(t, err, domain.ErrCrossChainSwapNotInitiated.Error())
}

func TestCrossChainSwapFail(t *testing.T) {
	t.Parallel()

	swap := newTestSwap()

	err := swap.Fail("remote execution reverted")
	require.NoError(t, err)
	require.Equal(t, domain.CrossChainSwapStatus(domain.CrossChainSwapStatusCodeFailed), swap.Status)
	require.Equal(t, "remote execution reverted", swap.FailReason)
	require.False(t, swap.IsTerminal())
}

func TestCrossChainSwapCancel(t *testing.T) {
	t.Parallel()

	t.Run("from_initiated", func(t *testing.T) {
		t.Parallel()

		swap := newTestSwap()
		refund, err := swap.Cancel(swap.User)
		require.NoError(t, err)
		require.Equal(t, swap.SourceAmount, refund)
		require.True(t, swap.IsTerminal())
	})

	t.Run("from_failed", func(t *testing.T) {
		t.Parallel()

		swap := newTestSwap()
		require.NoError(t, swap.Fail("remote execution reverted"))
		refund, err := swap.Cancel(swap.User)
		require.NoError(t, err)
		require.Equal(t, swap.SourceAmount, refund)
	})

	t.Run("not_requester", func(t *testing.T) {
		t.Parallel()

		swap := newTestSwap()
		_, err := swap.Cancel(randomAddress())
		require.EqualError(t, err, domain.ErrCrossChainSwapNotRequester.Error())
		require.True(t, swap.IsInitiated())
	})

	t.Run("from_completed", func(t *testing.T) {
		t.Parallel()

		swap := newTestSwap()
		require.NoError(t, swap.Complete(995))
		_, err := swap.Cancel(swap.User)
		require.EqualError(t, err, domain.ErrCrossChainSwapNotCancellable.Error())
	})

	t.Run("already_cancelled", func(t *testing.T) {
		t.Parallel()

		swap := newTestSwap()
		_, err := swap.Cancel(swap.User)
		require.NoError(t, err)
		_, err = swap.Cancel(swap.User)
		require.EqualError(t, err, domain.ErrCrossChainSwapNotCancellable.Error())
	})
}

func newTestSwap() *domain.CrossChainSwap {
	return domain.NewCrossChainSwap(
		randomAddress(), randomAddress(), randomAddress(), 1000, 990, "msgref", 0,
	)
}

package xmsg_test

import (
	"crypto/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/recurra/recurra-daemon/pkg/xmsg"
)

func newTestBuilder() xmsg.Builder {
	return xmsg.Builder{
		DestParaId:     2004,
		FeeAsset:       randomAddress(),
		FeeBudget:      100000000,
		RequiredWeight: 400000000,
		PalletIndex:    0x23,
		CallIndex:      0x04,
	}
}

func TestMessageRoundTrip(t *testing.T) {
	t.Parallel()

	builder := newTestBuilder()
	assetIn, assetOut := randomAddress(), randomAddress()

	message := builder.Build(assetIn, assetOut, 1000, 990)
	require.Equal(t, 2*builder.RequiredWeight, message.OverallWeight)

	decoded, err := xmsg.Decode(message.Encode())
	require.NoError(t, err)
	require.Equal(t, message, decoded)
	require.Equal(t, assetIn, decoded.Call.AssetIn)
	require.Equal(t, assetOut, decoded.Call.AssetOut)
	require.Equal(t, uint64(1000), decoded.Call.Amount)
	require.Equal(t, uint64(990), decoded.Call.MinOut)
}

func TestMessageRef(t *testing.T) {
	t.Parallel()

	builder := newTestBuilder()
	assetIn, assetOut := randomAddress(), randomAddress()

	message := builder.Build(assetIn, assetOut, 1000, 990)
	require.Equal(t, message.Ref(), message.Ref())
	require.NotEqual(
		t, message.Ref(), builder.Build(assetIn, assetOut, 1001, 990).Ref(),
	)
}

func TestFailingDecode(t *testing.T) {
	t.Parallel()

	builder := newTestBuilder()
	payload := builder.Build(randomAddress(), randomAddress(), 1000, 990).Encode()

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()

		_, err := xmsg.Decode(payload[:10])
		require.ErrorIs(t, err, xmsg.ErrInvalidSize)
	})

	t.Run("unknown_version", func(t *testing.T) {
		t.Parallel()

		bad := append([]byte{}, payload...)
		bad[0] = 99
		_, err := xmsg.Decode(bad)
		require.ErrorIs(t, err, xmsg.ErrUnsupportedVersion)
	})

	t.Run("bad_ancestry", func(t *testing.T) {
		t.Parallel()

		bad := append([]byte{}, payload...)
		bad[1] = 0
		_, err := xmsg.Decode(bad)
		require.ErrorIs(t, err, xmsg.ErrInvalidAncestry)
	})

	t.Run("amount_overflow", func(t *testing.T) {
		t.Parallel()

		bad := append([]byte{}, payload...)
		// high half of the trailing u128 (min out)
		bad[len(bad)-1] = 1
		_, err := xmsg.Decode(bad)
		require.ErrorIs(t, err, xmsg.ErrAmountOverflow)
	})
}

func randomAddress() common.Address {
	var addr common.Address
	rand.Read(addr[:])
	return addr
}

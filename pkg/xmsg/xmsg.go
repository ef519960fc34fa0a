// Package xmsg builds and encodes the outbound messages instructing a remote
// chain to perform a swap. The encoding is a fixed-layout, versioned binary
// protocol: the receiving chain decodes it byte-for-byte, so any change to
// the layout requires a version bump on both sides.
package xmsg

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Version is the current protocol version.
const Version byte = 1

// destAncestry encodes the destination as one hop up from the local chain,
// then into the named remote chain.
const destAncestry byte = 1

// encodedSize is the exact size of an encoded message.
const encodedSize = 2 + 4 + common.AddressLength + 16 + 8 + 8 + 2 +
	2*common.AddressLength + 2*16

var (
	// ErrInvalidSize ...
	ErrInvalidSize = errors.New("invalid message size")
	// ErrUnsupportedVersion ...
	ErrUnsupportedVersion = errors.New("unsupported message version")
	// ErrInvalidAncestry ...
	ErrInvalidAncestry = errors.New("invalid destination ancestry")
	// ErrAmountOverflow is returned when a u128 field carries a value beyond
	// 64 bits.
	ErrAmountOverflow = errors.New("amount exceeds 64 bits")
)

// RemoteCall is the swap instruction executed on the remote chain, addressed
// by module (pallet) and call selectors.
type RemoteCall struct {
	PalletIndex byte
	CallIndex   byte
	AssetIn     common.Address
	AssetOut    common.Address
	Amount      uint64
	MinOut      uint64
}

// Message is a complete outbound cross-chain message: destination, fee
// budget, resource budget and the remote call itself.
type Message struct {
	Version    byte
	DestParaId uint32
	FeeAsset   common.Address
	// FeeBudget is the fixed native-asset budget reserved for remote
	// execution fees.
	FeeBudget uint64
	// RequiredWeight is the declared resource budget of the remote call,
	// OverallWeight the hard cap, always twice the required budget as a
	// safety margin.
	RequiredWeight uint64
	OverallWeight  uint64
	Call           RemoteCall
}

// Builder constructs messages for a fixed destination chain and fee policy.
// RequiredWeight is operator-adjustable at runtime through configuration.
type Builder struct {
	DestParaId     uint32
	FeeAsset       common.Address
	FeeBudget      uint64
	RequiredWeight uint64
	PalletIndex    byte
	CallIndex      byte
}

// Build returns the message instructing the remote chain to swap the given
// amount of assetIn for at least minOut of assetOut.
func (b Builder) Build(assetIn, assetOut common.Address, amount, minOut uint64) *Message {
	return &Message{
		Version:        Version,
		DestParaId:     b.DestParaId,
		FeeAsset:       b.FeeAsset,
		FeeBudget:      b.FeeBudget,
		RequiredWeight: b.RequiredWeight,
		OverallWeight:  2 * b.RequiredWeight,
		Call: RemoteCall{
			PalletIndex: b.PalletIndex,
			CallIndex:   b.CallIndex,
			AssetIn:     assetIn,
			AssetOut:    assetOut,
			Amount:      amount,
			MinOut:      minOut,
		},
	}
}

// Encode serializes the message into its wire layout.
func (m *Message) Encode() []byte {
	buf := make([]byte, 0, encodedSize)
	buf = append(buf, m.Version, destAncestry)
	buf = binary.LittleEndian.AppendUint32(buf, m.DestParaId)
	buf = append(buf, m.FeeAsset.Bytes()...)
	buf = appendU128(buf, m.FeeBudget)
	buf = binary.LittleEndian.AppendUint64(buf, m.RequiredWeight)
	buf = binary.LittleEndian.AppendUint64(buf, m.OverallWeight)
	buf = append(buf, m.Call.PalletIndex, m.Call.CallIndex)
	buf = append(buf, m.Call.AssetIn.Bytes()...)
	buf = append(buf, m.Call.AssetOut.Bytes()...)
	buf = appendU128(buf, m.Call.Amount)
	buf = appendU128(buf, m.Call.MinOut)
	return buf
}

// Ref returns the deterministic reference of the message, used to correlate
// an initiated swap with a later outcome report.
func (m *Message) Ref() string {
	return hexutil.Encode(crypto.Keccak256(m.Encode()))
}

// Decode parses a wire payload back into a Message.
func Decode(payload []byte) (*Message, error) {
	if len(payload) != encodedSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidSize, len(payload), encodedSize)
	}
	if payload[0] != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, payload[0])
	}
	if payload[1] != destAncestry {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAncestry, payload[1])
	}

	m := &Message{Version: payload[0]}
	offset := 2
	m.DestParaId = binary.LittleEndian.Uint32(payload[offset:])
	offset += 4
	m.FeeAsset = common.BytesToAddress(payload[offset : offset+common.AddressLength])
	offset += common.AddressLength

	var err error
	if m.FeeBudget, err = readU128(payload, &offset); err != nil {
		return nil, err
	}
	m.RequiredWeight = binary.LittleEndian.Uint64(payload[offset:])
	offset += 8
	m.OverallWeight = binary.LittleEndian.Uint64(payload[offset:])
	offset += 8
	m.Call.PalletIndex = payload[offset]
	m.Call.CallIndex = payload[offset+1]
	offset += 2
	m.Call.AssetIn = common.BytesToAddress(payload[offset : offset+common.AddressLength])
	offset += common.AddressLength
	m.Call.AssetOut = common.BytesToAddress(payload[offset : offset+common.AddressLength])
	offset += common.AddressLength
	if m.Call.Amount, err = readU128(payload, &offset); err != nil {
		return nil, err
	}
	if m.Call.MinOut, err = readU128(payload, &offset); err != nil {
		return nil, err
	}
	return m, nil
}

// amounts travel as little-endian u128, the balance type of the remote
// chain. The ledger works with 64-bit amounts, so the high half is zero on
// encode and must be zero on decode.
func appendU128(buf []byte, v uint64) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, v)
	return append(buf, make([]byte, 8)...)
}

func readU128(payload []byte, offset *int) (uint64, error) {
	low := binary.LittleEndian.Uint64(payload[*offset:])
	high := binary.LittleEndian.Uint64(payload[*offset+8:])
	if high != 0 {
		return 0, ErrAmountOverflow
	}
	*offset += 16
	return low, nil
}

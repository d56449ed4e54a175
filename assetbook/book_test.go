package assetbook

import (
	"math/big"
	"testing"

	"github.com/TokenIQ-X/tokeniq-relay/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	asset = common.HexToAddress("0x0000000000000000000000000000000000000afe")
)

func TestTransferMovesBalance(t *testing.T) {
	b := NewMemoryBook()
	require.NoError(t, b.Credit(alice, asset, big.NewInt(100)))

	require.NoError(t, b.Transfer(alice, bob, asset, big.NewInt(40)))

	aliceBal, err := b.Balance(alice, asset)
	require.NoError(t, err)
	assert.Equal(t, "60", aliceBal.String())

	bobBal, err := b.Balance(bob, asset)
	require.NoError(t, err)
	assert.Equal(t, "40", bobBal.String())
}

func TestTransferInsufficientBalance(t *testing.T) {
	b := NewMemoryBook()
	require.NoError(t, b.Credit(alice, asset, big.NewInt(10)))

	err := b.Transfer(alice, bob, asset, big.NewInt(11))
	require.ErrorIs(t, err, types.ErrTransferFailed)

	// nothing moved
	aliceBal, _ := b.Balance(alice, asset)
	assert.Equal(t, "10", aliceBal.String())
	bobBal, _ := b.Balance(bob, asset)
	assert.Equal(t, "0", bobBal.String())
}

func TestTransferRejectsBadAmounts(t *testing.T) {
	b := NewMemoryBook()
	require.ErrorIs(t, b.Transfer(alice, bob, asset, nil), types.ErrTransferFailed)
	require.ErrorIs(t, b.Transfer(alice, bob, asset, big.NewInt(-1)), types.ErrTransferFailed)
	require.ErrorIs(t, b.Credit(alice, asset, big.NewInt(-1)), types.ErrTransferFailed)
}

func TestBalanceOfUnknownHolderIsZero(t *testing.T) {
	b := NewMemoryBook()
	bal, err := b.Balance(alice, asset)
	require.NoError(t, err)
	assert.Equal(t, "0", bal.String())
}

func TestBalanceReturnsCopy(t *testing.T) {
	b := NewMemoryBook()
	require.NoError(t, b.Credit(alice, asset, big.NewInt(5)))

	bal, err := b.Balance(alice, asset)
	require.NoError(t, err)
	bal.SetInt64(999)

	again, err := b.Balance(alice, asset)
	require.NoError(t, err)
	assert.Equal(t, "5", again.String())
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bank

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/feeless/lvldb"
	"github.com/vechain/feeless/state"
	"github.com/vechain/feeless/thor"
)

var (
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
)

func newTestBank(t *testing.T) *Bank {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(thor.BankAddress, state.New(db))
}

func balances(t *testing.T, b *Bank, addr thor.Address) (int64, int64) {
	free, err := b.GetBalance(addr)
	require.NoError(t, err)
	reserved, err := b.GetReserved(addr)
	require.NoError(t, err)
	return free.Int64(), reserved.Int64()
}

func TestMintBurn(t *testing.T) {
	b := newTestBank(t)

	require.NoError(t, b.Mint(alice, big.NewInt(100)))
	ok, err := b.Burn(alice, big.NewInt(30))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Burn(alice, big.NewInt(71))
	require.NoError(t, err)
	assert.False(t, ok)

	free, _ := balances(t, b, alice)
	assert.Equal(t, int64(70), free)

	supply, err := b.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, int64(70), supply.Int64())

	burned, err := b.TotalBurned()
	require.NoError(t, err)
	assert.Equal(t, int64(30), burned.Int64())

	assert.Error(t, b.Mint(alice, big.NewInt(-1)))
}

func TestTransfer(t *testing.T) {
	b := newTestBank(t)
	require.NoError(t, b.Mint(alice, big.NewInt(100)))

	tests := []struct {
		amount    int64
		ok        bool
		aliceFree int64
		bobFree   int64
	}{
		{40, true, 60, 40},
		{61, false, 60, 40},
		{60, true, 0, 100},
		{0, true, 0, 100},
	}
	for _, tt := range tests {
		ok, err := b.Transfer(alice, bob, big.NewInt(tt.amount))
		require.NoError(t, err)
		assert.Equal(t, tt.ok, ok)

		af, _ := balances(t, b, alice)
		bf, _ := balances(t, b, bob)
		assert.Equal(t, tt.aliceFree, af)
		assert.Equal(t, tt.bobFree, bf)
	}
}

func TestReserveUnreserve(t *testing.T) {
	b := newTestBank(t)
	require.NoError(t, b.Mint(alice, big.NewInt(100)))

	ok, err := b.Reserve(alice, big.NewInt(60))
	require.NoError(t, err)
	assert.True(t, ok)

	free, reserved := balances(t, b, alice)
	assert.Equal(t, int64(40), free)
	assert.Equal(t, int64(60), reserved)

	// insufficient free balance leaves both untouched
	ok, err = b.Reserve(alice, big.NewInt(41))
	require.NoError(t, err)
	assert.False(t, ok)
	free, reserved = balances(t, b, alice)
	assert.Equal(t, int64(40), free)
	assert.Equal(t, int64(60), reserved)

	err = b.Unreserve(alice, big.NewInt(61))
	assert.True(t, errors.Is(err, ErrInsufficientReserved))
	free, reserved = balances(t, b, alice)
	assert.Equal(t, int64(40), free)
	assert.Equal(t, int64(60), reserved)

	require.NoError(t, b.Unreserve(alice, big.NewInt(60)))
	free, reserved = balances(t, b, alice)
	assert.Equal(t, int64(100), free)
	assert.Equal(t, int64(0), reserved)
}

func TestMerge(t *testing.T) {
	b := newTestBank(t)
	require.NoError(t, b.Mint(alice, big.NewInt(100)))
	require.NoError(t, b.Mint(bob, big.NewInt(5)))
	_, err := b.Reserve(alice, big.NewInt(30))
	require.NoError(t, err)

	moved, err := b.Merge(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(100), moved.Int64())

	af, ar := balances(t, b, alice)
	bf, br := balances(t, b, bob)
	assert.Equal(t, [4]int64{0, 0, 105, 0}, [4]int64{af, ar, bf, br})
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/feeless/lvldb"
	"github.com/vechain/feeless/state"
	"github.com/vechain/feeless/thor"
)

type TestStruct struct {
	Field1 uint64
	Amount *big.Int
	Addr1  thor.Address
}

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(thor.Address{1}, state.New(db))
}

func TestMappingStruct(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[thor.Address, *TestStruct](ctx, thor.Bytes32{1})
	key := thor.BytesToAddress([]byte("key"))

	got, err := m.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got)

	exists, err := m.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)

	value := &TestStruct{Field1: 7, Amount: big.NewInt(100), Addr1: thor.Address{9}}
	require.NoError(t, m.Set(key, value))

	got, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	exists, _ = m.Exists(key)
	assert.True(t, exists)

	m.Delete(key)
	got, err = m.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMappingSeparatedByPosition(t *testing.T) {
	ctx := newTestContext(t)
	a := NewMapping[thor.Bytes32, uint64](ctx, thor.Bytes32{1})
	b := NewMapping[thor.Bytes32, uint64](ctx, thor.Bytes32{2})

	require.NoError(t, a.Set(thor.Bytes32{5}, 10))

	v, err := b.Get(thor.Bytes32{5})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	v, err = a.Get(thor.Bytes32{5})
	require.NoError(t, err)
	assert.Equal(t, uint64(10), v)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, thor.Bytes32{3})

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	u.Set(big.NewInt(10))
	require.NoError(t, u.Add(big.NewInt(5)))
	require.NoError(t, u.Sub(big.NewInt(3)))

	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(12), v)
}

func TestAddress(t *testing.T) {
	ctx := newTestContext(t)
	a := NewAddress(ctx, thor.Bytes32{4})

	v, err := a.Get()
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	addr := thor.BytesToAddress([]byte("admin"))
	a.Set(&addr)
	v, _ = a.Get()
	assert.Equal(t, addr, v)

	a.Set(nil)
	v, _ = a.Get()
	assert.True(t, v.IsZero())
}

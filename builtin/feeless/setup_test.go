// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feeless

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/feeless/builtin/bank"
	"github.com/vechain/feeless/builtin/params"
	"github.com/vechain/feeless/lvldb"
	"github.com/vechain/feeless/state"
	"github.com/vechain/feeless/thor"
)

var (
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
	carol = thor.BytesToAddress([]byte("carol"))
	admin = thor.BytesToAddress([]byte("admin"))
)

type testEnv struct {
	state   *state.State
	bank    *bank.Bank
	params  *params.Params
	feeless *Feeless
}

// newTestEnv builds a contract with the given period, every test account funded with 1000.
func newTestEnv(t *testing.T, period int64) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	b := bank.New(thor.BankAddress, st)
	p := params.New(thor.ParamsAddress, st)
	require.NoError(t, p.Set(thor.KeyEpochPeriod, big.NewInt(period)))
	require.NoError(t, p.SetAddress(thor.KeyAdmin, admin))

	for _, addr := range []thor.Address{alice, bob, carol} {
		require.NoError(t, b.Mint(addr, big.NewInt(1000)))
	}

	return &testEnv{
		state:   st,
		bank:    b,
		params:  p,
		feeless: New(thor.FeelessAddress, st, b, p),
	}
}

func (e *testEnv) addTiers(t *testing.T, tiers ...[3]int64) {
	for _, tier := range tiers {
		require.NoError(t, e.feeless.AddTier(uint8(tier[0]), big.NewInt(tier[1]), big.NewInt(tier[2])))
	}
}

func (e *testEnv) remaining(t *testing.T, addr thor.Address) int64 {
	r, err := e.feeless.Remaining(addr)
	require.NoError(t, err)
	return r.Int64()
}

func (e *testEnv) hasQuota(t *testing.T, addr thor.Address) bool {
	ok, err := e.feeless.HasQuota(addr)
	require.NoError(t, err)
	return ok
}

func (e *testEnv) locked(t *testing.T, addr thor.Address) int64 {
	l, err := e.feeless.Locked(addr)
	require.NoError(t, err)
	return l.Int64()
}

func (e *testEnv) reserved(t *testing.T, addr thor.Address) int64 {
	r, err := e.bank.GetReserved(addr)
	require.NoError(t, err)
	return r.Int64()
}

func (e *testEnv) free(t *testing.T, addr thor.Address) int64 {
	r, err := e.bank.GetBalance(addr)
	require.NoError(t, err)
	return r.Int64()
}

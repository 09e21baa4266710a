// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/feeless/builtin/accounts"
	"github.com/vechain/feeless/genesis"
	"github.com/vechain/feeless/lvldb"
	"github.com/vechain/feeless/runtime"
	"github.com/vechain/feeless/state"
	"github.com/vechain/feeless/thor"
)

func newInitializedStore(t *testing.T) *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, initStore(db, genesis.NewDevnet()))
	return db
}

func writeScript(t *testing.T, content string) *script {
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	scr, err := loadScript(path)
	require.NoError(t, err)
	return scr
}

func TestInitStore(t *testing.T) {
	db := newInitializedStore(t)

	m, err := loadMeta(db)
	require.NoError(t, err)
	assert.Equal(t, genesis.NewDevnet().ID(), m.GenesisID)
	assert.Equal(t, uint32(0), m.Head)

	// idempotent with the same genesis
	require.NoError(t, initStore(db, genesis.NewDevnet()))

	cfg := genesis.DevConfig()
	cfg.EpochPeriod = 7
	other, err := genesis.New("other", cfg)
	require.NoError(t, err)
	assert.Error(t, initStore(db, other))
}

func TestLoadMetaUninitialized(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	_, err = loadMeta(db)
	assert.Equal(t, errNotInitialized, err)
}

func TestToAction(t *testing.T) {
	scr := writeScript(t, `
blocks:
  - number: 1
    txs:
      - caller: 0x00000000000000000000000000000000000000a1
        action: {type: stake, amount: 100}
      - caller: 0x00000000000000000000000000000000000000a1
        feeless: true
        action: {type: setParam, key: fee-price, value: 0x2}
      - caller: 0x00000000000000000000000000000000000000a1
        action: {type: addTier, rank: 4, threshold: 10, grant: 1}
`)
	require.Len(t, scr.Blocks, 1)
	txs := scr.Blocks[0].Txs
	require.Len(t, txs, 3)
	assert.True(t, txs[1].Feeless)

	action, err := txs[0].Action.toAction()
	require.NoError(t, err)
	assert.Equal(t, int64(100), action.(*runtime.Stake).Amount.Int64())

	action, err = txs[1].Action.toAction()
	require.NoError(t, err)
	assert.Equal(t, int64(2), action.(*runtime.SetParam).Value.Int64())

	action, err = txs[2].Action.toAction()
	require.NoError(t, err)
	assert.Equal(t, uint8(4), action.(*runtime.AddTier).Rank)

	for _, bad := range []scriptAction{
		{Type: "mint"},
		{Type: "setParam", Key: "reward-ratio"},
		{Type: "claim", EthAddress: "0x1234"},
		{Type: "claim", EthAddress: "0x00000000000000000000000000000000000000a1", Signature: "zz"},
	} {
		_, err := bad.toAction()
		assert.Error(t, err, bad.Type)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("blocks: []\nextra: 1\n"), 0o600))
	_, err = loadScript(path)
	assert.Error(t, err)
}

func TestReplay(t *testing.T) {
	db := newInitializedStore(t)
	devs := genesis.DevAccounts()
	staker := devs[len(devs)-1].Address
	newcomer := devs[1].Address

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sig, err := accounts.SignClaim(newcomer, crypto.FromECDSA(key))
	require.NoError(t, err)

	scr := writeScript(t, fmt.Sprintf(`
blocks:
  - number: 3
    txs:
      - caller: %v
        feeless: true
        action: {type: remark, data: hello}
      - caller: %v
        action: {type: stake, amount: 600}
      - caller: %v
        action: {type: unstake}
      - caller: %v
        action: {type: claim, ethAddress: "%v", signature: "%v"}
  - number: 180
`, staker, newcomer, devs[2].Address, newcomer, crypto.PubkeyToAddress(key.PublicKey).Hex(), hexutil.Encode(sig)))

	results, err := replay(db, scr)
	require.NoError(t, err)
	require.Len(t, results, 2)

	receipts := results[0].Receipts
	require.Len(t, receipts, 4)
	assert.True(t, receipts[0].FeeExempt)
	assert.Equal(t, int64(10), receipts[0].Cost.Int64())
	assert.False(t, receipts[1].FeeExempt)
	assert.False(t, receipts[1].Reverted)
	assert.True(t, receipts[2].Reverted)
	assert.False(t, receipts[3].Reverted)
	assert.Empty(t, results[1].Receipts)

	m, err := loadMeta(db)
	require.NoError(t, err)
	assert.Equal(t, uint32(180), m.Head)

	// the boundary at 180 renewed both stakers
	r, err := inspect(state.New(db), &newcomer)
	require.NoError(t, err)
	assert.Equal(t, uint32(180), r.LastBoundary)
	assert.Equal(t, []thor.Address{staker, newcomer}, r.Stakers)
	require.NotNil(t, r.Account)
	assert.Equal(t, int64(50), r.Account.Remaining.Int64())
	assert.Equal(t, int64(600), r.Account.Locked.Int64())
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), r.Account.EthAddress)

	// replaying below head is rejected
	_, err = replay(db, scr)
	assert.Error(t, err)
}

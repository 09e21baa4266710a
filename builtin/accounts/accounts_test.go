// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/feeless/builtin/bank"
	"github.com/vechain/feeless/lvldb"
	"github.com/vechain/feeless/state"
	"github.com/vechain/feeless/thor"
)

var (
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
)

func newTestAccounts(t *testing.T) (*Accounts, *bank.Bank) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	b := bank.New(thor.BankAddress, st)
	return New(thor.AccountsAddress, st, b), b
}

func newKey(t *testing.T) ([]byte, common.Address) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return crypto.FromECDSA(key), crypto.PubkeyToAddress(key.PublicKey)
}

func TestClaimHash(t *testing.T) {
	account := thor.MustParseAddress("0x00000000000000000000000000000000000000ff")
	msg := "\x19Ethereum Signed Message:\n49bein evm:00000000000000000000000000000000000000ff"
	assert.Equal(t, crypto.Keccak256([]byte(msg)), ClaimHash(account))
}

func TestSigner(t *testing.T) {
	priv, eth := newKey(t)
	sig, err := SignClaim(alice, priv)
	require.NoError(t, err)

	signer, err := Signer(alice, sig)
	require.NoError(t, err)
	assert.Equal(t, eth, signer)

	// wallet style recovery id
	walletSig := append([]byte(nil), sig...)
	walletSig[64] += 27
	signer, err = Signer(alice, walletSig)
	require.NoError(t, err)
	assert.Equal(t, eth, signer)
	assert.Equal(t, sig[64], walletSig[64]-27, "input signature is not modified")

	// signed for another account
	signer, err = Signer(bob, sig)
	require.NoError(t, err)
	assert.NotEqual(t, eth, signer)

	_, err = Signer(alice, sig[:64])
	assert.True(t, errors.Is(err, ErrBadSignature))

	badV := append([]byte(nil), sig...)
	badV[64] = 9
	_, err = Signer(alice, badV)
	assert.True(t, errors.Is(err, ErrBadSignature))
}

func TestClaim(t *testing.T) {
	a, _ := newTestAccounts(t)
	priv, eth := newKey(t)

	account, err := a.AccountOf(eth)
	require.NoError(t, err)
	assert.Equal(t, FallbackAccount(eth), account)

	sig, err := SignClaim(alice, priv)
	require.NoError(t, err)
	merged, err := a.Claim(alice, eth, sig)
	require.NoError(t, err)
	assert.Equal(t, 0, merged.Sign())

	account, err = a.AccountOf(eth)
	require.NoError(t, err)
	assert.Equal(t, alice, account)

	bound, ok, err := a.EthAddressOf(alice)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, eth, bound)

	_, ok, err = a.EthAddressOf(bob)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClaimRejects(t *testing.T) {
	a, _ := newTestAccounts(t)
	priv, eth := newKey(t)
	otherPriv, otherEth := newKey(t)

	// signed by another key
	sig, err := SignClaim(alice, otherPriv)
	require.NoError(t, err)
	_, err = a.Claim(alice, eth, sig)
	assert.True(t, errors.Is(err, ErrInvalidSignature))

	_, err = a.Claim(alice, eth, []byte{1, 2, 3})
	assert.True(t, errors.Is(err, ErrBadSignature))

	// the fallback account cannot bind itself, even with a valid signature
	fallback := FallbackAccount(eth)
	sig, err = SignClaim(fallback, priv)
	require.NoError(t, err)
	_, err = a.Claim(fallback, eth, sig)
	assert.True(t, errors.Is(err, ErrClaimFallback))

	sig, err = SignClaim(alice, priv)
	require.NoError(t, err)
	_, err = a.Claim(alice, eth, sig)
	require.NoError(t, err)

	// alice is already bound
	sig, err = SignClaim(alice, otherPriv)
	require.NoError(t, err)
	_, err = a.Claim(alice, otherEth, sig)
	assert.True(t, errors.Is(err, ErrAccountMapped))

	// eth is already bound
	sig, err = SignClaim(bob, priv)
	require.NoError(t, err)
	_, err = a.Claim(bob, eth, sig)
	assert.True(t, errors.Is(err, ErrEthAddressMapped))
}

func TestClaimMergesFallback(t *testing.T) {
	a, b := newTestAccounts(t)
	priv, eth := newKey(t)
	fallback := FallbackAccount(eth)

	require.NoError(t, b.Mint(fallback, big.NewInt(300)))
	ok, err := b.Reserve(fallback, big.NewInt(100))
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, b.Mint(alice, big.NewInt(5)))

	sig, err := SignClaim(alice, priv)
	require.NoError(t, err)
	merged, err := a.Claim(alice, eth, sig)
	require.NoError(t, err)
	assert.Equal(t, int64(300), merged.Int64())

	bal, err := b.GetBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(305), bal.Int64())

	bal, err = b.GetBalance(fallback)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Sign())
	reserved, err := b.GetReserved(fallback)
	require.NoError(t, err)
	assert.Equal(t, 0, reserved.Sign())
}

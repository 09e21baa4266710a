// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/feeless/thor"
)

// DevAccount account for development.
type DevAccount struct {
	Address    thor.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for the dev network.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{thor.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// DevConfig is the config of the dev network. The first dev account is the
// admin, every dev account is funded and the last one is staked.
func DevConfig() *Config {
	accs := DevAccounts()
	cfg := &Config{
		EpochPeriod: uint32(thor.InitialEpochPeriod.Uint64()),
		FeePrice:    NewHexOrDecimal256(thor.InitialFeePrice.Int64()),
		Admin:       accs[0].Address,
		Tiers: []Tier{
			{Rank: 1, Threshold: NewHexOrDecimal256(100), Grant: NewHexOrDecimal256(10)},
			{Rank: 2, Threshold: NewHexOrDecimal256(500), Grant: NewHexOrDecimal256(50)},
			{Rank: 3, Threshold: NewHexOrDecimal256(1000), Grant: NewHexOrDecimal256(200)},
		},
	}
	for i, acc := range accs {
		a := Account{Address: acc.Address, Balance: NewHexOrDecimal256(10000)}
		if i == len(accs)-1 {
			a.Stake = NewHexOrDecimal256(1000)
		}
		cfg.Accounts = append(cfg.Accounts, a)
	}
	return cfg
}

// NewDevnet create genesis for the dev network.
func NewDevnet() *Genesis {
	gen, err := New("devnet", DevConfig())
	if err != nil {
		panic(err)
	}
	return gen
}

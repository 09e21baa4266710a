// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package feeless implements the `Feeless` built-in contract: accounts lock
// collateral to qualify for a tier, and every epoch boundary renews a quota
// of fee-exempt bandwidth for each staked account from the tier table.
package feeless

import (
	"math/big"

	"github.com/vechain/feeless/builtin/solidity"
	"github.com/vechain/feeless/log"
	"github.com/vechain/feeless/metrics"
	"github.com/vechain/feeless/state"
	"github.com/vechain/feeless/thor"
)

var (
	logger = log.WithContext("pkg", "feeless")

	metricStakeCount        = metrics.LazyLoadCounterVec("stake_count", []string{"op"})
	metricRecomputeAccounts = metrics.LazyLoadGauge("epoch_recompute_accounts")
	metricQuotaConsumed     = metrics.LazyLoadCounter("quota_consumed")
)

// Ledger holds the funds locked by stakes.
// Reserve and Unreserve must either fully apply or not apply at all.
type Ledger interface {
	// Reserve locks amount of the free balance of addr.
	// It returns false if the free balance is insufficient.
	Reserve(addr thor.Address, amount *big.Int) (bool, error)
	// Unreserve releases amount of the reserved balance of addr.
	Unreserve(addr thor.Address, amount *big.Int) error
}

// Params provides the governance params read by the contract.
type Params interface {
	Get(key thor.Bytes32) (*big.Int, error)
	GetAddress(key thor.Bytes32) (thor.Address, error)
}

// Feeless implements native methods of `Feeless` contract.
type Feeless struct {
	storage *storage
	ledger  Ledger
	params  Params
}

// New create a new instance.
func New(addr thor.Address, state *state.State, ledger Ledger, params Params) *Feeless {
	return &Feeless{
		storage: newStorage(solidity.NewContext(addr, state)),
		ledger:  ledger,
		params:  params,
	}
}

// CheckAdmin returns ErrNotAdmin unless caller is the admin account.
func (f *Feeless) CheckAdmin(caller thor.Address) error {
	admin, err := f.params.GetAddress(thor.KeyAdmin)
	if err != nil {
		return err
	}
	if admin.IsZero() || admin != caller {
		return ErrNotAdmin
	}
	return nil
}

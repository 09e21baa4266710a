// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feeless

import (
	"math/big"

	"github.com/vechain/feeless/thor"
)

// Remaining returns the quota left to account in the current epoch, zero if none.
func (f *Feeless) Remaining(account thor.Address) (*big.Int, error) {
	rec, err := f.storage.getQuota(account)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return new(big.Int), nil
	}
	return rec.Remaining, nil
}

// HasQuota returns whether account has a quota record.
func (f *Feeless) HasQuota(account thor.Address) (bool, error) {
	return f.storage.quotas.Exists(account)
}

// Consume debits cost from the quota of account.
// If the quota does not cover cost, it returns false and the quota is unchanged.
func (f *Feeless) Consume(account thor.Address, cost *big.Int) (bool, error) {
	if cost == nil || cost.Sign() < 0 {
		return false, ErrInvalidAmount
	}
	rec, err := f.storage.getQuota(account)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return cost.Sign() == 0, nil
	}
	if rec.Remaining.Cmp(cost) < 0 {
		return false, nil
	}
	if cost.Sign() == 0 {
		return true, nil
	}

	rec.Remaining.Sub(rec.Remaining, cost)
	if err := f.storage.setQuota(account, rec); err != nil {
		return false, err
	}
	if cost.IsInt64() {
		metricQuotaConsumed().Add(cost.Int64())
	}
	logger.Debug("quota consumed", "account", account, "cost", cost, "remaining", rec.Remaining)
	return true, nil
}

// Grant sets the quota of a staked account until the next epoch boundary overwrites it.
func (f *Feeless) Grant(account thor.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	staked, err := f.IsStaked(account)
	if err != nil {
		return err
	}
	if !staked {
		return ErrNotStaked
	}
	if err := f.storage.setQuota(account, &QuotaRecord{Remaining: new(big.Int).Set(amount)}); err != nil {
		return err
	}
	logger.Info("quota granted", "account", account, "amount", amount)
	return nil
}

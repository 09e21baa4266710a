// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feeless

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/feeless/thor"
)

// Stake locks amount of the free balance of account as collateral.
// The quota of account is left untouched until the next epoch boundary.
func (f *Feeless) Stake(account thor.Address, amount *big.Int) error {
	if account.IsZero() {
		return ErrInvalidAccount
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	logger.Debug("staking", "account", account, "amount", amount)

	ok, err := f.ledger.Reserve(account, amount)
	if err != nil {
		return errors.Wrap(err, "failed to reserve stake")
	}
	if !ok {
		logger.Info("stake rejected", "account", account, "amount", amount, "reason", ErrInsufficientFunds)
		return ErrInsufficientFunds
	}

	rec, err := f.storage.getStake(account)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &StakeRecord{Locked: new(big.Int)}
		if err := f.storage.stakers.Add(account); err != nil {
			return errors.Wrap(err, "failed to index staker")
		}
	}
	rec.Locked.Add(rec.Locked, amount)
	if err := f.storage.setStake(account, rec); err != nil {
		return err
	}

	metricStakeCount().AddWithLabel(1, map[string]string{"op": "stake"})
	logger.Info("staked", "account", account, "amount", amount, "locked", rec.Locked)
	return nil
}

// Unstake releases the whole collateral of account and drops its quota.
// It returns the released amount.
func (f *Feeless) Unstake(account thor.Address) (*big.Int, error) {
	rec, err := f.storage.getStake(account)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		logger.Info("unstake rejected", "account", account, "reason", ErrNotStaked)
		return nil, ErrNotStaked
	}

	if err := f.ledger.Unreserve(account, rec.Locked); err != nil {
		return nil, errors.Wrap(err, "failed to unreserve stake")
	}
	f.storage.stakes.Delete(account)
	f.storage.quotas.Delete(account)
	if err := f.storage.stakers.Remove(account); err != nil {
		return nil, errors.Wrap(err, "failed to unindex staker")
	}

	metricStakeCount().AddWithLabel(1, map[string]string{"op": "unstake"})
	logger.Info("unstaked", "account", account, "released", rec.Locked)
	return rec.Locked, nil
}

// Locked returns the collateral locked by account, zero if not staked.
func (f *Feeless) Locked(account thor.Address) (*big.Int, error) {
	rec, err := f.storage.getStake(account)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return new(big.Int), nil
	}
	return rec.Locked, nil
}

// IsStaked returns whether account has a stake record.
func (f *Feeless) IsStaked(account thor.Address) (bool, error) {
	return f.storage.stakes.Exists(account)
}

// Stakers lists staked accounts in the order they first staked.
func (f *Feeless) Stakers() ([]thor.Address, error) {
	var stakers []thor.Address
	err := f.storage.stakers.Iter(func(addr thor.Address) error {
		stakers = append(stakers, addr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stakers, nil
}

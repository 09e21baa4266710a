// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feeless

import (
	"math"
	"math/big"

	"github.com/vechain/feeless/thor"
)

// QuotaRenewal is the quota an account gets at a boundary.
// A nil Grant means the account qualifies for no tier and loses its quota.
type QuotaRenewal struct {
	Account thor.Address
	Grant   *big.Int
}

// EpochTransition is the full set of quota changes of one boundary.
type EpochTransition struct {
	Block    uint32
	Renewals []QuotaRenewal
}

// Period returns the number of blocks between two quota recomputations.
func (f *Feeless) Period() (uint32, error) {
	p, err := f.params.Get(thor.KeyEpochPeriod)
	if err != nil {
		return 0, err
	}
	if p.Sign() <= 0 || !p.IsUint64() || p.Uint64() > math.MaxUint32 {
		return 0, ErrInvalidPeriod
	}
	return uint32(p.Uint64()), nil
}

// LastBoundary returns the height of the last boundary at which quotas were recomputed.
func (f *Feeless) LastBoundary() (uint32, error) {
	v, err := f.storage.lastBoundary.Get()
	if err != nil {
		return 0, err
	}
	return uint32(v.Uint64()), nil
}

// OnFinalize is invoked once per block after every action of the block is applied.
// At every height that is a multiple of the period, it recomputes the quota of every
// staked account. It returns whether a recomputation happened.
func (f *Feeless) OnFinalize(height uint32) (bool, error) {
	period, err := f.Period()
	if err != nil {
		return false, err
	}
	if height%period != 0 {
		return false, nil
	}

	logger.Info("recomputing quotas", "block", height)

	transition, err := f.computeEpochTransition(height)
	if err != nil {
		return false, err
	}
	if err := f.applyEpochTransition(transition); err != nil {
		return false, err
	}

	metricRecomputeAccounts().Set(int64(len(transition.Renewals)))
	logger.Info("recomputed quotas", "block", height, "accounts", len(transition.Renewals))
	return true, nil
}

// computeEpochTransition resolves the tier of every staked account, in stake order.
func (f *Feeless) computeEpochTransition(height uint32) (*EpochTransition, error) {
	tiers, err := f.Tiers()
	if err != nil {
		return nil, err
	}

	transition := &EpochTransition{Block: height}
	err = f.storage.stakers.Iter(func(account thor.Address) error {
		rec, err := f.storage.getStake(account)
		if err != nil {
			return err
		}
		var grant *big.Int
		if rec != nil {
			grant = resolve(tiers, rec.Locked)
		}
		transition.Renewals = append(transition.Renewals, QuotaRenewal{Account: account, Grant: grant})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transition, nil
}

// applyEpochTransition overwrites quotas, so applying the same transition twice is harmless.
func (f *Feeless) applyEpochTransition(transition *EpochTransition) error {
	for _, renewal := range transition.Renewals {
		if renewal.Grant == nil {
			f.storage.quotas.Delete(renewal.Account)
			continue
		}
		rec := &QuotaRecord{Remaining: new(big.Int).Set(renewal.Grant)}
		if err := f.storage.setQuota(renewal.Account, rec); err != nil {
			return err
		}
	}
	f.storage.lastBoundary.Set(new(big.Int).SetUint64(uint64(transition.Block)))
	return nil
}

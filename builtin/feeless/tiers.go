// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feeless

import (
	"math/big"
)

// before reports whether a resolves ahead of b.
// Tiers resolve by threshold descending, equal thresholds by rank descending.
func before(a, b *Tier) bool {
	if c := a.Threshold.Cmp(b.Threshold); c != 0 {
		return c > 0
	}
	return a.Rank > b.Rank
}

// AddTier inserts or replaces the tier of the given rank.
// Thresholds are not required to grow with rank.
func (f *Feeless) AddTier(rank uint8, threshold, grant *big.Int) error {
	if threshold == nil || grant == nil || threshold.Sign() < 0 || grant.Sign() < 0 {
		return ErrInvalidTier
	}
	tier := &Tier{
		Rank:      rank,
		Threshold: new(big.Int).Set(threshold),
		Grant:     new(big.Int).Set(grant),
	}

	order, err := f.storage.getTierOrder()
	if err != nil {
		return err
	}
	newOrder := make([]byte, 0, len(order)+1)
	inserted := false
	for _, r := range order {
		if r == rank {
			continue
		}
		if !inserted {
			t, err := f.storage.getTier(r)
			if err != nil {
				return err
			}
			if before(tier, t) {
				newOrder = append(newOrder, rank)
				inserted = true
			}
		}
		newOrder = append(newOrder, r)
	}
	if !inserted {
		newOrder = append(newOrder, rank)
	}

	if err := f.storage.setTier(tier); err != nil {
		return err
	}
	if err := f.storage.setTierOrder(newOrder); err != nil {
		return err
	}
	logger.Debug("tier set", "rank", rank, "threshold", threshold, "grant", grant)
	return nil
}

// RemoveTier deletes the tier of the given rank.
func (f *Feeless) RemoveTier(rank uint8) error {
	order, err := f.storage.getTierOrder()
	if err != nil {
		return err
	}
	newOrder := make([]byte, 0, len(order))
	for _, r := range order {
		if r != rank {
			newOrder = append(newOrder, r)
		}
	}
	if len(newOrder) == len(order) {
		return ErrTierNotFound
	}

	f.storage.tiers.Delete(rankKey(rank))
	if err := f.storage.setTierOrder(newOrder); err != nil {
		return err
	}
	logger.Debug("tier removed", "rank", rank)
	return nil
}

// Tiers lists all tiers in resolution order.
func (f *Feeless) Tiers() ([]*Tier, error) {
	order, err := f.storage.getTierOrder()
	if err != nil {
		return nil, err
	}
	tiers := make([]*Tier, 0, len(order))
	for _, r := range order {
		t, err := f.storage.getTier(r)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, t)
	}
	return tiers, nil
}

// Resolve returns the grant of the tier with the highest threshold not exceeding stake.
// A nil grant means no tier qualifies.
func (f *Feeless) Resolve(stake *big.Int) (*big.Int, error) {
	tiers, err := f.Tiers()
	if err != nil {
		return nil, err
	}
	return resolve(tiers, stake), nil
}

func resolve(tiers []*Tier, stake *big.Int) *big.Int {
	for _, t := range tiers {
		if t.Threshold.Cmp(stake) <= 0 {
			return t.Grant
		}
	}
	return nil
}

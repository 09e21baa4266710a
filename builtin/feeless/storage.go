// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feeless

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/feeless/builtin/linkedlist"
	"github.com/vechain/feeless/builtin/solidity"
	"github.com/vechain/feeless/thor"
)

var (
	slotTiers        = nameToSlot("tiers")
	slotTierOrder    = nameToSlot("tier-order")
	slotStakes       = nameToSlot("stakes")
	slotQuotas       = nameToSlot("quotas")
	slotLastBoundary = nameToSlot("last-boundary")
	// stakers linked list
	slotStakersHead  = nameToSlot("stakers-head")
	slotStakersTail  = nameToSlot("stakers-tail")
	slotStakersCount = nameToSlot("stakers-count")
)

func nameToSlot(name string) thor.Bytes32 {
	return thor.BytesToBytes32([]byte(name))
}

type rankKey uint8

func (r rankKey) Bytes() []byte { return []byte{byte(r)} }

// Tier maps a collateral threshold to the quota granted per epoch.
type Tier struct {
	Rank      uint8
	Threshold *big.Int
	Grant     *big.Int
}

// StakeRecord is the collateral locked by an account.
type StakeRecord struct {
	Locked *big.Int
}

// QuotaRecord is the fee-exempt quota left to an account in the current epoch.
type QuotaRecord struct {
	Remaining *big.Int
}

// storage represents the root storage for the Feeless contract.
type storage struct {
	context      *solidity.Context
	tiers        *solidity.Mapping[rankKey, *Tier]
	stakes       *solidity.Mapping[thor.Address, *StakeRecord]
	quotas       *solidity.Mapping[thor.Address, *QuotaRecord]
	lastBoundary *solidity.Uint256
	stakers      *linkedlist.LinkedList
}

func newStorage(context *solidity.Context) *storage {
	return &storage{
		context:      context,
		tiers:        solidity.NewMapping[rankKey, *Tier](context, slotTiers),
		stakes:       solidity.NewMapping[thor.Address, *StakeRecord](context, slotStakes),
		quotas:       solidity.NewMapping[thor.Address, *QuotaRecord](context, slotQuotas),
		lastBoundary: solidity.NewUint256(context, slotLastBoundary),
		stakers:      linkedlist.NewLinkedList(context, slotStakersHead, slotStakersTail, slotStakersCount),
	}
}

func (s *storage) getTier(rank uint8) (*Tier, error) {
	t, err := s.tiers.Get(rankKey(rank))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tier")
	}
	return t, nil
}

func (s *storage) setTier(t *Tier) error {
	if err := s.tiers.Set(rankKey(t.Rank), t); err != nil {
		return errors.Wrap(err, "failed to set tier")
	}
	return nil
}

// getTierOrder returns ranks sorted by resolution order.
func (s *storage) getTierOrder() (ranks []byte, err error) {
	err = s.context.State().DecodeStorage(s.context.Address(), slotTierOrder, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &ranks)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tier order")
	}
	return ranks, nil
}

func (s *storage) setTierOrder(ranks []byte) error {
	if len(ranks) == 0 {
		s.context.State().SetRawStorage(s.context.Address(), slotTierOrder, nil)
		return nil
	}
	err := s.context.State().EncodeStorage(s.context.Address(), slotTierOrder, func() ([]byte, error) {
		return rlp.EncodeToBytes(ranks)
	})
	if err != nil {
		return errors.Wrap(err, "failed to set tier order")
	}
	return nil
}

func (s *storage) getStake(account thor.Address) (*StakeRecord, error) {
	r, err := s.stakes.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake")
	}
	return r, nil
}

func (s *storage) setStake(account thor.Address, r *StakeRecord) error {
	if err := s.stakes.Set(account, r); err != nil {
		return errors.Wrap(err, "failed to set stake")
	}
	return nil
}

func (s *storage) getQuota(account thor.Address) (*QuotaRecord, error) {
	r, err := s.quotas.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get quota")
	}
	return r, nil
}

func (s *storage) setQuota(account thor.Address, r *QuotaRecord) error {
	if err := s.quotas.Set(account, r); err != nil {
		return errors.Wrap(err, "failed to set quota")
	}
	return nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/feeless/thor"
)

// Transfer moves free balance of the caller to another account.
type Transfer struct {
	To     thor.Address
	Amount *big.Int
}

func (a *Transfer) Weight() uint64 { return thor.TransferWeight }

func (a *Transfer) Execute(env *Env) error {
	if a.Amount == nil || a.Amount.Sign() < 0 {
		return ErrInvalidValue
	}
	ok, err := env.Bank().Transfer(env.Caller(), a.To, a.Amount)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInsufficientBalance
	}
	env.Emit("Transfer", "from", env.Caller(), "to", a.To, "amount", a.Amount)
	return nil
}

// Stake locks free balance of the caller as collateral.
type Stake struct {
	Amount *big.Int
}

func (a *Stake) Weight() uint64 { return thor.StakeWeight }

func (a *Stake) Execute(env *Env) error {
	if err := env.Feeless().Stake(env.Caller(), a.Amount); err != nil {
		return err
	}
	env.Emit("Staked", "account", env.Caller(), "amount", a.Amount)
	return nil
}

// Unstake releases the whole collateral of the caller.
type Unstake struct{}

func (a *Unstake) Weight() uint64 { return thor.UnstakeWeight }

func (a *Unstake) Execute(env *Env) error {
	released, err := env.Feeless().Unstake(env.Caller())
	if err != nil {
		return err
	}
	env.Emit("Unstaked", "account", env.Caller(), "amount", released)
	return nil
}

// Remark records opaque data.
type Remark struct {
	Data []byte
}

func (a *Remark) Weight() uint64 {
	return thor.RemarkWeight + uint64(len(a.Data))*thor.RemarkByteWeight
}

func (a *Remark) Execute(env *Env) error {
	if len(a.Data) > thor.MaxRemarkSize {
		return ErrRemarkTooLarge
	}
	env.Emit("Remarked", "account", env.Caller(), "size", len(a.Data))
	return nil
}

// SetParam sets a governance param. Admin only.
type SetParam struct {
	Key   thor.Bytes32
	Value *big.Int
}

func (a *SetParam) Weight() uint64 { return thor.GovernanceWeight }

func (a *SetParam) Execute(env *Env) error {
	if err := env.Feeless().CheckAdmin(env.Caller()); err != nil {
		return err
	}
	if a.Value == nil || a.Value.Sign() < 0 || a.Value.BitLen() > 256 {
		return ErrInvalidParam
	}
	if a.Key == thor.KeyEpochPeriod && (a.Value.Sign() == 0 || !a.Value.IsUint64() || a.Value.Uint64() > math.MaxUint32) {
		return ErrInvalidParam
	}
	if err := env.Params().Set(a.Key, a.Value); err != nil {
		return err
	}
	env.Emit("ParamSet", "key", a.Key, "value", a.Value)
	return nil
}

// AddTier inserts or replaces a tier. Admin only.
type AddTier struct {
	Rank      uint8
	Threshold *big.Int
	Grant     *big.Int
}

func (a *AddTier) Weight() uint64 { return thor.GovernanceWeight }

func (a *AddTier) Execute(env *Env) error {
	if err := env.Feeless().CheckAdmin(env.Caller()); err != nil {
		return err
	}
	if err := env.Feeless().AddTier(a.Rank, a.Threshold, a.Grant); err != nil {
		return err
	}
	env.Emit("TierSet", "rank", a.Rank, "threshold", a.Threshold, "grant", a.Grant)
	return nil
}

// RemoveTier deletes a tier. Admin only.
type RemoveTier struct {
	Rank uint8
}

func (a *RemoveTier) Weight() uint64 { return thor.GovernanceWeight }

func (a *RemoveTier) Execute(env *Env) error {
	if err := env.Feeless().CheckAdmin(env.Caller()); err != nil {
		return err
	}
	if err := env.Feeless().RemoveTier(a.Rank); err != nil {
		return err
	}
	env.Emit("TierRemoved", "rank", a.Rank)
	return nil
}

// Grant sets the quota of a staked account. Admin only.
// It weighs nothing, so the admin never pays for it.
type Grant struct {
	Account thor.Address
	Amount  *big.Int
}

func (a *Grant) Weight() uint64 { return 0 }

func (a *Grant) Execute(env *Env) error {
	if err := env.Feeless().CheckAdmin(env.Caller()); err != nil {
		return err
	}
	if err := env.Feeless().Grant(a.Account, a.Amount); err != nil {
		return err
	}
	env.Emit("QuotaGranted", "account", a.Account, "amount", a.Amount)
	return nil
}

// Claim binds the caller to an ethereum address.
type Claim struct {
	EthAddress common.Address
	Signature  []byte
}

func (a *Claim) Weight() uint64 { return thor.ClaimWeight }

func (a *Claim) Execute(env *Env) error {
	merged, err := env.Accounts().Claim(env.Caller(), a.EthAddress, a.Signature)
	if err != nil {
		return err
	}
	env.Emit("Claimed", "account", env.Caller(), "eth", a.EthAddress, "merged", merged)
	return nil
}

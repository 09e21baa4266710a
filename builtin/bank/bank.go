// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bank is the balance ledger: free and reserved funds of accounts,
// plus supply bookkeeping kept in the storage of the Bank contract.
// Every mutating call checks before it writes, so a failed call leaves no
// partial effect.
package bank

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/feeless/builtin/solidity"
	"github.com/vechain/feeless/state"
	"github.com/vechain/feeless/thor"
)

var (
	slotTotalSupply = thor.BytesToBytes32([]byte("total-supply"))
	slotTotalBurned = thor.BytesToBytes32([]byte("total-burned"))

	// ErrInsufficientReserved is returned when unreserving more than is reserved.
	ErrInsufficientReserved = errors.New("insufficient reserved balance")
)

// Bank binder of `Bank` contract.
type Bank struct {
	state       *state.State
	totalSupply *solidity.Uint256
	totalBurned *solidity.Uint256
}

func New(addr thor.Address, state *state.State) *Bank {
	sctx := solidity.NewContext(addr, state)
	return &Bank{
		state:       state,
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		totalBurned: solidity.NewUint256(sctx, slotTotalBurned),
	}
}

func checkAmount(amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.Errorf("negative amount %v", amount)
	}
	return nil
}

// GetBalance returns the free balance of addr.
func (b *Bank) GetBalance(addr thor.Address) (*big.Int, error) {
	return b.state.GetBalance(addr)
}

// GetReserved returns the reserved balance of addr.
func (b *Bank) GetReserved(addr thor.Address) (*big.Int, error) {
	return b.state.GetReserved(addr)
}

// TotalSupply returns the amount minted minus the amount burned.
func (b *Bank) TotalSupply() (*big.Int, error) {
	supply, err := b.totalSupply.Get()
	if err != nil {
		return nil, err
	}
	burned, err := b.totalBurned.Get()
	if err != nil {
		return nil, err
	}
	return supply.Sub(supply, burned), nil
}

// TotalBurned returns the amount burned by fees.
func (b *Bank) TotalBurned() (*big.Int, error) {
	return b.totalBurned.Get()
}

// Mint credits new funds to the free balance of addr.
func (b *Bank) Mint(addr thor.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	bal, err := b.state.GetBalance(addr)
	if err != nil {
		return err
	}
	if err := b.totalSupply.Add(amount); err != nil {
		return err
	}
	return b.state.SetBalance(addr, bal.Add(bal, amount))
}

// Burn destroys amount from the free balance of addr.
// It returns false without any change if the free balance is insufficient.
func (b *Bank) Burn(addr thor.Address, amount *big.Int) (bool, error) {
	if err := checkAmount(amount); err != nil {
		return false, err
	}
	bal, err := b.state.GetBalance(addr)
	if err != nil {
		return false, err
	}
	if bal.Cmp(amount) < 0 {
		return false, nil
	}
	if err := b.totalBurned.Add(amount); err != nil {
		return false, err
	}
	return true, b.state.SetBalance(addr, bal.Sub(bal, amount))
}

// Transfer moves amount of free balance from one account to another.
// It returns false without any change if the free balance of from is insufficient.
func (b *Bank) Transfer(from, to thor.Address, amount *big.Int) (bool, error) {
	if err := checkAmount(amount); err != nil {
		return false, err
	}
	fromBal, err := b.state.GetBalance(from)
	if err != nil {
		return false, err
	}
	if fromBal.Cmp(amount) < 0 {
		return false, nil
	}
	if from == to || amount.Sign() == 0 {
		return true, nil
	}
	toBal, err := b.state.GetBalance(to)
	if err != nil {
		return false, err
	}
	if err := b.state.SetBalance(from, fromBal.Sub(fromBal, amount)); err != nil {
		return false, err
	}
	return true, b.state.SetBalance(to, toBal.Add(toBal, amount))
}

// Reserve moves amount from the free balance to the reserved balance of addr.
// It returns false without any change if the free balance is insufficient.
func (b *Bank) Reserve(addr thor.Address, amount *big.Int) (bool, error) {
	if err := checkAmount(amount); err != nil {
		return false, err
	}
	bal, err := b.state.GetBalance(addr)
	if err != nil {
		return false, err
	}
	if bal.Cmp(amount) < 0 {
		return false, nil
	}
	reserved, err := b.state.GetReserved(addr)
	if err != nil {
		return false, err
	}
	if err := b.state.SetBalance(addr, bal.Sub(bal, amount)); err != nil {
		return false, err
	}
	return true, b.state.SetReserved(addr, reserved.Add(reserved, amount))
}

// Unreserve moves amount from the reserved balance back to the free balance of addr.
func (b *Bank) Unreserve(addr thor.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	reserved, err := b.state.GetReserved(addr)
	if err != nil {
		return err
	}
	if reserved.Cmp(amount) < 0 {
		return errors.WithMessagef(ErrInsufficientReserved, "unreserve %v from %v", amount, addr)
	}
	bal, err := b.state.GetBalance(addr)
	if err != nil {
		return err
	}
	if err := b.state.SetReserved(addr, reserved.Sub(reserved, amount)); err != nil {
		return err
	}
	return b.state.SetBalance(addr, bal.Add(bal, amount))
}

// Merge releases every reserved fund of from and moves its whole free balance to to.
// It returns the amount moved.
func (b *Bank) Merge(from, to thor.Address) (*big.Int, error) {
	reserved, err := b.state.GetReserved(from)
	if err != nil {
		return nil, err
	}
	if reserved.Sign() > 0 {
		if err := b.Unreserve(from, reserved); err != nil {
			return nil, err
		}
	}
	bal, err := b.state.GetBalance(from)
	if err != nil {
		return nil, err
	}
	if _, err := b.Transfer(from, to, bal); err != nil {
		return nil, err
	}
	return bal, nil
}

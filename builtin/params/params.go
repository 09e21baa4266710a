// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/feeless/state"
	"github.com/vechain/feeless/thor"
)

// Params binder of `Params` contract.
type Params struct {
	addr  thor.Address
	state *state.State
}

func New(addr thor.Address, state *state.State) *Params {
	return &Params{addr, state}
}

// Get native way to get param.
func (p *Params) Get(key thor.Bytes32) (*big.Int, error) {
	v, err := p.state.GetStorage(p.addr, key)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(v[:]), nil
}

// Set native way to set param.
func (p *Params) Set(key thor.Bytes32, value *big.Int) error {
	if value.Sign() < 0 {
		return errors.Errorf("negative value for param %v", key)
	}
	if value.BitLen() > 256 {
		return errors.Errorf("value of param %v exceeds 256 bits", key)
	}
	p.state.SetStorage(p.addr, key, thor.BytesToBytes32(value.Bytes()))
	return nil
}

// GetAddress returns an address typed param.
func (p *Params) GetAddress(key thor.Bytes32) (thor.Address, error) {
	v, err := p.Get(key)
	if err != nil {
		return thor.Address{}, err
	}
	return thor.BytesToAddress(v.Bytes()), nil
}

// SetAddress sets an address typed param.
func (p *Params) SetAddress(key thor.Bytes32, addr thor.Address) error {
	return p.Set(key, new(big.Int).SetBytes(addr.Bytes()))
}

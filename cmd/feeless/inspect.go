// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"

	"github.com/vechain/feeless/runtime"
	"github.com/vechain/feeless/state"
	"github.com/vechain/feeless/thor"
)

type tierReport struct {
	Rank      uint8    `yaml:"rank"`
	Threshold *big.Int `yaml:"threshold"`
	Grant     *big.Int `yaml:"grant"`
}

type accountReport struct {
	Address    thor.Address `yaml:"address"`
	Balance    *big.Int     `yaml:"balance"`
	Reserved   *big.Int     `yaml:"reserved"`
	Locked     *big.Int     `yaml:"locked"`
	Remaining  *big.Int     `yaml:"remaining"`
	HasQuota   bool         `yaml:"hasQuota"`
	EthAddress string       `yaml:"ethAddress,omitempty"`
}

type report struct {
	EpochPeriod  *big.Int       `yaml:"epochPeriod"`
	FeePrice     *big.Int       `yaml:"feePrice"`
	Admin        thor.Address   `yaml:"admin"`
	LastBoundary uint32         `yaml:"lastBoundary"`
	TotalSupply  *big.Int       `yaml:"totalSupply"`
	Tiers        []tierReport   `yaml:"tiers"`
	Stakers      []thor.Address `yaml:"stakers"`
	Account      *accountReport `yaml:"account,omitempty"`
}

func inspect(st *state.State, account *thor.Address) (*report, error) {
	rt := runtime.New(st, 0)
	var (
		r   report
		err error
	)
	if r.EpochPeriod, err = rt.Params().Get(thor.KeyEpochPeriod); err != nil {
		return nil, err
	}
	if r.FeePrice, err = rt.Params().Get(thor.KeyFeePrice); err != nil {
		return nil, err
	}
	if r.Admin, err = rt.Params().GetAddress(thor.KeyAdmin); err != nil {
		return nil, err
	}
	if r.LastBoundary, err = rt.Feeless().LastBoundary(); err != nil {
		return nil, err
	}
	if r.TotalSupply, err = rt.Bank().TotalSupply(); err != nil {
		return nil, err
	}
	tiers, err := rt.Feeless().Tiers()
	if err != nil {
		return nil, err
	}
	for _, t := range tiers {
		r.Tiers = append(r.Tiers, tierReport{t.Rank, t.Threshold, t.Grant})
	}
	if r.Stakers, err = rt.Feeless().Stakers(); err != nil {
		return nil, err
	}

	if account == nil {
		return &r, nil
	}
	a := accountReport{Address: *account}
	if a.Balance, err = rt.Bank().GetBalance(*account); err != nil {
		return nil, err
	}
	if a.Reserved, err = rt.Bank().GetReserved(*account); err != nil {
		return nil, err
	}
	if a.Locked, err = rt.Feeless().Locked(*account); err != nil {
		return nil, err
	}
	if a.Remaining, err = rt.Feeless().Remaining(*account); err != nil {
		return nil, err
	}
	if a.HasQuota, err = rt.Feeless().HasQuota(*account); err != nil {
		return nil, err
	}
	eth, bound, err := rt.Accounts().EthAddressOf(*account)
	if err != nil {
		return nil, err
	}
	if bound {
		a.EthAddress = eth.Hex()
	}
	r.Account = &a
	return &r, nil
}

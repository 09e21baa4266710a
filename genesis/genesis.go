// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/feeless/builtin/bank"
	"github.com/vechain/feeless/builtin/feeless"
	"github.com/vechain/feeless/builtin/params"
	"github.com/vechain/feeless/kv"
	"github.com/vechain/feeless/log"
	"github.com/vechain/feeless/state"
	"github.com/vechain/feeless/thor"
)

var logger = log.WithContext("pkg", "genesis")

// Genesis to build genesis state.
type Genesis struct {
	builder *Builder
	id      thor.Bytes32
	name    string
}

// New creates the genesis of cfg.
func New(name string, cfg *Config) (*Genesis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// the id commits to the canonical encoding of the config
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	builder := new(Builder).
		State(func(st *state.State) error {
			p := params.New(thor.ParamsAddress, st)
			feePrice := thor.InitialFeePrice
			if cfg.FeePrice != nil {
				feePrice = cfg.FeePrice.Int()
			}
			if err := p.Set(thor.KeyEpochPeriod, new(big.Int).SetUint64(uint64(cfg.EpochPeriod))); err != nil {
				return err
			}
			if err := p.Set(thor.KeyFeePrice, feePrice); err != nil {
				return err
			}
			return p.SetAddress(thor.KeyAdmin, cfg.Admin)
		}).
		State(func(st *state.State) error {
			b := bank.New(thor.BankAddress, st)
			f := feeless.New(thor.FeelessAddress, st, b, params.New(thor.ParamsAddress, st))
			for _, t := range cfg.Tiers {
				if err := f.AddTier(t.Rank, t.Threshold.Int(), t.Grant.Int()); err != nil {
					return errors.Wrapf(err, "tier %d", t.Rank)
				}
			}
			for _, a := range cfg.Accounts {
				if err := b.Mint(a.Address, a.Balance.Int()); err != nil {
					return errors.Wrapf(err, "%v", a.Address)
				}
				if a.Stake != nil {
					if err := f.Stake(a.Address, a.Stake.Int()); err != nil {
						return errors.Wrapf(err, "%v", a.Address)
					}
				}
			}
			// quotas of genesis stakers are granted at once
			_, err := f.OnFinalize(0)
			return err
		})

	if err := builder.Dry(); err != nil {
		return nil, err
	}
	return &Genesis{builder: builder, id: thor.Blake2b(data), name: name}, nil
}

// Build builds the genesis state into store. Each of writes is committed in
// the same batch as the state.
func (g *Genesis) Build(store kv.Store, writes ...func(kv.Putter) error) (*state.State, error) {
	st, err := g.builder.Build(store, writes...)
	if err != nil {
		return nil, err
	}
	logger.Info("genesis built", "name", g.name, "id", g.id)
	return st, nil
}

// ID returns genesis id.
func (g *Genesis) ID() thor.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

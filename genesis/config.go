// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/feeless/thor"
)

// Config is user customized genesis.
type Config struct {
	EpochPeriod uint32           `yaml:"epochPeriod"`
	FeePrice    *HexOrDecimal256 `yaml:"feePrice"`
	Admin       thor.Address     `yaml:"admin"`
	Tiers       []Tier           `yaml:"tiers"`
	Accounts    []Account        `yaml:"accounts"`
}

// Tier is a tier set in the genesis state.
type Tier struct {
	Rank      uint8            `yaml:"rank"`
	Threshold *HexOrDecimal256 `yaml:"threshold"`
	Grant     *HexOrDecimal256 `yaml:"grant"`
}

// Account is the account will set to the genesis state.
type Account struct {
	Address thor.Address     `yaml:"address"`
	Balance *HexOrDecimal256 `yaml:"balance"`
	// part of the balance staked at genesis
	Stake *HexOrDecimal256 `yaml:"stake,omitempty"`
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
type HexOrDecimal256 math.HexOrDecimal256

// NewHexOrDecimal256 wraps x.
func NewHexOrDecimal256(x int64) *HexOrDecimal256 {
	return (*HexOrDecimal256)(big.NewInt(x))
}

// Int returns the value as big.Int, nil if unset.
func (i *HexOrDecimal256) Int() *big.Int {
	if i == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(i))
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: expected integer", node.Line)
	}
	bigint, ok := math.ParseBig256(node.Value)
	if !ok {
		return fmt.Errorf("line %d: invalid hex or decimal integer %q", node.Line, node.Value)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface.
func (i HexOrDecimal256) MarshalYAML() (any, error) {
	return (*big.Int)(&i).String(), nil
}

// LoadConfig reads a yaml genesis config. Unknown fields are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return &cfg, nil
}

// Validate checks the config before any state is built from it.
func (c *Config) Validate() error {
	if c.EpochPeriod == 0 {
		return errors.New("epochPeriod must not be 0")
	}
	if c.FeePrice != nil && c.FeePrice.Int().Sign() < 0 {
		return errors.New("feePrice must not be negative")
	}
	if c.Admin.IsZero() {
		return errors.New("admin must be set")
	}

	ranks := make(map[uint8]bool, len(c.Tiers))
	for _, t := range c.Tiers {
		if ranks[t.Rank] {
			return errors.Errorf("tier %d: duplicated rank", t.Rank)
		}
		ranks[t.Rank] = true
		if t.Threshold == nil || t.Grant == nil {
			return errors.Errorf("tier %d: threshold and grant must be set", t.Rank)
		}
		if t.Threshold.Int().Sign() < 0 || t.Grant.Int().Sign() < 0 {
			return errors.Errorf("tier %d: threshold and grant must not be negative", t.Rank)
		}
	}

	addrs := make(map[thor.Address]bool, len(c.Accounts))
	for _, a := range c.Accounts {
		if addrs[a.Address] {
			return errors.Errorf("%v: duplicated account", a.Address)
		}
		addrs[a.Address] = true
		if a.Balance == nil {
			return errors.Errorf("%v: balance must be set", a.Address)
		}
		if a.Balance.Int().Sign() < 1 {
			return errors.Errorf("%v: balance must be a non-zero integer", a.Address)
		}
		if a.Stake != nil {
			stake := a.Stake.Int()
			if stake.Sign() < 1 {
				return errors.Errorf("%v: stake must be a non-zero integer", a.Address)
			}
			if stake.Cmp(a.Balance.Int()) > 0 {
				return errors.Errorf("%v: stake exceeds balance", a.Address)
			}
		}
	}
	return nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"fmt"
	"math/big"

	"github.com/vechain/feeless/builtin/accounts"
	"github.com/vechain/feeless/builtin/bank"
	"github.com/vechain/feeless/builtin/feeless"
	"github.com/vechain/feeless/builtin/params"
	"github.com/vechain/feeless/state"
	"github.com/vechain/feeless/thor"
)

// Action is an inner call dispatched on behalf of a caller.
type Action interface {
	// Weight is the bandwidth the action takes, priced by the fee estimator.
	Weight() uint64
	// Execute applies the action. A revert error rejects the action, any other
	// error is an internal failure.
	Execute(env *Env) error
}

// FeeEstimator prices an action in quota units.
type FeeEstimator interface {
	Estimate(action Action) *big.Int
}

// WeightEstimator prices an action by its weight.
type WeightEstimator struct{}

func (WeightEstimator) Estimate(action Action) *big.Int {
	return new(big.Int).SetUint64(action.Weight())
}

// Event is an outcome recorded by an action.
type Event struct {
	Name   string            `yaml:"name"`
	Fields map[string]string `yaml:"fields,omitempty"`
}

// Env is the environment an action executes in.
type Env struct {
	rt     *Runtime
	caller thor.Address
	events []*Event
}

func (env *Env) Caller() thor.Address         { return env.caller }
func (env *Env) BlockNumber() uint32          { return env.rt.blockNumber }
func (env *Env) State() *state.State          { return env.rt.state }
func (env *Env) Bank() *bank.Bank             { return env.rt.bank }
func (env *Env) Params() *params.Params       { return env.rt.params }
func (env *Env) Feeless() *feeless.Feeless    { return env.rt.feeless }
func (env *Env) Accounts() *accounts.Accounts { return env.rt.accounts }

// Emit records an event with key value pairs.
func (env *Env) Emit(name string, kvs ...any) {
	ev := &Event{Name: name}
	if len(kvs) > 0 {
		ev.Fields = make(map[string]string, len(kvs)/2)
		for i := 0; i+1 < len(kvs); i += 2 {
			ev.Fields[fmt.Sprint(kvs[i])] = fmt.Sprint(kvs[i+1])
		}
	}
	env.events = append(env.events, ev)
}

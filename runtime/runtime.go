// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/feeless/builtin/accounts"
	"github.com/vechain/feeless/builtin/bank"
	"github.com/vechain/feeless/builtin/feeless"
	"github.com/vechain/feeless/builtin/params"
	"github.com/vechain/feeless/builtin/reverts"
	"github.com/vechain/feeless/kv"
	"github.com/vechain/feeless/log"
	"github.com/vechain/feeless/metrics"
	"github.com/vechain/feeless/state"
	"github.com/vechain/feeless/thor"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricDispatchCount = metrics.LazyLoadCounterVec("dispatch_count", []string{"outcome"})
	metricDispatchCost  = metrics.LazyLoadHistogram("dispatch_cost", metrics.BucketQuota)
)

// Runtime is to support action execution.
// It is not safe for concurrent use.
type Runtime struct {
	state     *state.State
	estimator FeeEstimator

	bank     *bank.Bank
	params   *params.Params
	feeless  *feeless.Feeless
	accounts *accounts.Accounts

	// block env
	blockNumber uint32

	commitWrites []func(kv.Putter) error
}

// New create a Runtime object.
func New(state *state.State, blockNumber uint32) *Runtime {
	rt := &Runtime{
		state:       state,
		estimator:   WeightEstimator{},
		bank:        bank.New(thor.BankAddress, state),
		params:      params.New(thor.ParamsAddress, state),
		blockNumber: blockNumber,
	}
	rt.feeless = feeless.New(thor.FeelessAddress, state, rt.bank, rt.params)
	rt.accounts = accounts.New(thor.AccountsAddress, state, &accountMerger{rt.feeless, rt.bank})
	return rt
}

func (rt *Runtime) State() *state.State          { return rt.state }
func (rt *Runtime) BlockNumber() uint32          { return rt.blockNumber }
func (rt *Runtime) Bank() *bank.Bank             { return rt.bank }
func (rt *Runtime) Params() *params.Params       { return rt.params }
func (rt *Runtime) Feeless() *feeless.Feeless    { return rt.feeless }
func (rt *Runtime) Accounts() *accounts.Accounts { return rt.accounts }

// SetFeeEstimator replaces the fee estimator.
// Returns this runtime.
func (rt *Runtime) SetFeeEstimator(estimator FeeEstimator) *Runtime {
	rt.estimator = estimator
	return rt
}

// OnCommit adds write to the batch ExecuteBlock commits the block state with,
// so that bookkeeping of the caller lands atomically with the block.
func (rt *Runtime) OnCommit(write func(kv.Putter) error) *Runtime {
	rt.commitWrites = append(rt.commitWrites, write)
	return rt
}

// execute applies action inside its own checkpoint. A rejected action leaves
// no effect behind and is returned as *ActionError.
func (rt *Runtime) execute(caller thor.Address, action Action) ([]*Event, error) {
	checkpoint := rt.state.NewCheckpoint()
	env := &Env{rt: rt, caller: caller}
	if err := action.Execute(env); err != nil {
		rt.state.RevertTo(checkpoint)
		if reverts.IsRevertErr(err) {
			return nil, &ActionError{Err: err}
		}
		return nil, err
	}
	return env.events, nil
}

// Execute dispatches action on the paid path: the fee is burned from the free
// balance of caller, then the action executes. A rejected action does not get
// its fee back.
func (rt *Runtime) Execute(caller thor.Address, action Action) (*Receipt, error) {
	cost := rt.estimator.Estimate(action)
	price, err := rt.params.Get(thor.KeyFeePrice)
	if err != nil {
		return nil, err
	}
	fee := new(big.Int).Mul(cost, price)

	ok, err := rt.bank.Burn(caller, fee)
	if err != nil {
		return nil, errors.Wrap(err, "failed to burn fee")
	}
	if !ok {
		metricDispatchCount().AddWithLabel(1, map[string]string{"outcome": "rejected"})
		return nil, ErrInsufficientFee
	}

	receipt := &Receipt{Caller: caller, Cost: cost, Paid: fee}
	return rt.finish(receipt, action, "paid")
}

// finish executes action and completes receipt.
func (rt *Runtime) finish(receipt *Receipt, action Action, outcome string) (*Receipt, error) {
	if receipt.Cost.IsInt64() {
		metricDispatchCost().Observe(receipt.Cost.Int64())
	}
	events, err := rt.execute(receipt.Caller, action)
	if err != nil {
		var actionErr *ActionError
		if !errors.As(err, &actionErr) {
			return nil, err
		}
		receipt.Reverted = true
		receipt.Error = actionErr.Err.Error()
		metricDispatchCount().AddWithLabel(1, map[string]string{"outcome": "failed"})
		logger.Debug("action reverted", "caller", receipt.Caller, "feeExempt", receipt.FeeExempt, "err", actionErr.Err)
		return receipt, err
	}
	receipt.Events = events
	metricDispatchCount().AddWithLabel(1, map[string]string{"outcome": outcome})
	return receipt, nil
}

// Finalize signals the end of the block to the built-ins.
func (rt *Runtime) Finalize() error {
	if _, err := rt.feeless.OnFinalize(rt.blockNumber); err != nil {
		return errors.Wrapf(err, "finalize block %v", rt.blockNumber)
	}
	return nil
}

// ExecuteBlock applies txs in order, finalizes the block and commits the state.
// Rejected actions are recorded as reverted receipts. Any other failure aborts
// the block and discards its changes.
func (rt *Runtime) ExecuteBlock(txs []*Transaction) ([]*Receipt, error) {
	checkpoint := rt.state.NewCheckpoint()
	receipts := make([]*Receipt, 0, len(txs))
	abort := func(err error) ([]*Receipt, error) {
		rt.state.RevertTo(checkpoint)
		return nil, err
	}

	for i, tx := range txs {
		var (
			receipt *Receipt
			err     error
		)
		if tx.Feeless {
			receipt, err = rt.FeelessCall(tx.Caller, tx.Action)
		} else {
			receipt, err = rt.Execute(tx.Caller, tx.Action)
		}
		if err != nil {
			if !reverts.IsRevertErr(err) {
				return abort(errors.WithMessagef(err, "block %v tx %v", rt.blockNumber, i))
			}
			if receipt == nil {
				receipt = &Receipt{
					Caller:   tx.Caller,
					Cost:     rt.estimator.Estimate(tx.Action),
					Paid:     new(big.Int),
					Reverted: true,
					Error:    err.Error(),
				}
			}
		}
		receipts = append(receipts, receipt)
	}

	if err := rt.Finalize(); err != nil {
		return abort(err)
	}
	if err := rt.state.Commit(rt.commitWrites...); err != nil {
		return nil, err
	}
	logger.Debug("block executed", "number", rt.blockNumber, "txs", len(txs))
	return receipts, nil
}

// accountMerger releases the stake of an account before merging it away,
// so that the locked collateral always matches the reserved balance.
type accountMerger struct {
	feeless *feeless.Feeless
	bank    *bank.Bank
}

func (m *accountMerger) Merge(from, to thor.Address) (*big.Int, error) {
	staked, err := m.feeless.IsStaked(from)
	if err != nil {
		return nil, err
	}
	if staked {
		if _, err := m.feeless.Unstake(from); err != nil {
			return nil, err
		}
	}
	return m.bank.Merge(from, to)
}

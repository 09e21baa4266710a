// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/feeless/thor"
)

// FeelessCall dispatches action without a fee if the quota of caller covers its cost.
// The cost is debited before the action executes and is kept even if the action
// reverts. If the quota is short, the call goes through the paid path and the
// quota is left untouched.
func (rt *Runtime) FeelessCall(caller thor.Address, action Action) (*Receipt, error) {
	cost := rt.estimator.Estimate(action)
	remaining, err := rt.feeless.Remaining(caller)
	if err != nil {
		return nil, err
	}

	if remaining.Cmp(cost) < 0 {
		logger.Debug("quota short, paying", "caller", caller, "cost", cost, "remaining", remaining)
		return rt.Execute(caller, action)
	}

	ok, err := rt.feeless.Consume(caller, cost)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Errorf("quota of %v does not cover %v", caller, cost)
	}

	receipt := &Receipt{Caller: caller, FeeExempt: true, Cost: cost, Paid: new(big.Int)}
	return rt.finish(receipt, action, "exempt")
}

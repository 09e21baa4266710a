// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/vechain/feeless/thor"
)

// Receipt represents the results of a dispatched action.
type Receipt struct {
	Caller thor.Address `yaml:"caller"`
	// whether the cost was debited from the quota instead of paid
	FeeExempt bool `yaml:"feeExempt"`
	// estimated cost of the action, in quota units
	Cost *big.Int `yaml:"cost"`
	// fee burned from the caller
	Paid *big.Int `yaml:"paid"`
	// whether the action was rejected
	Reverted bool     `yaml:"reverted"`
	Error    string   `yaml:"error,omitempty"`
	Events   []*Event `yaml:"events,omitempty"`
}

// Transaction is an action dispatched in a block.
type Transaction struct {
	Caller thor.Address
	// dispatch through the quota gate instead of the paid path
	Feeless bool
	Action  Action
}

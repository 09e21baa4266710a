// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feeless

import "github.com/vechain/feeless/builtin/reverts"

// Errors rejecting a call. None of them leaves a state change behind.
var (
	ErrInsufficientFunds = reverts.New("insufficient funds")
	ErrNotStaked         = reverts.New("not staked")
	ErrInvalidAmount     = reverts.New("invalid amount")
	ErrInvalidAccount    = reverts.New("invalid account")
	ErrInvalidTier       = reverts.New("invalid tier")
	ErrTierNotFound      = reverts.New("tier not found")
	ErrInvalidPeriod     = reverts.New("invalid epoch period")
	ErrNotAdmin          = reverts.New("caller is not admin")
)

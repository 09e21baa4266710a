// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/vechain/feeless/builtin/reverts"
)

var (
	ErrInsufficientFee     = reverts.New("insufficient balance to pay fee")
	ErrInsufficientBalance = reverts.New("insufficient balance")
	ErrInvalidValue        = reverts.New("invalid value")
	ErrInvalidParam        = reverts.New("invalid param")
	ErrRemarkTooLarge      = reverts.New("remark too large")
)

// ActionError is the rejection of an inner action, forwarded to the caller unchanged.
type ActionError struct {
	Err error
}

func (e *ActionError) Error() string {
	return "action reverted: " + e.Err.Error()
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

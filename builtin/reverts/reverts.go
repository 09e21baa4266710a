// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts marks errors that reject a call because of its inputs or
// the current ledger content. Such errors revert the call and are reported
// to the caller; every other error is an internal failure.
package reverts

import (
	"github.com/pkg/errors"
)

// ErrRevert is a rejection of a call. Values are compared by identity.
type ErrRevert struct {
	reason string
}

// New creates a revert with the given reason.
func New(reason string) *ErrRevert {
	return &ErrRevert{reason}
}

func (e *ErrRevert) Error() string { return e.reason }

// IsRevertErr reports whether err, or any error it wraps, is a revert.
func IsRevertErr(err error) bool {
	var revert *ErrRevert
	return err != nil && errors.As(err, &revert)
}

// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"math/big"
)

// Weights of actions. The fee estimator prices an action by its weight.
const (
	TransferWeight   uint64 = 10
	StakeWeight      uint64 = 20
	UnstakeWeight    uint64 = 20
	ClaimWeight      uint64 = 50
	RemarkWeight     uint64 = 5
	RemarkByteWeight uint64 = 1 // per byte of remark data
	GovernanceWeight uint64 = 5
)

// MaxRemarkSize is the max length of remark data.
const MaxRemarkSize = 1024

// Keys of governance params.
var (
	KeyEpochPeriod = BytesToBytes32([]byte("epoch-period"))
	KeyFeePrice    = BytesToBytes32([]byte("fee-price"))
	KeyAdmin       = BytesToBytes32([]byte("admin")) // address of the operator account, stored as a number

	InitialEpochPeriod = big.NewInt(180) // blocks between two quota recomputations
	InitialFeePrice    = big.NewInt(1)   // fee charged per quota unit on the paid path
)

// Addresses of the built-in contracts.
var (
	ParamsAddress   = BytesToAddress([]byte("Params"))
	BankAddress     = BytesToAddress([]byte("Bank"))
	FeelessAddress  = BytesToAddress([]byte("Feeless"))
	AccountsAddress = BytesToAddress([]byte("Accounts"))
)

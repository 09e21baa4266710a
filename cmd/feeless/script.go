// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/feeless/genesis"
	"github.com/vechain/feeless/kv"
	"github.com/vechain/feeless/log"
	"github.com/vechain/feeless/runtime"
	"github.com/vechain/feeless/state"
	"github.com/vechain/feeless/thor"
)

// script is a list of blocks to apply, in ascending order.
type script struct {
	Blocks []scriptBlock `yaml:"blocks"`
}

type scriptBlock struct {
	Number uint32     `yaml:"number"`
	Txs    []scriptTx `yaml:"txs"`
}

type scriptTx struct {
	Caller  thor.Address `yaml:"caller"`
	Feeless bool         `yaml:"feeless"`
	Action  scriptAction `yaml:"action"`
}

// scriptAction is the union of every action's fields, selected by Type.
type scriptAction struct {
	Type       string                   `yaml:"type"`
	To         thor.Address             `yaml:"to"`
	Amount     *genesis.HexOrDecimal256 `yaml:"amount"`
	Data       string                   `yaml:"data"`
	Key        string                   `yaml:"key"`
	Value      *genesis.HexOrDecimal256 `yaml:"value"`
	Rank       uint8                    `yaml:"rank"`
	Threshold  *genesis.HexOrDecimal256 `yaml:"threshold"`
	Grant      *genesis.HexOrDecimal256 `yaml:"grant"`
	Account    thor.Address             `yaml:"account"`
	EthAddress string                   `yaml:"ethAddress"`
	Signature  string                   `yaml:"signature"`
}

var paramKeys = map[string]thor.Bytes32{
	"epoch-period": thor.KeyEpochPeriod,
	"fee-price":    thor.KeyFeePrice,
	"admin":        thor.KeyAdmin,
}

func loadScript(path string) (*script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	var scr script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&scr); err != nil {
		return nil, errors.Wrap(err, "decode script")
	}
	return &scr, nil
}

func (a *scriptAction) toAction() (runtime.Action, error) {
	switch a.Type {
	case "transfer":
		return &runtime.Transfer{To: a.To, Amount: a.Amount.Int()}, nil
	case "stake":
		return &runtime.Stake{Amount: a.Amount.Int()}, nil
	case "unstake":
		return &runtime.Unstake{}, nil
	case "remark":
		return &runtime.Remark{Data: []byte(a.Data)}, nil
	case "setParam":
		key, ok := paramKeys[a.Key]
		if !ok {
			return nil, errors.Errorf("unknown param %q", a.Key)
		}
		return &runtime.SetParam{Key: key, Value: a.Value.Int()}, nil
	case "addTier":
		return &runtime.AddTier{Rank: a.Rank, Threshold: a.Threshold.Int(), Grant: a.Grant.Int()}, nil
	case "removeTier":
		return &runtime.RemoveTier{Rank: a.Rank}, nil
	case "grant":
		return &runtime.Grant{Account: a.Account, Amount: a.Amount.Int()}, nil
	case "claim":
		if !common.IsHexAddress(a.EthAddress) {
			return nil, errors.Errorf("invalid eth address %q", a.EthAddress)
		}
		sig, err := hexutil.Decode(a.Signature)
		if err != nil {
			return nil, errors.Wrap(err, "signature")
		}
		return &runtime.Claim{EthAddress: common.HexToAddress(a.EthAddress), Signature: sig}, nil
	default:
		return nil, errors.Errorf("unknown action type %q", a.Type)
	}
}

// blockResult is the outcome of one replayed block.
type blockResult struct {
	Number   uint32             `yaml:"number"`
	Receipts []*runtime.Receipt `yaml:"receipts"`
}

// replay applies the blocks of scr on top of the head of store. Skipped heights
// are applied as empty blocks, so that every height gets finalized.
func replay(store kv.Store, scr *script) ([]*blockResult, error) {
	m, err := loadMeta(store)
	if err != nil {
		return nil, err
	}

	var results []*blockResult
	head := m.Head
	for _, blk := range scr.Blocks {
		if blk.Number <= head {
			return nil, errors.Errorf("block %v is not above head %v", blk.Number, head)
		}
		txs := make([]*runtime.Transaction, 0, len(blk.Txs))
		for i, tx := range blk.Txs {
			action, err := tx.Action.toAction()
			if err != nil {
				return nil, errors.WithMessagef(err, "block %v tx %v", blk.Number, i)
			}
			txs = append(txs, &runtime.Transaction{Caller: tx.Caller, Feeless: tx.Feeless, Action: action})
		}

		// the head is committed with the state of each block
		for n := head + 1; n < blk.Number; n++ {
			if _, err := runtime.New(state.New(store), n).OnCommit(headWriter(n)).ExecuteBlock(nil); err != nil {
				return nil, err
			}
		}
		receipts, err := runtime.New(state.New(store), blk.Number).OnCommit(headWriter(blk.Number)).ExecuteBlock(txs)
		if err != nil {
			return nil, err
		}
		head = blk.Number
		log.Debug("block replayed", "number", blk.Number, "txs", len(txs))
		results = append(results, &blockResult{Number: blk.Number, Receipts: receipts})
	}
	return results, nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accounts binds ledger accounts to ethereum addresses. The owner of
// an ethereum key proves control by signing the account id with personal_sign.
package accounts

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/vechain/feeless/builtin/reverts"
	"github.com/vechain/feeless/builtin/solidity"
	"github.com/vechain/feeless/log"
	"github.com/vechain/feeless/state"
	"github.com/vechain/feeless/thor"
)

const claimPrefix = "bein evm:"

var (
	logger = log.WithContext("pkg", "accounts")

	slotAccounts     = thor.BytesToBytes32([]byte("accounts"))
	slotEthAddresses = thor.BytesToBytes32([]byte("eth-addresses"))
)

var (
	ErrAccountMapped     = reverts.New("account already mapped")
	ErrEthAddressMapped  = reverts.New("eth address already mapped")
	ErrBadSignature      = reverts.New("bad signature")
	ErrInvalidSignature  = reverts.New("signature does not match eth address")
	ErrClaimFallback     = reverts.New("fallback account cannot claim its eth address")
	errFallbackNotMerged = errors.New("fallback account still holds funds after merge")
)

// Merger moves every fund held by one account into another.
type Merger interface {
	Merge(from, to thor.Address) (*big.Int, error)
}

type ethKey common.Address

func (k ethKey) Bytes() []byte { return k[:] }

// Accounts binder of `Accounts` contract.
type Accounts struct {
	state        *state.State
	merger       Merger
	accounts     *solidity.Mapping[ethKey, thor.Address]
	ethAddresses *solidity.Mapping[thor.Address, common.Address]
}

func New(addr thor.Address, state *state.State, merger Merger) *Accounts {
	sctx := solidity.NewContext(addr, state)
	return &Accounts{
		state:        state,
		merger:       merger,
		accounts:     solidity.NewMapping[ethKey, thor.Address](sctx, slotAccounts),
		ethAddresses: solidity.NewMapping[thor.Address, common.Address](sctx, slotEthAddresses),
	}
}

// ClaimHash returns the hash an ethereum key signs to claim account.
// It is the personal_sign hash of the claim prefix followed by the lower case hex of account.
func ClaimHash(account thor.Address) []byte {
	msg := claimPrefix + hex.EncodeToString(account.Bytes())
	return thor.Keccak256([]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg))).Bytes()
}

// SignClaim signs the claim of account with an ethereum private key.
func SignClaim(account thor.Address, privateKey []byte) ([]byte, error) {
	priv, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, err
	}
	return crypto.Sign(ClaimHash(account), priv)
}

// Signer recovers the ethereum address that signed the claim of account.
// Both raw (0/1) and wallet style (27/28) recovery ids are accepted.
func Signer(account thor.Address, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, ErrBadSignature
	}
	sig = append([]byte(nil), sig...)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(ClaimHash(account), sig)
	if err != nil {
		return common.Address{}, errors.WithMessage(ErrBadSignature, err.Error())
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// FallbackAccount is the account an unbound ethereum address maps to.
func FallbackAccount(ethAddress common.Address) thor.Address {
	h := thor.Blake2b([]byte("evm:"), ethAddress.Bytes())
	return thor.BytesToAddress(h[12:])
}

// AccountOf returns the account bound to ethAddress, or its fallback account.
func (a *Accounts) AccountOf(ethAddress common.Address) (thor.Address, error) {
	bound, err := a.accounts.Exists(ethKey(ethAddress))
	if err != nil {
		return thor.Address{}, err
	}
	if !bound {
		return FallbackAccount(ethAddress), nil
	}
	return a.accounts.Get(ethKey(ethAddress))
}

// EthAddressOf returns the ethereum address bound to account.
func (a *Accounts) EthAddressOf(account thor.Address) (common.Address, bool, error) {
	bound, err := a.ethAddresses.Exists(account)
	if err != nil || !bound {
		return common.Address{}, false, err
	}
	addr, err := a.ethAddresses.Get(account)
	if err != nil {
		return common.Address{}, false, err
	}
	return addr, true, nil
}

// Claim binds account to ethAddress. Funds held by the fallback account of
// ethAddress are merged into account. It returns the merged amount.
func (a *Accounts) Claim(account thor.Address, ethAddress common.Address, sig []byte) (*big.Int, error) {
	logger.Debug("claiming", "account", account, "eth", ethAddress)

	if mapped, err := a.ethAddresses.Exists(account); err != nil {
		return nil, err
	} else if mapped {
		return nil, ErrAccountMapped
	}
	if mapped, err := a.accounts.Exists(ethKey(ethAddress)); err != nil {
		return nil, err
	} else if mapped {
		return nil, ErrEthAddressMapped
	}

	fallback := FallbackAccount(ethAddress)
	if account == fallback {
		return nil, ErrClaimFallback
	}

	signer, err := Signer(account, sig)
	if err != nil {
		return nil, err
	}
	if signer != ethAddress {
		return nil, ErrInvalidSignature
	}

	merged := new(big.Int)
	exists, err := a.state.Exists(fallback)
	if err != nil {
		return nil, err
	}
	if exists {
		if merged, err = a.merger.Merge(fallback, account); err != nil {
			return nil, errors.Wrap(err, "failed to merge fallback account")
		}
		if exists, err = a.state.Exists(fallback); err != nil {
			return nil, err
		} else if exists {
			return nil, errFallbackNotMerged
		}
	}

	if err := a.accounts.Set(ethKey(ethAddress), account); err != nil {
		return nil, err
	}
	if err := a.ethAddresses.Set(account, ethAddress); err != nil {
		return nil, err
	}

	logger.Info("claimed", "account", account, "eth", ethAddress, "merged", merged)
	return merged, nil
}

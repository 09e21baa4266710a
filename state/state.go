// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/feeless/cache"
	"github.com/vechain/feeless/kv"
	"github.com/vechain/feeless/stackedmap"
	"github.com/vechain/feeless/thor"
)

const (
	accountsBucket = kv.Bucket("a")
	storageBucket  = kv.Bucket("s")

	readCacheSize = 4096
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) bytes() []byte {
	return append(append(make([]byte, 0, len(k.addr)+len(k.key)), k.addr[:]...), k.key[:]...)
}

// State manages the ledger world state: account balances and
// storage of built-in contracts.
//
// State is not safe for concurrent use.
type State struct {
	store kv.Store
	cache *cache.LRU // committed values, keyed by thor.Address or storageKey
	sm    *stackedmap.StackedMap
}

// New create state object over the given store.
// Committed changes of a previous State over the same store are visible.
func New(store kv.Store) *State {
	c, err := cache.NewLRU("state", readCacheSize)
	if err != nil {
		panic(err) // readCacheSize is a positive constant
	}
	s := &State{
		store: store,
		cache: c,
	}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (value any, exist bool, err error) {
	v, err := s.cache.GetOrLoad(key, s.load)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *State) load(key any) (any, error) {
	switch k := key.(type) {
	case thor.Address:
		return loadAccount(accountsBucket.NewGetter(s.store), k)
	case storageKey:
		getter := storageBucket.NewGetter(s.store)
		data, err := getter.Get(k.bytes())
		if err != nil {
			if getter.IsNotFound(err) {
				return rlp.RawValue(nil), nil
			}
			return nil, err
		}
		return rlp.RawValue(data), nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// getAccount gets account by address. the returned account should not be modified.
func (s *State) getAccount(addr thor.Address) (*Account, error) {
	v, _, err := s.sm.Get(addr)
	if err != nil {
		return nil, err
	}
	return v.(*Account), nil
}

// getAccountCopy get a copy of account by address.
func (s *State) getAccountCopy(addr thor.Address) (Account, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return Account{}, err
	}
	return *acc, nil
}

func (s *State) updateAccount(addr thor.Address, acc *Account) {
	s.sm.Put(addr, acc)
}

// GetBalance returns free balance for the given address.
func (s *State) GetBalance(addr thor.Address) (*big.Int, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).Set(acc.Balance), nil
}

// SetBalance set free balance for the given address.
func (s *State) SetBalance(addr thor.Address, balance *big.Int) error {
	cpy, err := s.getAccountCopy(addr)
	if err != nil {
		return &Error{err}
	}
	cpy.Balance = new(big.Int).Set(balance)
	s.updateAccount(addr, &cpy)
	return nil
}

// GetReserved returns reserved balance for the given address.
func (s *State) GetReserved(addr thor.Address) (*big.Int, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).Set(acc.Reserved), nil
}

// SetReserved set reserved balance for the given address.
func (s *State) SetReserved(addr thor.Address, reserved *big.Int) error {
	cpy, err := s.getAccountCopy(addr)
	if err != nil {
		return &Error{err}
	}
	cpy.Reserved = new(big.Int).Set(reserved)
	s.updateAccount(addr, &cpy)
	return nil
}

// Exists returns whether an account exists at the given address.
// See Account.IsEmpty()
func (s *State) Exists(addr thor.Address) (bool, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return false, &Error{err}
	}
	return !acc.IsEmpty(), nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return thor.Blake2b(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Commit writes all changes since the last commit into the store atomically,
// and starts a fresh journal. Each of writes adds its own puts to the same batch.
func (s *State) Commit(writes ...func(kv.Putter) error) error {
	var (
		accounts = make(map[thor.Address]*Account)
		storage  = make(map[storageKey]rlp.RawValue)
	)
	// later puts override earlier ones
	s.sm.Journal(func(k, v any) bool {
		switch key := k.(type) {
		case thor.Address:
			accounts[key] = v.(*Account)
		case storageKey:
			storage[key] = v.(rlp.RawValue)
		}
		return true
	})

	bulk := s.store.Bulk()
	accountsPutter := accountsBucket.NewPutter(bulk)
	storagePutter := storageBucket.NewPutter(bulk)

	for addr, acc := range accounts {
		if err := saveAccount(accountsPutter, addr, acc); err != nil {
			return &Error{err}
		}
	}
	for key, raw := range storage {
		var err error
		if len(raw) == 0 {
			err = storagePutter.Delete(key.bytes())
		} else {
			err = storagePutter.Put(key.bytes(), raw)
		}
		if err != nil {
			return &Error{err}
		}
	}
	for _, write := range writes {
		if err := write(bulk); err != nil {
			return &Error{err}
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}

	for addr, acc := range accounts {
		s.cache.Add(addr, acc)
	}
	for key, raw := range storage {
		s.cache.Add(key, raw)
	}
	s.sm = stackedmap.New(s.cacheGetter)
	return nil
}

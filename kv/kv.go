// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the key-value store the state is persisted into.
package kv

// Getter reads values by key.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	// IsNotFound reports whether err is the error Get returns for a missing key.
	IsNotFound(err error) bool
}

// Putter writes values by key.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Bulk collects writes that become visible together when Write is called.
type Bulk interface {
	Putter
	Len() int
	Write() error
}

// Store is a key-value store able to write atomically.
type Store interface {
	Getter
	Putter
	Bulk() Bulk
}

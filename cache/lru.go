// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache holds the read-through cache the state keeps over committed values.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/feeless/metrics"
)

var metricCacheAccess = metrics.LazyLoadCounterVec("cache_access_count", []string{"cache", "result"})

// Loader loads the value of a key missing from the cache.
type Loader func(key any) (any, error)

// LRU is a named golang-lru cache counting the hits and misses of GetOrLoad.
type LRU struct {
	*lru.Cache
	name      string
	hit, miss atomic.Int64
}

// NewLRU creates a cache of at most maxSize entries. maxSize must be positive.
func NewLRU(name string, maxSize int) (*LRU, error) {
	c, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{Cache: c, name: name}, nil
}

// GetOrLoad returns the cached value of key, or loads and caches it.
// Load errors are returned and nothing is cached.
func (l *LRU) GetOrLoad(key any, load Loader) (any, error) {
	if v, ok := l.Get(key); ok {
		l.hit.Add(1)
		metricCacheAccess().AddWithLabel(1, map[string]string{"cache": l.name, "result": "hit"})
		return v, nil
	}
	l.miss.Add(1)
	metricCacheAccess().AddWithLabel(1, map[string]string{"cache": l.name, "result": "miss"})

	v, err := load(key)
	if err != nil {
		return nil, err
	}
	l.Add(key, v)
	return v, nil
}

// Stats returns the hits and misses of GetOrLoad so far.
func (l *LRU) Stats() (hit, miss int64) {
	return l.hit.Load(), l.miss.Load()
}

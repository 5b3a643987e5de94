// Package cache memoizes pipeline results by content fingerprint.
package cache

import (
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mohae/deepcopy"
)

// DefaultSize bounds the number of entries kept.
const DefaultSize = 256

// Cache is a size- and TTL-bounded map from fingerprints to values. Values
// are deep-copied on the way in and out so callers never share state with
// the cache. It is safe for concurrent use.
type Cache[V any] struct {
	lru *expirable.LRU[uint64, V]
}

// New returns a cache holding up to size entries for ttl each. A ttl of 0
// keeps entries until they are evicted by size.
func New[V any](size int, ttl time.Duration) *Cache[V] {
	if size <= 0 {
		size = DefaultSize
	}
	return &Cache[V]{lru: expirable.NewLRU[uint64, V](size, nil, ttl)}
}

// Key fingerprints a canonical payload together with the name it was
// processed under.
func Key(name string, payload []byte) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(name)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(payload)
	return d.Sum64()
}

// Get returns a copy of the value stored under key.
func (c *Cache[V]) Get(key uint64) (V, bool) {
	v, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	return clone(v), true
}

// Add stores a copy of v under key.
func (c *Cache[V]) Add(key uint64, v V) {
	c.lru.Add(key, clone(v))
}

// Len reports the number of live entries.
func (c *Cache[V]) Len() int { return c.lru.Len() }

// Purge drops every entry.
func (c *Cache[V]) Purge() { c.lru.Purge() }

func clone[V any](v V) V {
	if cp, ok := deepcopy.Copy(v).(V); ok {
		return cp
	}
	return v
}

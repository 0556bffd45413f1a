// Package cache provides caching for compiled term maps, reduction graphs and
// rendered artifacts.
//
// Two layers are offered:
//
//   - [Cache] stores opaque bytes under string keys with an optional TTL.
//     [FileCache] backs the CLI, [MemoryCache] backs the serve command and
//     [NullCache] disables caching.
//   - [Memo] is a typed in-process LRU. The reduction explorer uses it to
//     remember the successors of terms it has already expanded.
//
// Keys come from a [Keyer], which hashes the structural key of a term
// together with the options that affect the cached output.
package cache

import (
	"context"
	"time"
)

// Cache stores byte payloads by key.
type Cache interface {
	// Get returns the payload for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// NullCache never stores anything. The CLI selects it for --no-cache.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}

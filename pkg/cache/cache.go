// Package cache stores extracted graphs and rendered artifacts.
//
// # Overview
//
// Extraction is cheap but rendering (Graphviz, rsvg-convert) is not, and the
// same snippet is often submitted many times. The [Cache] interface lets the
// pipeline skip repeated work regardless of where entries live:
//
//   - [NullCache]: stores nothing (--no-cache, tests)
//   - [FileCache]: one file per entry under the XDG cache dir (CLI default)
//   - [MemoryCache]: in-process LRU with TTL (server default)
//   - [RedisCache]: shared across server replicas
//
// # Keys
//
// A [Keyer] derives keys from content hashes and options, so identical
// inputs map to identical keys and any option change produces a new key:
//
//	key := keyer.GraphKey(cache.Hash(src), cache.GraphKeyOpts{MaxLineBytes: 65536})
//
// [ScopedKeyer] prefixes every key, giving separate namespaces per
// deployment or tenant.
package cache

import (
	"context"
	"time"
)

// Cache TTLs by entry type.
const (
	TTLGraph    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

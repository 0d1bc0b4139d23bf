// Package cache stores rendered export artifacts so repeated exports of
// the same chart, theme and options are served without re-rendering.
//
// Three backends implement [Cache]:
//   - [Null]: stores nothing; used when caching is disabled
//   - [File]: one file per entry under a directory; used by the CLI
//   - [Redis]: shared across server instances
//
// Keys come from a [Keyer], so callers never build key strings by hand.
// [Instrument] wraps any backend to report hits and misses to the
// observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is
	// reported as ok == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// DefaultTTL is how long artifacts are kept when no TTL is configured.
const DefaultTTL = 24 * time.Hour

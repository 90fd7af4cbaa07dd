// Package cache stores computed scenes and rendered artifacts so repeated
// layouts of the same document are free.
//
// Backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for the HTTP service
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer]. Scene keys hash the document content together
// with the layout constants; artifact keys add the output format and render
// options, so changing either invalidates naturally.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached entries.
const (
	SceneTTL    = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
// A miss is reported with ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Package cache stores rendered artifacts keyed by their inputs.
//
// Renders are pure functions of the poster configuration, so an artifact
// computed once can be served again without drawing. Three backends share
// the [Cache] interface:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry under the user cache dir (CLI)
//   - [RedisCache]: shared cache for the HTTP server
//
// Keys are produced by a [Keyer] so the same configuration maps to the same
// key everywhere. [ScopedKeyer] prefixes keys for isolated namespaces.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiry. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get returns the data for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// TTLs per entry kind.
const (
	// TTLArtifact applies to encoded outputs (PNG, SVG, PDF, JSON).
	TTLArtifact = 7 * 24 * time.Hour

	// TTLPreview applies to server thumbnails.
	TTLPreview = 24 * time.Hour
)

// Package cache stores encoded fractal images so repeated renders are free.
//
// A render is fully determined by its kind, size and output format, so the
// encoded bytes can be cached under a key derived from those options.
// Backends:
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for multiple server instances
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer]; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLArtifact is how long encoded images are kept.
const TTLArtifact = 7 * 24 * time.Hour

// ArtifactKeyOpts are the options that determine an encoded image.
type ArtifactKeyOpts struct {
	Kind        string `json:"kind"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Format      string `json:"format"`
	JPEGQuality int    `json:"jpeg_quality,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key for an encoded image.
	ArtifactKey(opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return artifactKey(opts)
}

// Package cache provides caching abstractions for recalculation results.
//
// The recalculation engine is deterministic: identical project, catalog, and
// preset inputs produce identical results. That makes results safe to cache
// under a hash of the normalized inputs. This package defines the Cache
// interface and several backends:
//
//   - FileCache: file-based cache for CLI usage
//   - RedisCache: Redis-backed cache for server deployments
//   - MongoCache: MongoDB-backed cache with TTL indexes
//   - NullCache: no-op cache for tests or when caching is disabled
//
// Key generation is separated into the Keyer interface so that deployments
// can scope keys (e.g., per project or per user) without changing backends.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached artifact type. Results are cheap to recompute, so
// they expire faster than merged catalogs.
const (
	TTLResult  = 24 * time.Hour
	TTLSection = 24 * time.Hour
	TTLCatalog = 7 * 24 * time.Hour
)

// Cache is the storage interface for cached payloads.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was found; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ResultKeyOpts captures the parameters that affect a recalculation result
// beyond the input hash itself.
type ResultKeyOpts struct {
	PresetID      string
	EngineVersion string
}

// SectionKeyOpts captures the parameters that affect a packed cross-section
// layout for a single containment edge.
type SectionKeyOpts struct {
	Iterations int
	Seed       int64
}

// CatalogKeyOpts captures the parameters that affect a merged catalog.
type CatalogKeyOpts struct {
	Priority []string
}

// Keyer generates cache keys for the different cached artifact types.
type Keyer interface {
	// ResultKey generates a key for a full recalculation result.
	ResultKey(inputHash string, opts ResultKeyOpts) string

	// SectionKey generates a key for a packed cross-section layout.
	SectionKey(edgeHash string, opts SectionKeyOpts) string

	// CatalogKey generates a key for a merged material catalog.
	CatalogKey(contentHash string, opts CatalogKeyOpts) string
}

// DefaultKeyer is the standard key generator.
// Keys embed a hash of the options so that parameter changes never
// collide with previously cached entries.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ResultKey generates a key for a full recalculation result.
func (k *DefaultKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	return hashKey("result", inputHash, opts)
}

// SectionKey generates a key for a packed cross-section layout.
func (k *DefaultKeyer) SectionKey(edgeHash string, opts SectionKeyOpts) string {
	return hashKey("section", edgeHash, opts)
}

// CatalogKey generates a key for a merged material catalog.
func (k *DefaultKeyer) CatalogKey(contentHash string, opts CatalogKeyOpts) string {
	return hashKey("catalog", contentHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)

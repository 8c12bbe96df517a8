// Package cache implements the local persistence adapter: the durable
// snapshot written on every state change and read once at startup.
package cache

import (
	"fmt"
	"os"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// Cache stores the durable subset of the engine state.
type Cache interface {
	// Load returns the last saved snapshot. A cache that has never been
	// written returns an empty snapshot and no error.
	Load() (types.Snapshot, error)

	// Save replaces the stored snapshot.
	Save(snap types.Snapshot) error

	// Close releases resources. Idempotent.
	Close() error
}

// Open creates the cache driver selected by cfg, creating DataDir if needed.
func Open(cfg types.CacheConfig) (Cache, error) {
	backend := cfg.GetCacheBackend()
	if backend == types.CacheMemory {
		return NewMemory(), nil
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	switch backend {
	case types.CacheJSON:
		return NewJSONFile(dataDir), nil
	case types.CacheSQLite:
		return OpenSQLite(dataDir)
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrCacheUnknown, backend)
	}
}

// Package mirror implements the durable key-value stores that hold a
// serialized copy of the catalog between runs.
//
// A mirror has no authority of its own: the catalog seeds itself from it
// on startup and overwrites it on flush. Three drivers are available:
// JSON files in the data directory, a SQLite table, and Redis.
package mirror

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/coinage/internal/logger"
	"github.com/mesh-intelligence/coinage/pkg/types"
)

// Well-known mirror keys.
const (
	KeyNeologisms = "neologisms"
	KeyCategories = "categories"
	KeyAuthToken  = "auth_token"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("mirror key not found")

// Store is a durable key-value store.
type Store interface {
	// Get returns the bytes stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key succeeds.
	Delete(ctx context.Context, key string) error

	// Close releases the store's resources.
	Close() error
}

// Open creates the mirror driver named by cfg.Mirror. cfg should already
// carry defaults (see types.Config.WithDefaults).
func Open(ctx context.Context, cfg types.Config, log *logger.Logger) (Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}

	switch cfg.Mirror {
	case "", types.MirrorFile:
		return NewFileStore(dataDir)
	case types.MirrorSQLite:
		return OpenSQLite(ctx, dataDir)
	case types.MirrorRedis:
		return ConnectRedis(ctx, cfg.RedisAddr, log)
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrMirrorUnknown, cfg.Mirror)
	}
}

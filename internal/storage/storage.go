// Package storage contains the backend-agnostic persistence contract and a
// small factory keyed by storage kind.
//
// Concrete backends (postgres, sqlite, mysql) live in subpackages and register
// themselves at init time; importing storage/all (usually as a blank import in
// the wiring layer) makes every built-in backend available. The rest of the
// application depends only on the Repository interface and never imports a
// database driver directly.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"userseed/internal/schema"
)

// Config selects and configures a backend.
type Config struct {
	// Kind selects the registered backend, e.g. "postgres", "sqlite", "mysql".
	Kind string

	// DSN is the backend-specific connection string.
	DSN string

	// Table is the destination table name. Defaults to schema.Table when empty.
	Table string
}

// Repository is the persistence contract for the user batch.
//
// Replace executes the whole load as a single atomic unit: within one
// transaction it clears the destination table (reclaiming the identity
// sequence where the store supports it) and inserts every record. Any failure
// rolls the transaction back in full; no partial batch is ever visible.
type Repository interface {
	// EnsureSchema creates the destination table if it does not exist.
	EnsureSchema(ctx context.Context) error

	// Replace atomically swaps the table contents for the given batch and
	// returns the number of rows committed.
	Replace(ctx context.Context, users []schema.User) (int64, error)

	// Count returns the current number of rows in the destination table.
	Count(ctx context.Context) (int64, error)

	// Close releases the underlying connection.
	Close()
}

// Factory constructs a Repository from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for a storage kind. It is
// called from backend packages' init functions.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind. An empty cfg.Table is defaulted to
// schema.Table before the factory runs.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Table == "" {
		cfg.Table = schema.Table
	}
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported kind %q (registered: %v)", cfg.Kind, ListKinds())
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered backend kinds in sorted order.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

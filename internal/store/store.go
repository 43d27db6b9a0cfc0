// Package store persists small client-side key/value state (the session token and user id).
//
// It is the terminal counterpart of browser local storage: a handful of string keys that
// survive restarts. Backends: sqlite (default), redis, memory.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"bookclub-cli/internal/config"
)

var ErrNotFound = errors.New("store: key not found")

// KV is a string key/value store. Implementations must be safe for concurrent use.
type KV interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// Put writes all entries together (all or nothing where the backend allows it).
	Put(ctx context.Context, entries map[string]string) error
	// Delete removes keys; absent keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Open returns the backend selected by cfg.Session.Backend.
func Open(ctx context.Context, cfg *config.Config) (KV, error) {
	switch strings.TrimSpace(cfg.Session.Backend) {
	case "", config.BackendSQLite:
		if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
			return nil, err
		}
		return OpenSQLite(ctx, cfg.SessionDBPath())
	case config.BackendRedis:
		return OpenRedis(ctx, cfg.Session.Redis)
	case config.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Session.Backend)
	}
}

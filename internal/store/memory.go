package store

import (
	"context"
	"strings"
	"sync"

	"github.com/patrickmn/go-cache"
)

// Memory keeps values for the life of the process only.
type Memory struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewMemory() *Memory {
	// No expiration, no janitor goroutine.
	return &Memory{cache: cache.New(cache.NoExpiration, 0)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	x, ok := m.cache.Get(strings.TrimSpace(key))
	if !ok {
		return "", ErrNotFound
	}
	return x.(string), nil
}

func (m *Memory) Put(_ context.Context, entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range entries {
		m.cache.Set(strings.TrimSpace(k), v, cache.NoExpiration)
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		m.cache.Delete(strings.TrimSpace(k))
	}
	return nil
}

func (m *Memory) Close() error { return nil }

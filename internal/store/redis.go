package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookclub-cli/internal/config"

	"github.com/redis/go-redis/v9"
)

// Redis stores each key under "<prefix>:<key>". Useful when several machines share one login.
type Redis struct {
	client *redis.Client
	prefix string
}

func OpenRedis(ctx context.Context, cfg config.Redis) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("store: redis %s: %w", cfg.Addr, err)
	}
	return NewRedis(client, cfg.Prefix), nil
}

// NewRedis wraps an existing client. prefix may be empty.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: strings.TrimSuffix(strings.TrimSpace(prefix), ":")}
}

func (r *Redis) key(k string) string {
	k = strings.TrimSpace(k)
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *Redis) Put(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	pairs := make([]any, 0, len(entries)*2)
	for k, v := range entries {
		pairs = append(pairs, r.key(k), v)
	}
	// MSET is atomic.
	return r.client.MSet(ctx, pairs...).Err()
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, r.key(k))
	}
	return r.client.Del(ctx, full...).Err()
}

func (r *Redis) Close() error { return r.client.Close() }

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// DefaultPrefix namespaces keys written by Redis.
const DefaultPrefix = "numbit:"

// Redis keeps payloads as plain string values.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps client. An empty prefix uses DefaultPrefix.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if client == nil {
		panic("redis client cannot be nil for store.Redis")
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return NewRedis(client, ""), nil
}

// Close releases the client.
func (r *Redis) Close() error { return r.client.Close() }

// Get reads the payload for key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %s: %w", r.prefix+key, err)
	}
	return data, nil
}

// Set writes the payload for key without expiry.
func (r *Redis) Set(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", r.prefix+key, err)
	}
	return nil
}

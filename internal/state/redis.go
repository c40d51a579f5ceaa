package state

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces document keys when no prefix is configured.
const DefaultRedisPrefix = "continuity"

// RedisBackend stores each document as a string value under
// "<prefix>:<clean path>". SET replaces the value atomically.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend wraps an existing client.
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisBackend{client: client, prefix: prefix}
}

// RedisOptions configures DialRedis.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// DialRedis connects to Redis and verifies the connection with PING.
func DialRedis(ctx context.Context, opts RedisOptions) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}
	return NewRedisBackend(client, opts.Prefix), nil
}

// Key returns the Redis key used for path.
func (b *RedisBackend) Key(p string) string {
	if p == "" {
		p = DefaultPath
	}
	clean := path.Clean(strings.ReplaceAll(p, `\`, "/"))
	return b.prefix + ":" + clean
}

// Read returns the stored bytes for path.
func (b *RedisBackend) Read(ctx context.Context, p string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.Key(p)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s from redis: %w", p, err)
	}
	return data, nil
}

// Write stores data for path with no expiry.
func (b *RedisBackend) Write(ctx context.Context, p string, data []byte) error {
	if err := b.client.Set(ctx, b.Key(p), data, 0).Err(); err != nil {
		return fmt.Errorf("writing %s to redis: %w", p, err)
	}
	return nil
}

// Close releases the underlying client.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}

// Package cache provides a Redis-backed cache of session-service
// responses and per-player last-known position. The surface is only
// Get/Set/Delete with short TTLs — not a general write-through layer in
// front of a system of record (that's internal/profile).
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrMiss is returned by Get when key is absent.
var ErrMiss = errors.New("cache: miss")

// Cache is a narrow Get/Set/Delete surface over Redis.
type Cache struct {
	client *redis.Client
}

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// New dials Redis and verifies connectivity with PING.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Cache{client: client}, nil
}

// Get returns the raw value stored at key, or ErrMiss if absent.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Set stores value at key with the given TTL (0 means no expiry).
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Close releases the underlying Redis connection pool.
func (c *Cache) Close() error { return c.client.Close() }

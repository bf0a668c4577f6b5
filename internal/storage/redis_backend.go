package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisTimeout bounds every Redis round trip.
const redisTimeout = 3 * time.Second

// RedisBackend implements StorageBackend on top of Redis.
//
// Keys are stored as "<namespace>:<key>". Clear walks the namespace with SCAN
// rather than FLUSHDB so other data in the same database is left alone.
type RedisBackend struct {
	// Namespace prefixes every key.
	Namespace string

	client *redis.Client
}

// RedisOptions configures NewRedisBackend.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
}

// NewRedisBackend connects to Redis and verifies the connection with PING.
func NewRedisBackend(opts RedisOptions) (*RedisBackend, error) {
	namespace := opts.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  redisTimeout,
		ReadTimeout:  redisTimeout,
		WriteTimeout: redisTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	return &RedisBackend{Namespace: namespace, client: client}, nil
}

func (b *RedisBackend) fullKey(key string) string {
	return b.Namespace + ":" + key
}

// Get returns the value stored under key.
func (b *RedisBackend) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	value, err := b.client.Get(ctx, b.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key with no expiry.
func (b *RedisBackend) Set(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := b.client.Set(ctx, b.fullKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (b *RedisBackend) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := b.client.Del(ctx, b.fullKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}

// Clear deletes every key under the namespace prefix.
func (b *RedisBackend) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*redisTimeout)
	defer cancel()

	iter := b.client.Scan(ctx, 0, b.Namespace+":*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 100 {
			if err := b.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("failed to clear namespace %q: %w", b.Namespace, err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan namespace %q: %w", b.Namespace, err)
	}
	if len(batch) > 0 {
		if err := b.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to clear namespace %q: %w", b.Namespace, err)
		}
	}
	return nil
}

// Close releases the Redis connection pool.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}

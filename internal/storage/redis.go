package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisPrefix = "storyweave:game:"

// Redis stores documents as plain string values under prefix+key.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

// NewRedisFromURL parses a redis:// URL and checks the connection.
func NewRedisFromURL(ctx context.Context, url, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedis(client, prefix), nil
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

func (r *Redis) Location() string {
	return "redis://" + r.client.Options().Addr + "/" + r.prefix
}

func (r *Redis) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store '%s': %w", key, err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get '%s': %w", key, err)
	}
	return data, nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	n, err := r.client.Del(ctx, r.key(key)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete '%s': %w", key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check '%s': %w", key, err)
	}
	return n > 0, nil
}

// List walks the keyspace with SCAN. Keys deleted between SCAN and STRLEN are
// skipped.
func (r *Redis) List(ctx context.Context) ([]Entry, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}
	if len(keys) == 0 {
		return []Entry{}, nil
	}

	pipe := r.client.Pipeline()
	lens := make([]*redis.IntCmd, len(keys))
	for i, k := range keys {
		lens[i] = pipe.StrLen(ctx, k)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read sizes: %w", err)
	}

	entries := make([]Entry, 0, len(keys))
	for i, k := range keys {
		size, err := lens[i].Result()
		if err != nil || size == 0 {
			continue
		}
		entries = append(entries, Entry{Key: strings.TrimPrefix(k, r.prefix), Size: size})
	}
	return entries, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

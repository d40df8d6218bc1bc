// Package cache holds an optional read-through cache in front of the
// database. Every operation degrades to a miss when Redis is absent or
// failing.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// JSONCache stores values of T as JSON under a key prefix.
type JSONCache[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewJSONCache returns a cache. A nil client gives a cache that never hits.
func NewJSONCache[T any](client *redis.Client, prefix string, ttl time.Duration) *JSONCache[T] {
	return &JSONCache[T]{client: client, prefix: prefix, ttl: ttl}
}

func (c *JSONCache[T]) key(k string) string {
	return c.prefix + k
}

// Get returns the cached value, or false on a miss or any error.
func (c *JSONCache[T]) Get(ctx context.Context, k string) (*T, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, c.key(k)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", c.key(k)).Msg("⚠️ cache get failed")
		}
		return nil, false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Warn().Err(err).Str("key", c.key(k)).Msg("⚠️ cache entry unreadable")
		return nil, false
	}
	return &v, true
}

func (c *JSONCache[T]) Set(ctx context.Context, k string, v *T) {
	if c == nil || c.client == nil || v == nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(k), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", c.key(k)).Msg("⚠️ cache set failed")
	}
}

func (c *JSONCache[T]) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", full).Msg("⚠️ cache delete failed")
	}
}

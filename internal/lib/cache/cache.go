// Package cache stores looked-up secret messages in Redis.
//
// Secret messages are immutable, so an entry can never go stale; the TTL
// only bounds memory use.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/secretmessage/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the id is not cached.
var ErrMiss = errors.New("cache miss")

const keyPrefix = "secret_message:"

// SecretMessageCache is a Redis-backed cache of secret messages keyed by id.
type SecretMessageCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewSecretMessageCache(client redis.Cmdable, ttl time.Duration) *SecretMessageCache {
	return &SecretMessageCache{
		client: client,
		ttl:    ttl,
	}
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

// Get returns the cached record, or ErrMiss.
func (c *SecretMessageCache) Get(ctx context.Context, id uuid.UUID) (*model.SecretMessage, error) {
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to read secret message %s from cache: %w", id, err)
	}

	var secretMessage model.SecretMessage
	if err := json.Unmarshal(data, &secretMessage); err != nil {
		return nil, fmt.Errorf("failed to decode cached secret message %s: %w", id, err)
	}

	return &secretMessage, nil
}

// Set stores secretMessage under its id.
func (c *SecretMessageCache) Set(ctx context.Context, secretMessage *model.SecretMessage) error {
	data, err := json.Marshal(secretMessage)
	if err != nil {
		return fmt.Errorf("failed to encode secret message %s: %w", secretMessage.ID, err)
	}

	if err := c.client.Set(ctx, key(secretMessage.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write secret message %s to cache: %w", secretMessage.ID, err)
	}

	return nil
}

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/deppfellow/secretmessage/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping redis tests")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestKey(t *testing.T) {
	id := uuid.MustParse("6f1c7a52-3d1c-4f0e-bb39-7d7c3c1c9a10")
	assert.Equal(t, "secret_message:6f1c7a52-3d1c-4f0e-bb39-7d7c3c1c9a10", key(id))
}

func TestSecretMessageCache_SetGet(t *testing.T) {
	client := setupRedis(t)
	c := NewSecretMessageCache(client, time.Minute)
	ctx := context.Background()

	msg := &model.SecretMessage{ID: uuid.New(), Message: "hello"}
	t.Cleanup(func() { client.Del(ctx, key(msg.ID)) })

	require.NoError(t, c.Set(ctx, msg))

	got, err := c.Get(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, msg, got)

	ttl, err := client.TTL(ctx, key(msg.ID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestSecretMessageCache_Miss(t *testing.T) {
	client := setupRedis(t)
	c := NewSecretMessageCache(client, time.Minute)

	_, err := c.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSecretMessageCache_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	c := NewSecretMessageCache(client, time.Minute)

	_, err := c.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)

	err = c.Set(context.Background(), &model.SecretMessage{ID: uuid.New()})
	assert.Error(t, err)
}

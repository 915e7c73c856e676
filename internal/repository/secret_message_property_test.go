package repository

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/deppfellow/secretmessage/internal/errs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestPool connects to TEST_DATABASE_URL and recreates the schema.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("failed to ping database: %v", err)
	}

	schema := `
		DROP TABLE IF EXISTS secret_message;
		CREATE TABLE secret_message (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			message TEXT NOT NULL
		);`
	if _, err := pool.Exec(context.Background(), schema); err != nil {
		pool.Close()
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DELETE FROM secret_message")
		pool.Close()
	})

	return pool
}

// storableString generates text PostgreSQL accepts: valid UTF-8 without NUL bytes.
func storableString() gopter.Gen {
	return gen.AnyString().SuchThat(func(s string) bool {
		return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
	})
}

func TestSecretMessageRoundTrip(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewSecretMessageRepository(pool)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("lookup(insert(m).id).message == m", prop.ForAll(
		func(message string) bool {
			ctx := context.Background()

			created, err := repo.CreateSecretMessage(ctx, message)
			if err != nil {
				t.Logf("create failed: %v", err)
				return false
			}

			got, err := repo.GetSecretMessageByID(ctx, created.ID)
			if err != nil {
				t.Logf("lookup failed: %v", err)
				return false
			}

			return got.ID == created.ID && got.Message == message && created.Message == message
		},
		storableString(),
	))

	properties.TestingRun(t)
}

func TestSecretMessageUniqueIDs(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewSecretMessageRepository(pool)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("identical messages get distinct ids", prop.ForAll(
		func(message string) bool {
			ctx := context.Background()

			first, err := repo.CreateSecretMessage(ctx, message)
			if err != nil {
				return false
			}
			second, err := repo.CreateSecretMessage(ctx, message)
			if err != nil {
				return false
			}

			return first.ID != second.ID
		},
		storableString(),
	))

	properties.TestingRun(t)
}

// genSecretMessageID derives ids from generated bytes so failures shrink
// and replay from the seed.
func genSecretMessageID() gopter.Gen {
	return gen.SliceOfN(16, gen.UInt8()).Map(func(b []uint8) uuid.UUID {
		id, err := uuid.FromBytes(b)
		if err != nil {
			return uuid.Nil
		}
		return id
	})
}

func TestGenSecretMessageID_IsDeterministic(t *testing.T) {
	sample := func() uuid.UUID {
		params := gopter.DefaultGenParameters()
		params.Rng.Seed(42)
		result := genSecretMessageID()(params)
		id, ok := result.Retrieve()
		require.True(t, ok)
		return id.(uuid.UUID)
	}

	first := sample()
	assert.Equal(t, first, sample())
	assert.NotEqual(t, uuid.Nil, first)
}

func TestSecretMessageNotFound(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewSecretMessageRepository(pool)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("never inserted ids are not found", prop.ForAll(
		func(id uuid.UUID) bool {
			got, err := repo.GetSecretMessageByID(context.Background(), id)
			if got != nil {
				return false
			}

			httpErr, ok := err.(*errs.HTTPError)
			return ok && httpErr.Status == http.StatusNotFound
		},
		genSecretMessageID(),
	))

	properties.TestingRun(t)

	_, err := repo.GetSecretMessageByID(context.Background(), uuid.Nil)
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestSecretMessageEmptyMessage(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewSecretMessageRepository(pool)
	ctx := context.Background()

	created, err := repo.CreateSecretMessage(ctx, "")
	require.NoError(t, err)

	got, err := repo.GetSecretMessageByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Message)
}

func TestSecretMessageConcurrentCreates(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewSecretMessageRepository(pool)
	ctx := context.Background()

	const n = 50

	var wg sync.WaitGroup
	ids := make([]uuid.UUID, n)
	errCh := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := repo.CreateSecretMessage(ctx, fmt.Sprintf("message-%d", i))
			if err != nil {
				errCh <- err
				return
			}
			ids[i] = created.ID
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	seen := make(map[uuid.UUID]bool, n)
	for i, id := range ids {
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true

		got, err := repo.GetSecretMessageByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("message-%d", i), got.Message)
	}
}

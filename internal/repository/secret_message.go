package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/secretmessage/internal/model"
	"github.com/deppfellow/secretmessage/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Querier is the part of *pgxpool.Pool the repository needs.
//
// QueryRow borrows one pooled connection and releases it once the row is scanned.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	insertSecretMessageSQL = `
		INSERT INTO secret_message (message)
		VALUES ($1)
		RETURNING id, message`

	selectSecretMessageSQL = `
		SELECT id, message
		FROM secret_message
		WHERE id = $1`
)

type SecretMessageRepository struct {
	db Querier
}

func NewSecretMessageRepository(db Querier) *SecretMessageRepository {
	return &SecretMessageRepository{db: db}
}

// CreateSecretMessage inserts message and returns the stored row, including
// the id generated by the database. Failures are returned, never retried.
func (r *SecretMessageRepository) CreateSecretMessage(ctx context.Context, message string) (*model.SecretMessage, error) {
	row := r.db.QueryRow(ctx, insertSecretMessageSQL, message)

	secretMessage, err := scanSecretMessage(row)
	if err != nil {
		return nil, fmt.Errorf("failed to execute create secret message query: %w", err)
	}

	return secretMessage, nil
}

// GetSecretMessageByID returns the secret message stored under id.
//
// A missing row yields a 404 SECRET_MESSAGE_NOT_FOUND error.
func (r *SecretMessageRepository) GetSecretMessageByID(ctx context.Context, id uuid.UUID) (*model.SecretMessage, error) {
	row := r.db.QueryRow(ctx, selectSecretMessageSQL, id.String())

	secretMessage, err := scanSecretMessage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sqlerr.NotFoundError(model.SecretMessageTable)
		}
		return nil, fmt.Errorf("failed to get secret message by id=%s: %w", id, err)
	}

	return secretMessage, nil
}

// scanSecretMessage converts an (id, message) row into the domain record.
func scanSecretMessage(row pgx.Row) (*model.SecretMessage, error) {
	var (
		id      string
		message string
	)

	if err := row.Scan(&id, &message); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid secret message id %q: %w", id, err)
	}

	return &model.SecretMessage{
		ID:      parsed,
		Message: message,
	}, nil
}

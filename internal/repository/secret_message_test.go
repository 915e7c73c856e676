package repository

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/secretmessage/internal/errs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQuery = `(?s)^\s*INSERT\s+INTO\s+secret_message\s*\(message\)\s*VALUES\s*\(\$1\)\s*RETURNING\s+id,\s*message\s*$`
	selectQuery = `(?s)^\s*SELECT\s+id,\s*message\s+FROM\s+secret_message\s+WHERE\s+id\s*=\s*\$1\s*$`
)

func newRepoWithMock(t *testing.T) (*SecretMessageRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewSecretMessageRepository(mock), mock
}

func TestCreateSecretMessage_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectQuery(insertQuery).
		WithArgs("hello").
		WillReturnRows(pgxmock.NewRows([]string{"id", "message"}).AddRow(id.String(), "hello"))

	got, err := repo.CreateSecretMessage(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "hello", got.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSecretMessage_EmptyMessage(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectQuery(insertQuery).
		WithArgs("").
		WillReturnRows(pgxmock.NewRows([]string{"id", "message"}).AddRow(id.String(), ""))

	got, err := repo.CreateSecretMessage(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "", got.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSecretMessage_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQuery).
		WithArgs("hello").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.CreateSecretMessage(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute create secret message query")
	assert.Contains(t, err.Error(), "connection refused")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSecretMessageByID_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectQuery(selectQuery).
		WithArgs(id.String()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "message"}).AddRow(id.String(), "hello"))

	got, err := repo.GetSecretMessageByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "hello", got.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSecretMessageByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectQuery(selectQuery).
		WithArgs(id.String()).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetSecretMessageByID(context.Background(), id)
	assert.Nil(t, got)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "SECRET_MESSAGE_NOT_FOUND", httpErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSecretMessageByID_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectQuery(selectQuery).
		WithArgs(id.String()).
		WillReturnError(errors.New("db down"))

	_, err := repo.GetSecretMessageByID(context.Background(), id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, pgx.ErrNoRows)
	assert.Contains(t, err.Error(), id.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScanSecretMessage_InvalidID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQuery).
		WithArgs("x").
		WillReturnRows(pgxmock.NewRows([]string{"id", "message"}).AddRow("not-a-uuid", "x"))

	_, err := repo.CreateSecretMessage(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid secret message id")
}

package service

import (
	"context"
	"errors"

	"github.com/deppfellow/secretmessage/internal/lib/cache"
	"github.com/deppfellow/secretmessage/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SecretMessageStore is the persistence the service depends on.
type SecretMessageStore interface {
	CreateSecretMessage(ctx context.Context, message string) (*model.SecretMessage, error)
	GetSecretMessageByID(ctx context.Context, id uuid.UUID) (*model.SecretMessage, error)
}

// SecretMessageCache is an optional lookup cache in front of the store.
// Get must return cache.ErrMiss when the id is absent.
type SecretMessageCache interface {
	Get(ctx context.Context, id uuid.UUID) (*model.SecretMessage, error)
	Set(ctx context.Context, secretMessage *model.SecretMessage) error
}

type SecretMessageService struct {
	store  SecretMessageStore
	cache  SecretMessageCache
	logger *zerolog.Logger
}

// NewSecretMessageService wires the service. c may be nil to disable caching.
func NewSecretMessageService(store SecretMessageStore, c SecretMessageCache, logger *zerolog.Logger) *SecretMessageService {
	return &SecretMessageService{
		store:  store,
		cache:  c,
		logger: logger,
	}
}

// Create persists message and returns the stored record with its new id.
//
// The record is written through to the cache; a cache failure is logged and
// never fails the request.
func (s *SecretMessageService) Create(ctx context.Context, message string) (*model.SecretMessage, error) {
	secretMessage, err := s.store.CreateSecretMessage(ctx, message)
	if err != nil {
		return nil, err
	}

	s.remember(ctx, secretMessage)

	return secretMessage, nil
}

// Get returns the record with the given id, consulting the cache first.
func (s *SecretMessageService) Get(ctx context.Context, id uuid.UUID) (*model.SecretMessage, error) {
	if s.cache != nil {
		secretMessage, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			return secretMessage, nil
		case !errors.Is(err, cache.ErrMiss):
			s.log(ctx).Warn().Err(err).Str("secret_message_id", id.String()).Msg("secret message cache read failed")
		}
	}

	secretMessage, err := s.store.GetSecretMessageByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.remember(ctx, secretMessage)

	return secretMessage, nil
}

func (s *SecretMessageService) remember(ctx context.Context, secretMessage *model.SecretMessage) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, secretMessage); err != nil {
		s.log(ctx).Warn().Err(err).Str("secret_message_id", secretMessage.ID.String()).Msg("secret message cache write failed")
	}
}

// log prefers the request-scoped logger attached by the context enhancer.
func (s *SecretMessageService) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}

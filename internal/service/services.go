package service

import (
	"github.com/deppfellow/secretmessage/internal/lib/cache"
	"github.com/deppfellow/secretmessage/internal/repository"
	"github.com/deppfellow/secretmessage/internal/server"
)

type Services struct {
	SecretMessage *SecretMessageService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var secretMessageCache SecretMessageCache
	if s.Redis != nil {
		secretMessageCache = cache.NewSecretMessageCache(s.Redis, s.Config.Cache.TTL)
	}

	return &Services{
		SecretMessage: NewSecretMessageService(repos.SecretMessage, secretMessageCache, s.Logger),
	}, nil
}

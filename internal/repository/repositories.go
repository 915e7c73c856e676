package repository

import (
	"github.com/deppfellow/secretmessage/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	SecretMessage *SecretMessageRepository
}

// NewRepositories builds every repository on top of the shared pool held by s.DB.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		SecretMessage: NewSecretMessageRepository(s.DB.Pool),
	}
}

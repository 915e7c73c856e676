package handler

import (
	"github.com/deppfellow/secretmessage/internal/server"
	"github.com/deppfellow/secretmessage/internal/service"
)

// Handlers groups every HTTP handler so router setup receives one value.
type Handlers struct {
	Health        *HealthHandler
	OpenAPI       *OpenAPIHandler
	SecretMessage *SecretMessageHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:        NewHealthHandler(s),
		OpenAPI:       NewOpenAPIHandler(s),
		SecretMessage: NewSecretMessageHandler(s, services.SecretMessage),
	}
}

package handler

import (
	"context"

	"github.com/deppfellow/secretmessage/internal/errs"
	"github.com/deppfellow/secretmessage/internal/model"
	"github.com/deppfellow/secretmessage/internal/server"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SecretMessageService is what the HTTP layer needs from the service layer.
type SecretMessageService interface {
	Create(ctx context.Context, message string) (*model.SecretMessage, error)
	Get(ctx context.Context, id uuid.UUID) (*model.SecretMessage, error)
}

type SecretMessageHandler struct {
	Handler
	service SecretMessageService
}

func NewSecretMessageHandler(s *server.Server, service SecretMessageService) *SecretMessageHandler {
	return &SecretMessageHandler{
		Handler: NewHandler(s),
		service: service,
	}
}

// CreateSecretMessage stores payload.Message, which may be empty.
func (h *SecretMessageHandler) CreateSecretMessage(c echo.Context, payload *model.NewSecretMessage) (*model.SecretMessage, error) {
	return h.service.Create(c.Request().Context(), *payload.Message)
}

// GetSecretMessage looks a message up by the id in the path.
func (h *SecretMessageHandler) GetSecretMessage(c echo.Context, payload *model.GetSecretMessagePayload) (*model.SecretMessage, error) {
	id, err := payload.SecretMessageID()
	if err != nil {
		return nil, errs.NewBadRequestError("Validation failed", true, nil, []errs.FieldError{
			{Field: "id", Error: "must be a valid UUID"},
		}, nil)
	}

	return h.service.Get(c.Request().Context(), id)
}

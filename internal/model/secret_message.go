// Package model holds the domain records and the request payloads
// exchanged over HTTP.
package model

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SecretMessageTable is the relation secret messages are stored in.
const SecretMessageTable = "secret_message"

// SecretMessage is the persisted entity. Both fields are immutable once stored;
// ID is generated by the database on insert.
type SecretMessage struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}

// NewSecretMessage is the body of POST /secret.
//
// Message is a pointer so a missing or null field can be told apart from
// the empty string, which is a valid message.
type NewSecretMessage struct {
	Message *string `json:"message" validate:"required"`
}

func (p *NewSecretMessage) Validate() error {
	return validator.New().Struct(p)
}

// GetSecretMessagePayload carries the path parameter of GET /secret/:id.
//
// The id is only checked for presence here; SecretMessageID parses it, so
// any spelling uuid.Parse accepts (upper case, no hyphens) is looked up.
type GetSecretMessagePayload struct {
	ID string `param:"id" validate:"required"`
}

func (p *GetSecretMessagePayload) Validate() error {
	return validator.New().Struct(p)
}

// SecretMessageID parses the identifier.
func (p *GetSecretMessagePayload) SecretMessageID() (uuid.UUID, error) {
	return uuid.Parse(p.ID)
}

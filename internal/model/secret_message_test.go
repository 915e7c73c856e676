package model

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecretMessage_Validate(t *testing.T) {
	empty := ""
	assert.NoError(t, (&NewSecretMessage{Message: &empty}).Validate(), "empty message is valid")

	err := (&NewSecretMessage{}).Validate()
	require.Error(t, err)

	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Message", ve[0].Field())
	assert.Equal(t, "required", ve[0].Tag())
}

func TestNewSecretMessage_NullIsMissing(t *testing.T) {
	var p NewSecretMessage
	require.NoError(t, json.Unmarshal([]byte(`{"message":null}`), &p))
	assert.Error(t, p.Validate())
}

func TestGetSecretMessagePayload(t *testing.T) {
	id := uuid.New()
	p := &GetSecretMessagePayload{ID: id.String()}
	require.NoError(t, p.Validate())

	got, err := p.SecretMessageID()
	require.NoError(t, err)
	assert.Equal(t, id, got)

	assert.Error(t, (&GetSecretMessagePayload{}).Validate())

	_, err = (&GetSecretMessagePayload{ID: "not-a-uuid"}).SecretMessageID()
	assert.Error(t, err)
}

func TestGetSecretMessagePayload_AlternateSpellings(t *testing.T) {
	id := uuid.MustParse("0b6f4a4e-8b8e-4d3c-9a55-0f0c2f0f6a11")

	for _, spelling := range []string{
		"0B6F4A4E-8B8E-4D3C-9A55-0F0C2F0F6A11",
		"0b6f4a4e8b8e4d3c9a550f0c2f0f6a11",
	} {
		p := &GetSecretMessagePayload{ID: spelling}
		require.NoError(t, p.Validate(), spelling)

		got, err := p.SecretMessageID()
		require.NoError(t, err, spelling)
		assert.Equal(t, id, got, spelling)
	}
}

func TestSecretMessage_JSON(t *testing.T) {
	id := uuid.MustParse("0b6f4a4e-8b8e-4d3c-9a55-0f0c2f0f6a11")
	body, err := json.Marshal(SecretMessage{ID: id, Message: "hello"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"0b6f4a4e-8b8e-4d3c-9a55-0f0c2f0f6a11","message":"hello"}`, string(body))
}

package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/secretmessage/internal/errs"
	"github.com/deppfellow/secretmessage/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target, body, contentType string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func requireBadRequest(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	return httpErr
}

func TestBindAndValidate_ValidBody(t *testing.T) {
	c := newContext(http.MethodPost, "/secret", `{"message":"hi"}`, echo.MIMEApplicationJSON)

	payload := &model.NewSecretMessage{}
	require.NoError(t, BindAndValidate(c, payload))
	require.NotNil(t, payload.Message)
	assert.Equal(t, "hi", *payload.Message)
}

func TestBindAndValidate_EmptyMessageIsValid(t *testing.T) {
	c := newContext(http.MethodPost, "/secret", `{"message":""}`, echo.MIMEApplicationJSON)

	payload := &model.NewSecretMessage{}
	require.NoError(t, BindAndValidate(c, payload))
	require.NotNil(t, payload.Message)
	assert.Equal(t, "", *payload.Message)
}

func TestBindAndValidate_MissingMessage(t *testing.T) {
	c := newContext(http.MethodPost, "/secret", `{}`, echo.MIMEApplicationJSON)

	httpErr := requireBadRequest(t, BindAndValidate(c, &model.NewSecretMessage{}))
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "message", httpErr.Errors[0].Field)
	assert.Equal(t, "is required", httpErr.Errors[0].Error)
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	c := newContext(http.MethodPost, "/secret", `{"message":`, echo.MIMEApplicationJSON)

	httpErr := requireBadRequest(t, BindAndValidate(c, &model.NewSecretMessage{}))
	assert.NotEmpty(t, httpErr.Message)
	assert.Empty(t, httpErr.Errors)
}

func TestBindAndValidate_WrongType(t *testing.T) {
	c := newContext(http.MethodPost, "/secret", `{"message":42}`, echo.MIMEApplicationJSON)

	requireBadRequest(t, BindAndValidate(c, &model.NewSecretMessage{}))
}

func TestBindAndValidate_UnsupportedContentType(t *testing.T) {
	c := newContext(http.MethodPost, "/secret", `message=hi`, "text/plain")

	requireBadRequest(t, BindAndValidate(c, &model.NewSecretMessage{}))
}

func TestBindAndValidate_PathParam(t *testing.T) {
	c := newContext(http.MethodGet, "/secret/x", "", "")
	c.SetParamNames("id")

	c.SetParamValues("6f1c7a52-3d1c-4f0e-bb39-7d7c3c1c9a10")
	payload := &model.GetSecretMessagePayload{}
	require.NoError(t, BindAndValidate(c, payload))
	assert.Equal(t, "6f1c7a52-3d1c-4f0e-bb39-7d7c3c1c9a10", payload.ID)

	c.SetParamValues("")
	httpErr := requireBadRequest(t, BindAndValidate(c, &model.GetSecretMessagePayload{}))
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "id", httpErr.Errors[0].Field)
	assert.Equal(t, "is required", httpErr.Errors[0].Error)
}

type customPayload struct{}

func (customPayload) Validate() error {
	return CustomValidationErrors{{Field: "window", Message: "must end after it starts"}}
}

func TestExtractValidationError_Custom(t *testing.T) {
	msg, fieldErrors := validateStruct(customPayload{})

	assert.Equal(t, "Validation failed", msg)
	assert.Equal(t, []errs.FieldError{{Field: "window", Error: "must end after it starts"}}, fieldErrors)
}

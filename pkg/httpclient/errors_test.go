package httpclient

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sareehouse/storefront/pkg/errors"
)

func fakeResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseErrorMessageForm(t *testing.T) {
	err := ParseResponseError(fakeResponse(404, `{"message": "Product not found"}`), "catalog api")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Product not found", appErr.Message)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestParseResponseErrorEnvelopeForm(t *testing.T) {
	err := ParseResponseError(fakeResponse(400, `{"error": {"code": "BAD", "message": "price must be positive"}}`), "catalog api")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "price must be positive", appErr.Message)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestParseResponseErrorUnstructuredBody(t *testing.T) {
	err := ParseResponseError(fakeResponse(502, "<html>bad gateway</html>"), "catalog api")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "502")
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestParseResponseErrorStatusMapping(t *testing.T) {
	assert.ErrorIs(t, ParseResponseError(fakeResponse(401, `{"message":"x"}`), "catalog api"), apperrors.ErrUnauthorized)
	assert.ErrorIs(t, ParseResponseError(fakeResponse(403, `{"message":"x"}`), "catalog api"), apperrors.ErrForbidden)
	assert.ErrorIs(t, ParseResponseError(fakeResponse(409, `{"message":"x"}`), "catalog api"), apperrors.ErrConflict)
	assert.ErrorIs(t, ParseResponseError(fakeResponse(500, `{"message":"x"}`), "catalog api"), apperrors.ErrUnavailable)
}

package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/sareehouse/storefront/pkg/errors"
)

// upstreamError mirrors the error body shape returned by the catalog API.
// The backend emits either {"message": "..."} or the {"error": {...}}
// envelope depending on the route; both forms are accepted.
type upstreamError struct {
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads the body of a non-2xx response from the named
// upstream and translates it into an AppError. Server-reported messages are
// preserved verbatim so the UI can display them; an unstructured body falls
// back to a generic message carrying the status code.
//
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, upstream string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB cap
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", upstream, resp.StatusCode, err)
	}

	var ue upstreamError
	if json.Unmarshal(bodyBytes, &ue) == nil {
		if msg := upstreamMessage(ue); msg != "" {
			return mapUpstreamError(resp.StatusCode, msg)
		}
	}

	return mapUpstreamError(resp.StatusCode, fmt.Sprintf("%s returned status %d", upstream, resp.StatusCode))
}

func upstreamMessage(ue upstreamError) string {
	if ue.Error != nil && ue.Error.Message != "" {
		return ue.Error.Message
	}
	return ue.Message
}

// mapUpstreamError translates an upstream HTTP status into an AppError so
// the storefront surfaces the same failure class to its own callers.
func mapUpstreamError(status int, message string) error {
	switch {
	case status == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: message,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(message)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(message)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(message)
	case status == http.StatusConflict:
		return apperrors.Conflict(message)
	case status >= 500:
		return apperrors.Unavailable(message)
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: message,
			Status:  status,
		}
	}
}

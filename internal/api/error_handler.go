package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Code is
// the machine-readable form of the error for the Go client.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<code>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (404 from router, 401 from auth middleware, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Code: codeForStatus(he.Code)}
	}

	code := domain.ErrorCode(err)

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest, errorResponse{Error: err.Error(), Code: code}
	case errors.Is(err, domain.ErrInvalidPassword):
		return http.StatusUnauthorized, errorResponse{Error: "Invalid password", Code: code}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, errorResponse{Error: err.Error(), Code: code}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden", Code: code}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "User not found", Code: code}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error(), Code: code}
	case errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusConflict, errorResponse{Error: "Username already exists. Please choose another one.", Code: code}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, errorResponse{Error: err.Error(), Code: code}
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error(), Code: code}
	case errors.Is(err, domain.ErrSearchUnavailable):
		log.Warn().Err(err).Str("path", c.Path()).Msg("search provider failed")
		return http.StatusBadGateway, errorResponse{Error: "video search unavailable", Code: code}
	case errors.Is(err, domain.ErrStorageIO):
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("storage failure")
		return http.StatusInternalServerError, errorResponse{Error: "storage failure", Code: code}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: code}
}

// codeForStatus recovers a wire code for errors raised as plain echo.HTTPError.
func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorCode(domain.ErrMissingField)
	case http.StatusUnauthorized:
		return domain.ErrorCode(domain.ErrInvalidToken)
	case http.StatusForbidden:
		return domain.ErrorCode(domain.ErrForbidden)
	case http.StatusNotFound:
		return domain.ErrorCode(domain.ErrNotFound)
	case http.StatusRequestEntityTooLarge:
		return domain.ErrorCode(domain.ErrPayloadTooLarge)
	default:
		return ""
	}
}

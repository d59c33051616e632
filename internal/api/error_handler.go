package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
)

// errorResponse is the error envelope for every portal response.
type errorResponse struct {
	Error string `json:"error"`
}

const (
	msgInvalidCredentials = "Invalid email or password."
	msgAccessDenied       = "Access Denied: This web portal is for Caretakers and Family Members only. Please use the mobile app."
)

// NewHTTPErrorHandler maps domain errors to status codes and renders them as
// {"error": "..."}. Errors it does not recognise are logged and reported as 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden, msgAccessDenied
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, "Please sign in to continue."
	case errors.Is(err, domain.ErrConfirmationRequired):
		return http.StatusPreconditionRequired, "Please confirm this action by repeating it with confirm=true."
	case errors.Is(err, domain.ErrActionInFlight):
		return http.StatusConflict, "Another action is still in progress."
	case errors.Is(err, domain.ErrViewClosed):
		return http.StatusConflict, "The view was closed before the request finished."
	case errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordMismatch),
		errors.Is(err, domain.ErrRoleNotAllowed),
		errors.Is(err, domain.ErrInvalidResetCode):
		return http.StatusUnprocessableEntity, sentence(err)
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.UserMessage(err, "Not found.")
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.UserMessage(err, "You do not have access to this resource.")
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Your session is no longer valid. Please sign in again."
	case errors.Is(err, domain.ErrBackendRejected):
		return http.StatusBadRequest, domain.UserMessage(err, "The request was rejected.")
	case errors.Is(err, domain.ErrBackendUnavailable):
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend unavailable")
		return http.StatusBadGateway, "The service is temporarily unavailable. Please try again."
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "The request timed out. Please try again."
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// sentence capitalises a sentinel message for display.
func sentence(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	b := []byte(msg)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b) + "."
}

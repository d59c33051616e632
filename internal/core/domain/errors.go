package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccessDenied         = errors.New("access denied: this web portal is for caretakers and family members only, please use the mobile app")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrActionInFlight       = errors.New("another action is still in progress")
	ErrViewClosed           = errors.New("view closed")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrPasswordTooShort     = errors.New("password must be at least 8 characters")
	ErrRoleNotAllowed       = errors.New("role not allowed")
	ErrInvalidResetCode     = errors.New("reset code must be 6 digits")
	ErrInvalidInput         = errors.New("invalid input")

	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrBackendRejected    = errors.New("request rejected by backend")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// BackendError is a non-2xx answer from the REST backend. Message is the
// backend's own error text when it sent one.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend %d", e.Status)
}

// Unwrap classifies the status so callers can use errors.Is with the sentinels above.
func (e *BackendError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == 0 || e.Status >= http.StatusInternalServerError:
		return ErrBackendUnavailable
	default:
		return ErrBackendRejected
	}
}

// UserMessage returns the text to show for err: the backend's message when
// present, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var be *BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}

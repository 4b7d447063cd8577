package speech

import (
	"errors"
	"net/http"
)

var (
	// ErrSynthesize indicates the speech provider failed or rejected the request.
	ErrSynthesize = errors.New("speech synthesis failed")
	// ErrEmptyText indicates there is nothing to speak.
	ErrEmptyText = errors.New("text is empty")
	// ErrTextTooLong indicates the text exceeds the configured maximum length.
	ErrTextTooLong = errors.New("text exceeds maximum length")
	// ErrNotConfigured indicates no provider API key is configured.
	ErrNotConfigured = errors.New("speech provider not configured")
)

// MapHTTPStatus maps speech errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyText), errors.Is(err, ErrTextTooLong):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrSynthesize):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

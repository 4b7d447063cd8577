package analyses

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/vigil/pkg/speech"
	"github.com/JaimeStill/vigil/pkg/vision"
)

// Domain errors for analysis operations.
var (
	ErrNoImage           = errors.New("no image provided")
	ErrFileTooLarge      = errors.New("file exceeds maximum upload size")
	ErrInvalidFile       = errors.New("file is not an image")
	ErrTooManyImages     = errors.New("too many images in batch")
	ErrVisionUnavailable = errors.New("vision provider not configured")
)

// MapHTTPStatus maps analysis domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoImage),
		errors.Is(err, ErrInvalidFile),
		errors.Is(err, ErrTooManyImages),
		errors.Is(err, vision.ErrEmptyImage):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrVisionUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, vision.ErrAnnotate):
		return http.StatusBadGateway
	default:
		return speech.MapHTTPStatus(err)
	}
}

package situations

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/vigil/internal/assessment"
	"github.com/JaimeStill/vigil/pkg/storage"
)

// Domain errors for situation operations.
var (
	ErrNotFound     = errors.New("situation not found")
	ErrDuplicate    = errors.New("situation key already exists")
	ErrInvalid      = errors.New("invalid situation")
	ErrEmptyCatalog = errors.New("situation catalog is empty")
	ErrImportTooBig = errors.New("catalog document exceeds size limit")
)

// MapHTTPStatus maps situation domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrEmptyCatalog):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid),
		errors.Is(err, assessment.ErrInvalidCatalog),
		errors.Is(err, assessment.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, ErrImportTooBig):
		return http.StatusRequestEntityTooLarge
	default:
		return storage.MapHTTPStatus(err)
	}
}

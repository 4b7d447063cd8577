package vision

import "errors"

var (
	// ErrAnnotate indicates the vision service failed or rejected the request.
	ErrAnnotate = errors.New("vision annotation failed")
	// ErrEmptyImage indicates no image bytes were supplied.
	ErrEmptyImage = errors.New("image is empty")
)

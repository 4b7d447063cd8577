package assessment

import "errors"

// Errors are limited to building configuration; analysis itself never fails.
var (
	ErrInvalidCatalog    = errors.New("invalid catalog")
	ErrInvalidVocabulary = errors.New("invalid vocabulary")
	ErrUnknownFormat     = errors.New("unknown catalog format")
	ErrUnknownMatchMode  = errors.New("unknown match mode")
)

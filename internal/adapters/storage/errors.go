package storage

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrMissingPath   = errors.New("storage path required")
	ErrClosed        = errors.New("storage closed")
	ErrCorrupt       = errors.New("store file is not a JSON object")
)

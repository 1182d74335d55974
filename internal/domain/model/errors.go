package model

import "errors"

// Sentinel kinds for input validation.
var (
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrInvalidScore     = errors.New("invalid score")
	ErrInvalidRating    = errors.New("invalid rating")
)

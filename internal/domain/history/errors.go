package history

import "errors"

// Sentinel kinds for history errors.
var (
	ErrEncode  = errors.New("encode history")
	ErrDecode  = errors.New("decode history")
	ErrPersist = errors.New("persist history")
)

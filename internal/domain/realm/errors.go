package realm

import "errors"

// Sentinel kinds for reducer errors.
var (
	ErrNilAction     = errors.New("nil action")
	ErrUnknownAction = errors.New("unknown action")
)

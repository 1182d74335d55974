package worker

import "errors"

// ErrStopped answers commands the worker will never apply.
var ErrStopped = errors.New("dispatcher stopped")

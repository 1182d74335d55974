package service

import "errors"

// Sentinel kinds returned by the service.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrBackpressure = errors.New("dispatch queue full")
	// ErrPending means the caller stopped waiting after the action was
	// queued. The action may still be applied.
	ErrPending = errors.New("action queued but not confirmed")
)

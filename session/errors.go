package session

import "errors"

// Session store errors.
var (
	// ErrLockTimeout is returned when the cross-process lock could not
	// be acquired before the caller's deadline.
	ErrLockTimeout = errors.New("session lock timed out")
)

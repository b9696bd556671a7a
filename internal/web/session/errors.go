package session

import "errors"

// ErrSessionNotFound is returned when no session data exists for a session ID.
var ErrSessionNotFound = errors.New("session not found")

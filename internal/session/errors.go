package session

import "errors"

var (
	// ErrAuthFailed is the generic fallback when the backend supplies no
	// error detail for a failed login or registration.
	ErrAuthFailed = errors.New("Authentication failed")
	// ErrNotAuthenticated indicates an operation that requires a session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

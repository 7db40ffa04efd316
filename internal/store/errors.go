package store

import "errors"

var (
	// ErrNotFound indicates no session record is persisted.
	ErrNotFound = errors.New("session record not found")
	// ErrCorrupt indicates a persisted record that can no longer be decoded.
	ErrCorrupt = errors.New("session record corrupt")
)

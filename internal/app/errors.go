package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrUserInput marks a request the user can fix, such as submitting
	// without a loaded pool.
	ErrUserInput = errors.New("invalid input")
	// ErrBusy is returned when a submission is already outstanding.
	ErrBusy = errors.New("a lineup request is already running")
	// ErrNoLineups is returned by lineup operations before any result exists.
	ErrNoLineups = errors.New("no lineups generated yet")
	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when the session store is full.
	ErrTooManySessions = errors.New("too many open sessions")
	// ErrSavedNotFound is returned for unknown archive ids.
	ErrSavedNotFound = errors.New("saved lineup not found")
	// ErrArchiveDisabled is returned when no archive is configured.
	ErrArchiveDisabled = errors.New("lineup archive is not configured")
	// ErrNotStarted is returned when the service is used before Start.
	ErrNotStarted = errors.New("service not started")
)

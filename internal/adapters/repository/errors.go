package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound = errors.New("session not found")
	ErrExists   = errors.New("session id already in use")
	ErrFull     = errors.New("session store is full")
)

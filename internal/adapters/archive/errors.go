package archive

import "errors"

// Sentinel kinds for archive errors.
var (
	ErrNotFound          = errors.New("saved lineup not found")
	ErrInvalidLimit      = errors.New("invalid list limit")
	ErrUnsupportedDriver = errors.New("unsupported archive driver")
	ErrEmptyLineup       = errors.New("cannot save an empty lineup")
)

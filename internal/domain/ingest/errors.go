package ingest

import "errors"

// Sentinel kinds for ingestion failures. Row-level problems are warnings,
// not errors.
var (
	ErrNotText = errors.New("input is not readable as text")
	ErrRead    = errors.New("read input failed")
)

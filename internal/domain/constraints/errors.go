package constraints

import "errors"

// ErrInvalid marks a configuration the backend must never see.
var ErrInvalid = errors.New("constraints: invalid configuration")

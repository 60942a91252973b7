package stencil

import "errors"

// ErrInvalidImage marks input that cannot be processed: nil, empty, or
// zero-area. Out-of-range parameters are never an error; they are clamped.
var ErrInvalidImage = errors.New("invalid image")

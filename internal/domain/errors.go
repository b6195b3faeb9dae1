package domain

import "errors"

// ErrInvalidInput marks malformed caller input (bounding box, parameter
// codes) rejected before any remote request is issued.
var ErrInvalidInput = errors.New("invalid input")

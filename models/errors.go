package models

import "errors"

// ErrInvalidRequest is returned by [Request.Validate] for malformed requests.
var ErrInvalidRequest = errors.New("invalid request")

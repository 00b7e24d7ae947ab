package adapter

import "errors"

var (
	// ErrUnsupported is returned by optional operations the remote source
	// does not implement.
	ErrUnsupported = errors.New("operation not supported by remote")

	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")
	ErrUnexpectedStatus    = errors.New("unexpected status")

	// ErrInvalidAddress is returned when the configured server address
	// cannot be turned into a base URL.
	ErrInvalidAddress = errors.New("invalid server address")
	// ErrNoSession is returned by stream operations before the server sent
	// its hello frame.
	ErrNoSession = errors.New("realtime session not established")
)

package server

import "context"

// Server is a transport server managed by this package.
type Server interface {
	// RunServer serves until a stop signal arrives.
	RunServer()

	// Run serves until ctx is done, then shuts down gracefully.
	Run(ctx context.Context) error
}

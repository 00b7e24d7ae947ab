// Package server runs the reference sync server's HTTP transport.
//
// It owns the listener lifecycle: serving, stopping on SIGTERM, SIGINT or
// SIGQUIT, and draining in-flight requests before exit.
package server

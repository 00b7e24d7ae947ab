// Package utils provides helpers shared by the client and the server:
// typed context keys, JSON responses, the resty based HTTP client, JWT
// handling and identifier generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// ClientIDCtxKey stores the authenticated client id in a request context.
var ClientIDCtxKey = contextKey("clientID")

// WithClientID returns a copy of ctx carrying clientID.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ClientIDCtxKey, clientID)
}

// GetClientIDFromContext returns the client id stored under
// [ClientIDCtxKey]. ok is false when it is missing or empty.
func GetClientIDFromContext(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(ClientIDCtxKey).(string)
	return clientID, ok && clientID != ""
}

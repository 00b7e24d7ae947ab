package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT issued to a sync client.
//
// The "sub" claim names the client; realtime sessions and server logs are
// keyed by it.
type Token struct {
	// Token is the parsed JWT. Not serialized.
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS form sent in the Authorization header.
	SignedString string `json:"-"`

	// ClientID is the parsed subject claim.
	ClientID string `json:"-"`
}

// GetClientID returns the subject claim or an error when it is empty.
func (t *Token) GetClientID() (string, error) {
	sub, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting client id from token: %w", err)
	}
	if sub == "" {
		return "", errors.New("empty subject in token")
	}
	return sub, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}

// TokenRequest asks the server for a token for ClientID.
type TokenRequest struct {
	ClientID string `json:"client_id"`
}

// TokenResponse carries an issued token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

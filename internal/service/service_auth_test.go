package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-gravity/internal/config"
	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService() AuthService {
	return NewAuthService(config.ServerApp{
		TokenSignKey:  "sign-key",
		TokenIssuer:   "go-gravity",
		TokenDuration: time.Hour,
	}, logger.Nop())
}

func TestAuthService_CreateAndParse(t *testing.T) {
	svc := newTestAuthService()

	token, err := svc.CreateToken(context.Background(), " laptop-1 ")
	require.NoError(t, err)
	assert.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(context.Background(), token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, "laptop-1", parsed.ClientID)
}

func TestAuthService_CreateToken_EmptyClient(t *testing.T) {
	_, err := newTestAuthService().CreateToken(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_CreateToken_Misconfigured(t *testing.T) {
	svc := NewAuthService(config.ServerApp{TokenIssuer: "go-gravity", TokenDuration: time.Hour}, logger.Nop())

	_, err := svc.CreateToken(context.Background(), "c")
	assert.ErrorIs(t, err, ErrTokenCreationFailed)
}

func TestAuthService_ParseToken_Invalid(t *testing.T) {
	svc := newTestAuthService()
	other := NewAuthService(config.ServerApp{
		TokenSignKey:  "other-key",
		TokenIssuer:   "go-gravity",
		TokenDuration: time.Hour,
	}, logger.Nop())

	foreign, err := other.CreateToken(context.Background(), "c")
	require.NoError(t, err)

	for _, raw := range []string{"", "garbage", foreign.SignedString} {
		_, err := svc.ParseToken(context.Background(), raw)
		assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
	}
}

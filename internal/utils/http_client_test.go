package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(3 * time.Second)
	require.NotNil(t, client)
	require.NotNil(t, client.Client)
	assert.Equal(t, 3*time.Second, client.GetClient().Timeout)
	assert.NotNil(t, client.R())
}

func TestNewHTTPClient_NoTimeout(t *testing.T) {
	client := NewHTTPClient(0)
	assert.Zero(t, client.GetClient().Timeout)
}

func TestNewHTTPClient_Independence(t *testing.T) {
	assert.NotSame(t, NewHTTPClient(0).Client, NewHTTPClient(0).Client)
}

func TestUUIDGenerator_Generate(t *testing.T) {
	g := NewUUIDGenerator()
	a, b := g.Generate(), g.Generate()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

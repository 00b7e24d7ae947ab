// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKeyString(t *testing.T) {
	assert.Equal(t, "testKey", contextKey("testKey").String())
	assert.Equal(t, "clientID", ClientIDCtxKey.String())
}

func TestGetClientIDFromContext(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		wantID string
		wantOK bool
	}{
		{"stored", WithClientID(context.Background(), "laptop-1"), "laptop-1", true},
		{"missing", context.Background(), "", false},
		{"empty", WithClientID(context.Background(), ""), "", false},
		{"wrong type", context.WithValue(context.Background(), ClientIDCtxKey, 42), "", false},
		{"plain string key does not collide", context.WithValue(context.Background(), "clientID", "x"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := GetClientIDFromContext(tt.ctx)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

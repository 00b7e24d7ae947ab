package service

import (
	"encoding/json"
	"testing"

	"github.com/MKhiriev/go-gravity/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"number", "42", "42", false},
		{"string", `"a"`, `"a"`, false},
		{"spaced object", `{ "k" : 1 }`, `{"k":1}`, false},
		{"null", "null", "", true},
		{"malformed", "{", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalID(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDataProvided)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEntityID(t *testing.T) {
	id, err := EntityID(json.RawMessage(`{"id": 7, "title": "x"}`))
	require.NoError(t, err)
	assert.Equal(t, "7", id)

	_, err = EntityID(json.RawMessage(`{"title":"x"}`))
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = EntityID(json.RawMessage(`[1]`))
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    models.Request[string]
		wantErr bool
	}{
		{"all", `{"kind":"all"}`, models.All[string](), false},
		{"all ignores ids", `{"kind":"all","ids":[1]}`, models.All[string](), false},
		{"numeric ids", `{"kind":"ids","ids":[2,1,2]}`, models.IDs("2", "1"), false},
		{"string id", `{"kind":"id","ids":["a"]}`, models.One(`"a"`), false},
		{"empty ids", `{"kind":"ids"}`, models.IDs[string](), false},
		{"single id with two", `{"kind":"id","ids":[1,2]}`, models.Request[string]{}, true},
		{"unknown kind", `{"kind":"some"}`, models.Request[string]{}, true},
		{"null id", `{"kind":"ids","ids":[null]}`, models.Request[string]{}, true},
		{"not json", `nope`, models.Request[string]{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDataProvided)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

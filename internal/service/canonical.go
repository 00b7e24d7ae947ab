package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-gravity/models"
)

// CanonicalID returns the compact JSON text of an identifier. The server
// compares identifiers of any JSON type through this form.
func CanonicalID(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", fmt.Errorf("%w: malformed id: %w", ErrInvalidDataProvided, err)
	}
	if buf.Len() == 0 || buf.String() == "null" {
		return "", fmt.Errorf("%w: empty id", ErrInvalidDataProvided)
	}
	return buf.String(), nil
}

// EntityID extracts the canonical "id" field of an entity payload.
func EntityID(payload json.RawMessage) (string, error) {
	var head struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return "", fmt.Errorf("%w: entity is not an object: %w", ErrInvalidDataProvided, err)
	}
	if head.ID == nil {
		return "", fmt.Errorf("%w: entity has no id", ErrInvalidDataProvided)
	}
	return CanonicalID(head.ID)
}

// ParseRequest decodes a request whose identifiers may be any JSON value
// and returns it with canonical identifiers.
func ParseRequest(data []byte) (models.Request[string], error) {
	var wire struct {
		Kind models.RequestKind `json:"kind"`
		IDs  []json.RawMessage  `json:"ids"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return models.Request[string]{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	req := models.Request[string]{Kind: wire.Kind}
	if wire.Kind != models.KindAll {
		ids, err := CanonicalIDs(wire.IDs)
		if err != nil {
			return models.Request[string]{}, err
		}
		req.IDs = ids
	}

	if err := req.Validate(); err != nil {
		return models.Request[string]{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if req.Kind == models.KindIDs {
		req = models.IDs(req.IDs...)
	}
	return req, nil
}

// CanonicalIDs converts every identifier with [CanonicalID].
func CanonicalIDs(raw []json.RawMessage) ([]string, error) {
	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		id, err := CanonicalID(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package adapter

import (
	"cmp"
	"context"

	"github.com/MKhiriev/go-gravity/models"
)

// Base implements the optional parts of [RemoteDelegate]. Embed it and
// provide Pull and Push:
//
//	type notesDelegate struct {
//	    adapter.Base[string, models.Note]
//	}
type Base[ID cmp.Ordered, E models.Entity[ID]] struct{}

// Pop reports [ErrUnsupported].
func (Base[ID, E]) Pop(context.Context, []E) error {
	return ErrUnsupported
}

// Process returns entities unchanged.
func (Base[ID, E]) Process(entities []E, _ models.Request[ID]) []E {
	return entities
}

// Connect reports that no realtime channel exists.
func (Base[ID, E]) Connect(context.Context, bool) models.ConnectStatus {
	return models.ConnectUnsupported
}

// Subscribe never acknowledges.
func (Base[ID, E]) Subscribe(context.Context, models.Request[ID]) bool {
	return false
}

// Unsubscribe does nothing.
func (Base[ID, E]) Unsubscribe(context.Context, models.Request[ID]) {}

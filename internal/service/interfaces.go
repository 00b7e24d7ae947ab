package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-gravity/internal/store"
	"github.com/MKhiriev/go-gravity/models"
)

// Triggerer schedules a sync after a delay.
type Triggerer interface {
	Trigger(delay time.Duration) bool
}

// SyncScheduler is the trigger surface the coordinator needs from a
// [Scheduler].
type SyncScheduler interface {
	Triggerer
	Stop()
	Wait()
}

// EntityService is the server side of the sync protocol. Entities are kept
// as raw JSON; identifiers are the canonical JSON text of the "id" field.
type EntityService interface {
	// Pull returns the entities of kind selected by req. The ids in req
	// are canonical.
	Pull(ctx context.Context, kind string, req models.Request[string]) ([]json.RawMessage, error)

	// Push stores entities and announces them to subscribers.
	Push(ctx context.Context, kind string, entities []json.RawMessage) error

	// Pop deletes entities by canonical id and announces the ones that
	// existed.
	Pop(ctx context.Context, kind string, ids []string) error
}

// AuthService issues and checks bearer tokens for clients.
type AuthService interface {
	CreateToken(ctx context.Context, clientID string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// Publisher receives changes committed by an [EntityService].
type Publisher interface {
	PublishUpsert(kind string, entities []store.RawEntity)
	PublishDelete(kind string, ids []string)
}

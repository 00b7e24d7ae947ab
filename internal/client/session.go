package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-gravity/internal/store"
)

// session is the token saved by the login command.
type session struct {
	ClientID  string    `json:"client_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func sessionReference(reference string) string {
	return reference + "-session"
}

func (s session) valid(now time.Time) bool {
	return s.Token != "" && (s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt))
}

// loadSession returns the saved session. A missing session is not an
// error.
func loadSession(ctx context.Context, snapshots store.SnapshotStore, reference string) (session, bool, error) {
	s, err := store.LoadSnapshot[session](ctx, snapshots, sessionReference(reference))
	switch {
	case errors.Is(err, store.ErrSnapshotNotFound):
		return session{}, false, nil
	case err != nil:
		return session{}, false, fmt.Errorf("error loading session: %w", err)
	}
	return s, true, nil
}

func saveSession(ctx context.Context, snapshots store.SnapshotStore, reference string, s session) error {
	if err := store.SaveSnapshot(ctx, snapshots, sessionReference(reference), s); err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/MKhiriev/go-gravity/internal/store"
	"github.com/MKhiriev/go-gravity/models"
)

// entityService is the concrete implementation of EntityService.
type entityService struct {
	repository store.EntityRepository
	publisher  Publisher
	logger     *logger.Logger
}

// NewEntityService returns an EntityService persisting to repository and
// announcing committed changes to publisher.
func NewEntityService(repository store.EntityRepository, publisher Publisher, logger *logger.Logger) EntityService {
	return &entityService{
		repository: repository,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *entityService) Pull(ctx context.Context, kind string, req models.Request[string]) ([]json.RawMessage, error) {
	log := logger.FromContext(ctx)

	if err := validateKind(kind); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if req.IsEmpty() {
		return []json.RawMessage{}, nil
	}

	// Keys is nil for All, which the repository reads as "every entity"
	found, err := s.repository.Get(ctx, kind, req.Keys())
	if err != nil {
		log.Err(err).Str("kind", kind).Stringer("request", req).Msg("error reading entities")
		return nil, fmt.Errorf("error reading entities: %w", err)
	}

	out := make([]json.RawMessage, 0, len(found))
	for _, e := range found {
		out = append(out, e.Payload)
	}
	return out, nil
}

func (s *entityService) Push(ctx context.Context, kind string, entities []json.RawMessage) error {
	log := logger.FromContext(ctx)

	if err := validateKind(kind); err != nil {
		return err
	}
	if len(entities) == 0 {
		return nil
	}

	raw := make([]store.RawEntity, 0, len(entities))
	for _, payload := range entities {
		id, err := EntityID(payload)
		if err != nil {
			log.Error().Err(err).Str("kind", kind).Msg("rejected entity without usable id")
			return err
		}
		raw = append(raw, store.RawEntity{ID: id, Payload: payload})
	}

	if err := s.repository.Upsert(ctx, kind, raw); err != nil {
		log.Err(err).Str("kind", kind).Int("count", len(raw)).Msg("error storing entities")
		return fmt.Errorf("error storing entities: %w", err)
	}

	s.publisher.PublishUpsert(kind, raw)
	return nil
}

func (s *entityService) Pop(ctx context.Context, kind string, ids []string) error {
	log := logger.FromContext(ctx)

	if err := validateKind(kind); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	deleted, err := s.repository.Delete(ctx, kind, ids)
	if err != nil {
		log.Err(err).Str("kind", kind).Strs("ids", ids).Msg("error deleting entities")
		return fmt.Errorf("error deleting entities: %w", err)
	}

	if len(deleted) > 0 {
		s.publisher.PublishDelete(kind, deleted)
	}
	return nil
}

func validateKind(kind string) error {
	if strings.TrimSpace(kind) == "" {
		return fmt.Errorf("%w: empty entity kind", ErrInvalidDataProvided)
	}
	return nil
}

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/go-gravity/internal/service"
	"github.com/MKhiriev/go-gravity/internal/utils"
	"github.com/MKhiriev/go-gravity/models"
	"github.com/go-chi/chi/v5"
)

// pull answers a request with every stored entity of kind it selects.
func (h *Handler) pull(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		fail(w, r, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err), "error reading pull body")
		return
	}

	req, err := service.ParseRequest(body)
	if err != nil {
		fail(w, r, err, "invalid pull request")
		return
	}

	entities, err := h.services.EntityService.Pull(r.Context(), kind, req)
	if err != nil {
		fail(w, r, err, "pull failed")
		return
	}

	_, _ = utils.WriteJSON(w, models.PullResponse[json.RawMessage]{Entities: entities, Length: len(entities)}, http.StatusOK)
}

// push stores the entities in the body.
func (h *Handler) push(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	var req models.PushRequest[json.RawMessage]
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		fail(w, r, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err), "invalid push body")
		return
	}

	if err := h.services.EntityService.Push(r.Context(), kind, req.Entities); err != nil {
		fail(w, r, err, "push failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pop deletes the entities named in the body. Unknown ids are ignored.
func (h *Handler) pop(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	var req models.PopRequest[json.RawMessage]
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		fail(w, r, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err), "invalid pop body")
		return
	}

	ids, err := service.CanonicalIDs(req.IDs)
	if err != nil {
		fail(w, r, err, "invalid id in pop body")
		return
	}

	if err = h.services.EntityService.Pop(r.Context(), kind, ids); err != nil {
		fail(w, r, err, "pop failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

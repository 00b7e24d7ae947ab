// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/MKhiriev/go-gravity/internal/utils"
	"github.com/MKhiriev/go-gravity/models"
)

// createToken issues a bearer token for the client id in the body.
func (h *Handler) createToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.TokenRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.AuthService.CreateToken(r.Context(), req.ClientID)
	if err != nil {
		fail(w, r, err, "token creation failed")
		return
	}

	var expiresAt time.Time
	if token.ExpiresAt != nil {
		expiresAt = token.ExpiresAt.Time
	}

	log.Debug().Str("client_id", token.ClientID).Time("expires_at", expiresAt).Msg("token issued")

	w.Header().Set("Authorization", "Bearer "+token.SignedString)
	_, _ = utils.WriteJSON(w, models.TokenResponse{Token: token.SignedString, ExpiresAt: expiresAt}, http.StatusOK)
}

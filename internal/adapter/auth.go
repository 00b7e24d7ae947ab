package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-gravity/models"
)

// Login asks the server for a token issued to clientID with
// POST /api/auth/token and uses it for every following call.
func (h *HTTPDelegate[ID, E]) Login(ctx context.Context, clientID string) (models.TokenResponse, error) {
	if strings.TrimSpace(clientID) == "" {
		return models.TokenResponse{}, fmt.Errorf("%w: empty client id", ErrBadRequest)
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.TokenRequest{ClientID: clientID}).
		Post("/api/auth/token")
	if err != nil {
		return models.TokenResponse{}, fmt.Errorf("token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenResponse{}, err
	}

	var tr models.TokenResponse
	if err = json.Unmarshal(resp.Body(), &tr); err != nil {
		return models.TokenResponse{}, fmt.Errorf("decode token response: %w", err)
	}
	if tr.Token == "" {
		return models.TokenResponse{}, fmt.Errorf("%w: empty token", ErrUnexpectedStatus)
	}

	h.SetToken(tr.Token)
	return tr, nil
}

package handler

import (
	"github.com/MKhiriev/go-gravity/internal/config"
	"github.com/MKhiriev/go-gravity/internal/handler/http"
	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/MKhiriev/go-gravity/internal/service"
)

// Handlers groups the transports the server exposes.
type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.ServerConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Server.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{HTTP: http.NewHandler(services, cfg, logger)}, nil
}

package http

import (
	"time"

	"github.com/MKhiriev/go-gravity/internal/config"
	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/MKhiriev/go-gravity/internal/service"
)

// maxBodyBytes caps request bodies of the entity routes.
const maxBodyBytes = 8 << 20

type Handler struct {
	services *service.Services

	version        string
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.ServerConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		version:        cfg.App.Version,
		requestTimeout: cfg.Server.RequestTimeout,
		logger:         logger,
	}
}

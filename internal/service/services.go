package service

import (
	"github.com/MKhiriev/go-gravity/internal/config"
	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/MKhiriev/go-gravity/internal/store"
)

// Services bundles the reference server's services.
type Services struct {
	AuthService   AuthService
	EntityService EntityService
	Hub           *Hub
}

func NewServices(storages *store.Storages, cfg config.ServerConfig, logger *logger.Logger) *Services {
	hub := NewHub(logger)
	return &Services{
		AuthService:   NewAuthService(cfg.App, logger),
		EntityService: NewEntityService(storages.EntityRepository, hub, logger),
		Hub:           hub,
	}
}

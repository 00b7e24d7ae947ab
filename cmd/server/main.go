package main

import (
	"context"
	"os"

	"github.com/MKhiriev/go-gravity/internal/config"
	"github.com/MKhiriev/go-gravity/internal/handler"
	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/MKhiriev/go-gravity/internal/server"
	"github.com/MKhiriev/go-gravity/internal/service"
	"github.com/MKhiriev/go-gravity/internal/store"
	"github.com/MKhiriev/go-gravity/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	buildInfo.Print(os.Stdout)

	log := logger.NewLogger("gravity-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if buildInfo.Known() && cfg.App.Version == config.DefaultServerVersion {
		cfg.App.Version = buildInfo.Version
	}

	log.Debug().Str("address", cfg.Server.HTTPAddress).Str("version", cfg.App.Version).Msg("received configs")

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Error().Err(err).Msg("error closing storages")
		}
	}()

	services := service.NewServices(storages, *cfg, log)

	handlers, err := handler.NewHandlers(services, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, *cfg, log, services.Hub.CloseAll)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

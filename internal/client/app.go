package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/MKhiriev/go-gravity/internal/adapter"
	"github.com/MKhiriev/go-gravity/internal/config"
	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/MKhiriev/go-gravity/internal/realtime"
	"github.com/MKhiriev/go-gravity/internal/service"
	"github.com/MKhiriev/go-gravity/internal/store"
	"github.com/MKhiriev/go-gravity/internal/utils"
	"github.com/MKhiriev/go-gravity/internal/validators"
	"github.com/MKhiriev/go-gravity/models"
)

type App struct {
	cfg     *config.ClientConfig
	command string
	args    []string

	snapshots    store.SnapshotStore
	closeStorage func() error

	remote   Remote
	notes    *service.Coordinator[string, models.Note]
	realtime *realtime.Controller[string]
	monitor  *realtime.NetworkMonitor
	syncJob  *service.SyncJob

	// live is the selection watch subscribes to. Realtime updates are
	// folded in under it.
	live models.Request[string]

	validator validators.Validator

	outMu  sync.Mutex
	out    io.Writer
	errOut io.Writer
	ids    *utils.UUIDGenerator
	now    func() time.Time

	logger *logger.Logger
}

var _ Client = (*App)(nil)

// NewApp opens the local storage, the HTTP delegate and the notes
// coordinator for the command in cfg.Args.
func NewApp(ctx context.Context, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	remote, err := adapter.NewHTTPDelegate[string, models.Note](cfg.App.Reference, cfg.Adapter, logger)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create remote delegate: %w", err), storages.Close())
	}

	app, err := newApp(ctx, cfg, storages.Snapshots, remote, logger)
	if err != nil {
		remote.Close()
		return nil, errors.Join(err, storages.Close())
	}
	app.closeStorage = storages.Close

	return app, nil
}

func newApp(ctx context.Context, cfg *config.ClientConfig, snapshots store.SnapshotStore, remote Remote, logger *logger.Logger) (*App, error) {
	command, args := splitCommand(cfg.Args)
	if _, ok := commands[command]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}

	a := &App{
		cfg:          cfg,
		command:      command,
		args:         args,
		snapshots:    snapshots,
		closeStorage: func() error { return nil },
		remote:       remote,
		live:         models.All[string](),
		out:          os.Stdout,
		errOut:       os.Stderr,
		validator:    validators.NewNoteValidator(),
		ids:          utils.NewUUIDGenerator(),
		now:          time.Now,
		logger:       logger,
	}

	notes, err := a.openNotes(ctx)
	if err != nil {
		return nil, err
	}
	a.notes = notes

	remote.SetUpdateHandler(a.applyRemote)
	a.realtime = realtime.NewController[string](remote, cfg.Realtime, logger)
	if target := realtime.ProbeTarget(cfg.Realtime.ProbeAddress); target != "" {
		monitor, err := realtime.NewNetworkMonitor(target, cfg.Realtime.ProbeInterval, a.realtime, logger)
		if err != nil {
			logger.Warn().Err(err).Str("func", "newApp").Str("address", target).Msg("network monitor disabled")
		} else {
			a.monitor = monitor
		}
	}
	a.syncJob = service.NewSyncJob(notes, cfg.Workers.SyncInterval, logger)

	if err = a.restoreSession(ctx); err != nil {
		logger.Warn().Err(err).Str("func", "newApp").Msg("saved session ignored")
	}

	return a, nil
}

// openNotes restores the coordinator. A corrupted snapshot has been deleted
// by the first attempt, so the second one starts empty.
func (a *App) openNotes(ctx context.Context) (*service.Coordinator[string, models.Note], error) {
	opts := []service.CoordinatorOption{
		service.WithCacheLimits(a.cfg.Cache.EntryLifetime, a.cfg.Cache.MaxEntries),
		service.WithPullBatchSize(a.cfg.Adapter.PullBatchSize),
		service.WithLogger(a.logger),
	}
	if a.command != cmdWatch {
		opts = append(opts, service.WithScheduler(func(func(context.Context) error) service.SyncScheduler {
			return manualScheduler{}
		}))
	}

	notes, err := service.NewCoordinator[string, models.Note](ctx, a.cfg.App.Reference, a.remote, a.snapshots, opts...)
	if errors.Is(err, store.ErrSnapshotCorrupted) {
		a.logger.Warn().Err(err).Str("func", "*App.openNotes").Msg("local cache was corrupted and has been reset")
		notes, err = service.NewCoordinator[string, models.Note](ctx, a.cfg.App.Reference, a.remote, a.snapshots, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("open notes cache: %w", err)
	}
	return notes, nil
}

// restoreSession applies the token saved by login unless one is
// configured.
func (a *App) restoreSession(ctx context.Context) error {
	if a.cfg.Adapter.Token != "" {
		return nil
	}

	s, ok, err := loadSession(ctx, a.snapshots, a.cfg.App.Reference)
	if err != nil || !ok {
		return err
	}
	if !s.valid(a.now()) {
		a.logger.Info().Str("func", "*App.restoreSession").Str("client_id", s.ClientID).Msg("saved session expired, run login")
		return nil
	}

	a.remote.SetToken(s.Token)
	return nil
}

// Run executes the command.
func (a *App) Run(ctx context.Context) error {
	a.logger.Debug().Str("command", a.command).Strs("args", a.args).Msg("running command")
	return commands[a.command](a, ctx)
}

// Close checkpoints the cache and closes the delegate and the storage.
func (a *App) Close(ctx context.Context) error {
	err := a.notes.Close(ctx)
	a.remote.Close()
	return errors.Join(err, a.closeStorage())
}

// applyRemote folds realtime updates into the cache.
func (a *App) applyRemote(upserted []models.Note, deleted []string) {
	if len(upserted) > 0 {
		a.notes.Apply(upserted, a.live)
	}
	if len(deleted) > 0 {
		a.notes.ApplyRemoval(deleted)
	}

	for _, n := range upserted {
		a.printf("remote update  %s  %s\n", n.ID, n.Title)
	}
	for _, id := range deleted {
		a.printf("remote delete  %s\n", id)
	}
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *App) warnf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	_, _ = fmt.Fprintf(a.errOut, "warning: "+format+"\n", args...)
}

func splitCommand(args []string) (string, []string) {
	if len(args) == 0 {
		return cmdList, nil
	}
	return args[0], args[1:]
}

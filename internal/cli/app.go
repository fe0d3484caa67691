package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/social-battery/internal/config"
	"github.com/example/social-battery/internal/notify"
	"github.com/example/social-battery/internal/persistence"
	"github.com/example/social-battery/internal/persistence/jsonfile"
	"github.com/example/social-battery/internal/persistence/sqlite"
	"github.com/example/social-battery/internal/remote"
	"github.com/example/social-battery/internal/social"
	"github.com/example/social-battery/internal/tasks"
)

// app bundles the collaborators every command needs.
type app struct {
	cfg    config.Config
	store  *social.Store
	remote social.RemoteClient
	runner *tasks.Runner
	logger *slog.Logger
	closer func() error
}

// newApp loads configuration, opens the selected snapshot backend and
// restores the store.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.Default()
	runner := tasks.NewRunner(logger)

	var repo persistence.SnapshotRepository
	closer := func() error { return nil }
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		sqlRepo, err := sqlite.Open(cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		repo = sqlRepo
		closer = sqlRepo.Close
	default:
		repo = jsonfile.New(cfg.Storage.Path)
	}

	var remoteClient social.RemoteClient
	if cfg.Remote.BaseURL != "" {
		remoteClient = remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.AuthToken)
	}

	var notifier notify.Notifier
	if cfg.Notify.PushoverToken != "" && cfg.Notify.PushoverUser != "" {
		notifier = notify.NewPushoverNotifier(cfg.Notify.PushoverToken, cfg.Notify.PushoverUser)
	} else {
		notifier = notify.NewLogNotifier(logger)
	}

	store := social.NewStoreWithLogger(repo, remoteClient, notifier, runner, uuid.NewString, time.Now, logger)
	store.Load(ctx)

	return &app{
		cfg:    cfg,
		store:  store,
		remote: remoteClient,
		runner: runner,
		logger: logger,
		closer: closer,
	}, nil
}

// close drains outstanding background tasks and releases the storage
// backend. Tasks still running after the grace period are abandoned.
func (a *app) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.runner.Wait(ctx); err != nil {
		a.logger.Warn("background tasks still running at shutdown", "error", err)
	}
	return a.closer()
}

// Package app assembles the logger, storage backend and engine shared by
// the binaries.
package app

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/JamesPrial/gift-tracker/internal/config"
	"github.com/JamesPrial/gift-tracker/internal/gift"
	"github.com/JamesPrial/gift-tracker/internal/logging"
	"github.com/JamesPrial/gift-tracker/internal/storage"
)

// App holds the wired components shared by the binaries.
type App struct {
	Config  config.Config
	Logger  *zap.Logger
	Backend storage.StorageBackend
	Store   *gift.Store
	Engine  *gift.Engine
}

// Open builds an App from cfg. Extra engine options are applied after the
// configured seeder and logger.
func Open(cfg config.Config, opts ...gift.Option) (*App, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	backend, err := storage.GetStorageBackend(cfg.DataDir)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	logger.Debug("storage ready",
		zap.String("backend", storage.BackendType()),
		zap.String("data_dir", cfg.DataDir),
	)

	store := gift.NewStore(backend, logger)
	engineOpts := append([]gift.Option{
		gift.WithSeeder(cfg.Seeder()),
		gift.WithLogger(logger),
	}, opts...)
	engine, err := gift.Open(store, engineOpts...)
	if err != nil {
		_ = storage.CloseBackend(backend)
		_ = logger.Sync()
		return nil, err
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Backend: backend,
		Store:   store,
		Engine:  engine,
	}, nil
}

// Close retries any unsaved change, then releases the backend.
func (a *App) Close() error {
	var errs []error
	if a.Engine != nil && a.Engine.Dirty() {
		if err := a.Engine.Refresh(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := storage.CloseBackend(a.Backend); err != nil {
		errs = append(errs, err)
	}
	// Sync on stderr returns EINVAL on some platforms; ignore it.
	_ = a.Logger.Sync()
	return errors.Join(errs...)
}

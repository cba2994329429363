package main

import (
	"fmt"
	"log/slog"

	"github.com/Oxyrus/phototags/internal/assets"
	"github.com/Oxyrus/phototags/internal/config"
	"github.com/Oxyrus/phototags/internal/derivative"
	"github.com/Oxyrus/phototags/internal/gallery"
	"github.com/Oxyrus/phototags/internal/logging"
	"github.com/Oxyrus/phototags/internal/storage/sqlite"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *sqlite.Store
	manager *gallery.Manager
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.LogLevel)

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", cfg.DBPath, err)
	}

	files, err := assets.New(cfg.UploadDir)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	generator := newGenerator(cfg, logger)
	manager := gallery.New(store.Photos(), files, derivative.NewLocked(generator), logger,
		gallery.WithGenerateTimeout(cfg.GenerateTimeout),
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		manager: manager,
	}, nil
}

func newGenerator(cfg *config.Config, logger *slog.Logger) derivative.Generator {
	if cfg.Generator == config.GeneratorCommand {
		return derivative.NewCommand(
			derivative.WithBinary(cfg.GeneratorCommand),
			derivative.WithLogger(logger),
		)
	}
	return derivative.NewImaging(cfg.ThumbSize, cfg.PreviewSize, logger)
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close sqlite database", "error", err)
	}
}

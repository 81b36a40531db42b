package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/CTAG07/Sometimes/pkg/datastore"
	"github.com/CTAG07/Sometimes/pkg/sometimes"
	"github.com/CTAG07/Sometimes/pkg/templating"
)

// app bundles the components a command works with. Commands that only touch
// the database leave tm nil.
type app struct {
	config *Config
	logger *slog.Logger
	db     *sql.DB
	data   *datastore.DataStore
	store  *sometimes.Store
	tm     *templating.TemplateManager
}

// openData loads the configuration and opens the data store.
func openData(ctx context.Context, cfg *MainConfig) (*app, error) {
	config, err := LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(os.Stderr, config.Server.LogLevel)

	if err = os.MkdirAll(config.Server.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := initDB(config.Server.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err = datastore.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	data, err := datastore.New(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create data store: %w", err)
	}

	a := &app{
		config: config,
		logger: logger,
		db:     db,
		data:   data,
		store:  sometimes.NewStore(),
	}
	if _, err = data.LoadInto(ctx, a.store); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// openApp is openData plus the template manager.
func openApp(ctx context.Context, cfg *MainConfig) (*app, error) {
	a, err := openData(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.tm, err = templating.NewTemplateManager(a.logger, a.store, a.config.Templates, a.config.Server.DataDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}
	return a, nil
}

// reload replaces the store contents with what the database holds. The rows
// are read first and swapped in at once, so concurrent renders never see a
// partly loaded store.
func (a *app) reload(ctx context.Context) error {
	entries, err := a.data.All(ctx)
	if err != nil {
		return fmt.Errorf("could not reload data: %w", err)
	}
	a.store.Replace(entries)
	return nil
}

func (a *app) Close() {
	a.data.Close()
	if err := a.db.Close(); err != nil {
		a.logger.Error("Failed to close database", "error", err)
	}
}

// Package app assembles the storage and reporting layers shared by the server
// and the herdctl CLI.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/repository/mongodb"
	"github.com/mamadbah2/herdbook/internal/repository/session"
	"github.com/mamadbah2/herdbook/internal/repository/sheets"
	"github.com/mamadbah2/herdbook/internal/repository/sqldb"
	"github.com/mamadbah2/herdbook/internal/service/reporting"
)

// App holds the opened database, the optional summary mirrors and the reporting
// service built over them.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Stores    *sqldb.Stores
	Reporting *reporting.Service

	closers []func(context.Context) error
}

// Open connects to the database, migrates it and wires the configured mirrors.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sqldb.Open(cfg.Database, logger.Named("repo.sql"))
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: logger, Stores: sqldb.NewStores(db)}
	a.closers = append(a.closers, func(context.Context) error { return sqldb.Close(db) })

	if err := sqldb.Migrate(ctx, db); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	var mirrors []reporting.Mirror
	if cfg.MongoDB.URI != "" {
		archive, err := mongodb.NewSummaryArchive(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		a.closers = append(a.closers, archive.Close)
		mirrors = append(mirrors, archive)
		logger.Info("mongodb summary archive enabled", zap.String("db", cfg.MongoDB.DBName))
	}
	if cfg.SheetsEnabled() {
		client, err := sheets.NewClient(ctx, cfg.Sheets, logger.Named("repo.sheets"))
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		mirrors = append(mirrors, sheets.NewSummaryWriter(client, logger.Named("repo.sheets")))
		logger.Info("google sheets summary mirror enabled")
	}

	a.Reporting = reporting.NewService(a.Stores, cfg.Location(), logger.Named("svc.reporting"), mirrors...)
	return a, nil
}

// Sessions returns the Redis store when REDIS_ADDR is set, and the in-process
// store otherwise.
func (a *App) Sessions(ctx context.Context) (session.Store, error) {
	if a.Config.Redis.Address == "" {
		a.Logger.Warn("redis not configured, sessions are kept in memory")
		return session.NewMemoryStore(), nil
	}

	store, err := session.NewRedisStore(ctx, a.Config.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to init session store: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return store.Close() })
	a.Logger.Info("redis session store enabled", zap.String("addr", a.Config.Redis.Address))
	return store, nil
}

// Close releases every connection in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

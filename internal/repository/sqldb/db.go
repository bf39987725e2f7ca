// Package sqldb holds the gorm-backed record stores.
package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	applog "github.com/mamadbah2/herdbook/pkg/logger"
)

const slowQueryThreshold = 500 * time.Millisecond

// Open connects to the configured relational backend and tunes the pool.
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         applog.NewGormLogger(logger.Named("gorm"), slowQueryThreshold),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql pool: %w", err)
	}
	if cfg.Driver == "mysql" {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns >= 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	} else {
		// SQLite allows one writer; a single connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.Tracing {
		if err := db.Use(otelgorm.NewPlugin()); err != nil {
			logger.Warn("failed to install otelgorm plugin", zap.Error(err))
		}
	}

	return db, nil
}

// Migrate creates or updates every table.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Stores bundles every repository over a single connection.
type Stores struct {
	DB        *gorm.DB
	Cattle    *CattleRepository
	Milk      *MilkRepository
	Health    *HealthRepository
	Feed      *FeedRepository
	Users     *UserRepository
	Summaries *SummaryRepository
}

// NewStores builds every repository over db.
func NewStores(db *gorm.DB) *Stores {
	return &Stores{
		DB:        db,
		Cattle:    NewCattleRepository(db),
		Milk:      NewMilkRepository(db),
		Health:    NewHealthRepository(db),
		Feed:      NewFeedRepository(db),
		Users:     NewUserRepository(db),
		Summaries: NewSummaryRepository(db),
	}
}

// Wipe deletes every row, children first. Used by the seed command.
func (s *Stores) Wipe(ctx context.Context) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ordered := []interface{}{
			&models.FeedRecord{},
			&models.FeedInventory{},
			&models.HealthRecord{},
			&models.MilkRecord{},
			&models.DailySummary{},
			&models.Cattle{},
			&models.User{},
		}
		for _, m := range ordered {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to wipe %T: %w", m, err)
			}
		}
		return nil
	})
}

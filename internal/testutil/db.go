// Package testutil builds throwaway SQLite-backed stores for tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/sqldb"
)

// NewStores opens a migrated SQLite database under t.TempDir().
func NewStores(t *testing.T) *sqldb.Stores {
	t.Helper()
	path := filepath.Join(t.TempDir(), "herdbook.db")
	db, err := sqldb.Open(config.DatabaseConfig{Driver: "sqlite", DSN: path + "?_pragma=foreign_keys(1)"}, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close(db) })
	if err := sqldb.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return sqldb.NewStores(db)
}

// Cattle stores an ACTIVE animal with the given tag, gender and category.
func Cattle(t *testing.T, s *sqldb.Stores, tag string, gender models.Gender, category models.CattleCategory) *models.Cattle {
	t.Helper()
	c := &models.Cattle{
		TagNumber:   tag,
		Gender:      gender,
		Breed:       "Holstein",
		DateOfBirth: time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:      models.CattleActive,
		Category:    category,
	}
	if err := s.Cattle.Create(context.Background(), c); err != nil {
		t.Fatalf("create cattle %s: %v", tag, err)
	}
	return c
}

// Feed stores an inventory item with a threshold of 10.
func Feed(t *testing.T, s *sqldb.Stores, feedType models.FeedType, qty float64) *models.FeedInventory {
	t.Helper()
	inv := &models.FeedInventory{FeedType: feedType, Quantity: qty, Unit: "kg", MinThreshold: 10}
	if err := s.Feed.Create(context.Background(), inv); err != nil {
		t.Fatalf("create feed: %v", err)
	}
	return inv
}

// Milk stores a milk record.
func Milk(t *testing.T, s *sqldb.Stores, cattleID *string, at time.Time, liters float64) *models.MilkRecord {
	t.Helper()
	rec := &models.MilkRecord{CattleID: cattleID, Date: at.UTC(), Liters: liters, Session: models.SessionMorning, Quality: models.QualityGood}
	if err := s.Milk.Create(context.Background(), rec); err != nil {
		t.Fatalf("create milk: %v", err)
	}
	return rec
}

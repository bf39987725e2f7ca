package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/repository/session"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Timezone: "UTC"},
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "app.db")},
		Auth:     config.AuthConfig{CookieName: "s", SessionTTL: time.Hour},
	}
}

func TestOpenWithoutMirrors(t *testing.T) {
	ctx := context.Background()
	a, err := Open(ctx, testConfig(t), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() {
		if err := a.Close(ctx); err != nil {
			t.Fatalf("close: %v", err)
		}
	}()

	if a.Stores == nil || a.Reporting == nil {
		t.Fatalf("app not fully wired")
	}
	if _, err := a.Reporting.Snapshot(ctx, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("snapshot on an empty database: %v", err)
	}

	store, err := a.Sessions(ctx)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if _, ok := store.(*session.MemoryStore); !ok {
		t.Fatalf("expected memory store without redis, got %T", store)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"
	if _, err := Open(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected an error for an unknown driver")
	}
}

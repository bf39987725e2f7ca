package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("WHATSAPP_TOKEN", "")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "")
	t.Setenv("AUTH_REQUIRED", "")
	t.Setenv("TIMEZONE", "")

	cfg, err := Load(t.TempDir() + "/missing.env")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected sqlite driver, got %q", cfg.Database.Driver)
	}
	if !cfg.Auth.Required {
		t.Fatalf("expected auth to be required by default")
	}
	if cfg.Auth.SessionTTL != 24*time.Hour {
		t.Fatalf("unexpected session ttl %s", cfg.Auth.SessionTTL)
	}
	if cfg.WhatsAppEnabled() || cfg.SheetsEnabled() {
		t.Fatalf("optional integrations should be disabled by default")
	}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %s", cfg.Location())
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080", Timezone: "UTC"},
			Database: DatabaseConfig{Driver: "sqlite", DSN: "x.db"},
			Auth:     AuthConfig{CookieName: "s", SessionTTL: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }, wantErr: true},
		{name: "bad timezone", mutate: func(c *Config) { c.Server.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "sheet without credentials", mutate: func(c *Config) { c.Sheets.SpreadsheetID = "abc" }, wantErr: true},
		{name: "whatsapp without recipient", mutate: func(c *Config) {
			c.WhatsApp = WhatsAppConfig{AccessToken: "t", PhoneNumberID: "1", BaseURL: "u", APIVersion: "v"}
		}, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.SessionTTL = 0 }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(" https://a.test, ,https://b.test ")
	if len(got) != 2 || got[0] != "https://a.test" || got[1] != "https://b.test" {
		t.Fatalf("unexpected origins %v", got)
	}
	if splitAndTrim("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()
	p := models.Principal{UserID: "u1", Email: "admin@farm.test", Role: models.RoleAdmin}

	if err := store.Save(ctx, "tok", p, time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Get(ctx, "tok")
	if err != nil || got != p {
		t.Fatalf("get = %+v, %v", got, err)
	}

	now = now.Add(time.Hour)
	if _, err := store.Get(ctx, "tok"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}

	_ = store.Save(ctx, "tok2", p, time.Hour)
	_ = store.Delete(ctx, "tok2")
	if _, err := store.Get(ctx, "tok2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted session to be gone, got %v", err)
	}
}

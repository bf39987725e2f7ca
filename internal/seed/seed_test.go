package seed

import (
	"context"
	"testing"
	"time"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/service/auth"
	"github.com/mamadbah2/herdbook/internal/service/reporting"
	"github.com/mamadbah2/herdbook/internal/testutil"
)

func TestRunPopulatesEveryTable(t *testing.T) {
	ctx := context.Background()
	stores := testutil.NewStores(t)
	s := New(stores, reporting.NewService(stores, time.UTC, nil), time.UTC, nil)
	s.now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }

	opts := Options{Days: 5, Cattle: 30, Password: "seed-pass", Seed: 42}
	for run := 0; run < 2; run++ {
		res, err := s.Run(ctx, opts)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if res.Users != 4 || res.Cattle != 30 || res.HealthRecords != healthRecords || res.Summaries != 5 {
			t.Fatalf("unexpected result %+v", res)
		}
	}

	herd, err := stores.Cattle.List(ctx)
	if err != nil {
		t.Fatalf("list cattle: %v", err)
	}
	if len(herd) != 30 {
		t.Fatalf("second run should replace the herd, got %d animals", len(herd))
	}
	for _, c := range herd {
		if c.MotherID != nil && c.Category != models.CategoryCalf {
			t.Fatalf("only calves get a mother, got %s", c.Category)
		}
	}

	inventory, err := stores.Feed.List(ctx)
	if err != nil {
		t.Fatalf("list feed: %v", err)
	}
	if len(inventory) != 5 {
		t.Fatalf("expected 5 inventory items, got %d", len(inventory))
	}
	for _, inv := range inventory {
		if inv.Quantity < 0 {
			t.Fatalf("%s stock went negative: %v", inv.FeedType, inv.Quantity)
		}
	}

	summaries, err := stores.Summaries.Between(ctx, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("list summaries: %v", err)
	}
	if len(summaries) != 5 {
		t.Fatalf("expected 5 summaries, got %d", len(summaries))
	}

	admin, err := stores.Users.GetByEmail(ctx, "admin@herdbook.local")
	if err != nil {
		t.Fatalf("admin not seeded: %v", err)
	}
	if err := auth.ComparePassword(admin.Password, "seed-pass"); err != nil {
		t.Fatalf("seed password not usable: %v", err)
	}
}

func TestRunRejectsBadOptions(t *testing.T) {
	stores := testutil.NewStores(t)
	s := New(stores, reporting.NewService(stores, time.UTC, nil), time.UTC, nil)

	tests := []Options{
		{Days: 0, Cattle: 10, Password: "x"},
		{Days: 10, Cattle: 0, Password: "x"},
		{Days: 10, Cattle: 10},
	}
	for _, opts := range tests {
		if _, err := s.Run(context.Background(), opts); err == nil {
			t.Fatalf("expected error for %+v", opts)
		}
	}
}

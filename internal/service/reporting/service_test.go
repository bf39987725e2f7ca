package reporting

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/herdbook/internal/apperr"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/sqldb"
	"github.com/mamadbah2/herdbook/internal/testutil"
)

type recordingMirror struct {
	name string
	err  error
	got  []models.DailySummary
}

func (m *recordingMirror) Name() string { return m.name }

func (m *recordingMirror) MirrorSummary(_ context.Context, s models.DailySummary) error {
	m.got = append(m.got, s)
	return m.err
}

func seedDay(t *testing.T, stores *sqldb.Stores, day time.Time) {
	t.Helper()
	ctx := context.Background()
	a := testutil.Cattle(t, stores, "A", models.GenderFemale, models.CategoryCow)
	b := testutil.Cattle(t, stores, "B", models.GenderFemale, models.CategoryCow)
	testutil.Cattle(t, stores, "C", models.GenderMale, models.CategoryCalf)

	testutil.Milk(t, stores, &a.ID, day.Add(6*time.Hour), 12)
	testutil.Milk(t, stores, &a.ID, day.Add(18*time.Hour), 8)
	testutil.Milk(t, stores, &b.ID, day.Add(6*time.Hour), 10.25)
	testutil.Milk(t, stores, nil, day.Add(7*time.Hour), 3)
	testutil.Milk(t, stores, &b.ID, day.AddDate(0, 0, 1).Add(time.Hour), 50)

	hay := testutil.Feed(t, stores, models.FeedHay, 500)
	silage := testutil.Feed(t, stores, models.FeedSilage, 500)
	for _, rec := range []models.FeedRecord{
		{InventoryID: hay.ID, Date: day.Add(8 * time.Hour), QuantityUsed: 40},
		{InventoryID: hay.ID, Date: day.Add(16 * time.Hour), QuantityUsed: 35.5},
		{InventoryID: silage.ID, Date: day.Add(8 * time.Hour), QuantityUsed: 60},
		{InventoryID: silage.ID, Date: day.AddDate(0, 0, -1), QuantityUsed: 99},
	} {
		rec := rec
		if err := stores.Feed.Consume(ctx, &rec); err != nil {
			t.Fatalf("consume: %v", err)
		}
	}
}

func TestBuildDailySummary(t *testing.T) {
	stores := testutil.NewStores(t)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	seedDay(t, stores, day)

	got, err := NewService(stores, time.UTC, nil).BuildDailySummary(context.Background(), day.Add(13*time.Hour))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !got.Date.Equal(day) {
		t.Fatalf("expected summary date %s, got %s", day, got.Date)
	}
	if got.TotalCattle != 3 || got.FemaleCount != 2 || got.MaleCount != 1 || got.CalfCount != 1 {
		t.Fatalf("unexpected herd counts %+v", got)
	}
	// 33.25 liters across two identified animals.
	if got.TotalMilkLiters != 33.3 || got.AvgMilkPerCow != 16.6 {
		t.Fatalf("unexpected milk figures %v / %v", got.TotalMilkLiters, got.AvgMilkPerCow)
	}
	if got.FeedHayUsed != 75.5 || got.FeedSilageUsed != 60 || got.FeedConcentrateUsed != 0 {
		t.Fatalf("unexpected feed figures %+v", got)
	}
}

func TestSnapshotUpsertsAndMirrors(t *testing.T) {
	stores := testutil.NewStores(t)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	seedDay(t, stores, day)
	ctx := context.Background()

	ok := &recordingMirror{name: "ok"}
	broken := &recordingMirror{name: "broken", err: errors.New("offline")}
	svc := NewService(stores, time.UTC, nil, broken, nil, ok)

	first, err := svc.Snapshot(ctx, day)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := svc.Snapshot(ctx, day); err != nil {
		t.Fatalf("second snapshot: %v", err)
	}

	stored, err := svc.ListSummaries(ctx, "2024-06-01", "2024-06-01")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != first.ID {
		t.Fatalf("expected a single upserted row, got %+v", stored)
	}
	if len(ok.got) != 2 || len(broken.got) != 2 {
		t.Fatalf("expected both mirrors to be called twice, got ok=%d broken=%d", len(ok.got), len(broken.got))
	}
}

func TestListSummariesRange(t *testing.T) {
	stores := testutil.NewStores(t)
	ctx := context.Background()
	for d := 1; d <= 5; d++ {
		s := models.DailySummary{Date: time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC), TotalCattle: d}
		if err := stores.Summaries.Upsert(ctx, &s); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	svc := NewService(stores, time.UTC, nil)

	got, err := svc.ListSummaries(ctx, "2024-06-02", "2024-06-04")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].TotalCattle != 2 || got[2].TotalCattle != 4 {
		t.Fatalf("unexpected range %+v", got)
	}

	all, err := svc.ListSummaries(ctx, "", "")
	if err != nil || len(all) != 5 {
		t.Fatalf("expected every summary, got %d (%v)", len(all), err)
	}

	_, err = svc.ListSummaries(ctx, "yesterday", "")
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExportWorkbook(t *testing.T) {
	stores := testutil.NewStores(t)
	testutil.Cattle(t, stores, "TAG-1", models.GenderFemale, models.CategoryCow)
	testutil.Feed(t, stores, models.FeedGrain, 5)
	svc := NewService(stores, time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC) }

	wb, err := svc.Export(context.Background(), "cattle")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if wb.Filename != "cattle-2024-06-12.xlsx" {
		t.Fatalf("unexpected filename %q", wb.Filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(wb.Data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Cattle")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 || rows[0][0] != "Tag Number" || rows[1][0] != "TAG-1" {
		t.Fatalf("unexpected rows %v", rows)
	}

	wb, err = svc.Export(context.Background(), "feed")
	if err != nil {
		t.Fatalf("export feed: %v", err)
	}
	f2, err := excelize.OpenReader(bytes.NewReader(wb.Data))
	if err != nil {
		t.Fatalf("open feed workbook: %v", err)
	}
	defer f2.Close()
	rows, err = f2.GetRows("Feed")
	if err != nil {
		t.Fatalf("feed rows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "GRAIN" || rows[1][8] != "LOW" {
		t.Fatalf("unexpected feed rows %v", rows)
	}
}

func TestExportUnknownResource(t *testing.T) {
	svc := NewService(testutil.NewStores(t), nil, nil)
	_, err := svc.Export(context.Background(), "users")
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

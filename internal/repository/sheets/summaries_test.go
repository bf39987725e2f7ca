package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

type fakeRepo struct {
	rows    [][]interface{}
	written [][]interface{}
	ranges  []string
	readErr error
}

func (f *fakeRepo) AppendRow(_ context.Context, sheetRange string, values []interface{}) error {
	f.ranges = append(f.ranges, sheetRange)
	f.written = append(f.written, values)
	return nil
}

func (f *fakeRepo) ReadRange(context.Context, string) ([][]interface{}, error) {
	return f.rows, f.readErr
}

func TestMirrorSummaryAppendsOnce(t *testing.T) {
	repo := &fakeRepo{rows: [][]interface{}{{"Date"}, {"2024-05-31"}}}
	w := NewSummaryWriter(repo, nil)
	s := models.DailySummary{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), TotalCattle: 30, TotalMilkLiters: 120.5}

	if err := w.MirrorSummary(context.Background(), s); err != nil {
		t.Fatalf("mirror: %v", err)
	}
	if len(repo.written) != 1 || repo.ranges[0] != summaryRange {
		t.Fatalf("expected one row in %s, got %v", summaryRange, repo.ranges)
	}
	row := repo.written[0]
	if len(row) != 10 || row[0] != "2024-06-01" || row[1] != 30 || row[5] != 120.5 {
		t.Fatalf("unexpected row %v", row)
	}

	repo.rows = append(repo.rows, []interface{}{"2024-06-01"})
	if err := w.MirrorSummary(context.Background(), s); err != nil {
		t.Fatalf("mirror again: %v", err)
	}
	if len(repo.written) != 1 {
		t.Fatalf("expected the existing date to be skipped")
	}
}

func TestMirrorSummaryReadFailure(t *testing.T) {
	repo := &fakeRepo{readErr: errors.New("quota")}
	err := NewSummaryWriter(repo, nil).MirrorSummary(context.Background(), models.DailySummary{})
	if err == nil || len(repo.written) != 0 {
		t.Fatalf("expected read failure to stop the append, got %v", err)
	}
}

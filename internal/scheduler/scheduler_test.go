package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

type fakeJobs struct {
	snapshots []time.Time
	sweeps    int
	digests   int
	fail      bool
}

func (f *fakeJobs) Snapshot(ctx context.Context, day time.Time) (*models.DailySummary, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("job context has no deadline")
	}
	f.snapshots = append(f.snapshots, day)
	if f.fail {
		return nil, errors.New("db down")
	}
	return &models.DailySummary{Date: day}, nil
}

func (f *fakeJobs) SweepOverdue(context.Context) (int64, error) {
	f.sweeps++
	return 1, nil
}

func (f *fakeJobs) SendDigest(context.Context) error {
	f.digests++
	return nil
}

func TestStartRegistersConfiguredJobs(t *testing.T) {
	jobs := &fakeJobs{}
	cfg := config.SchedulerConfig{SummaryCron: "55 23 * * *", OverdueCron: "0 * * * *", AlertCron: "0 7 * * *"}

	tests := []struct {
		name     string
		cfg      config.SchedulerConfig
		notifier Notifier
		want     int
	}{
		{name: "all jobs", cfg: cfg, notifier: jobs, want: 3},
		{name: "no notifier", cfg: cfg, want: 2},
		{name: "disabled overdue", cfg: config.SchedulerConfig{SummaryCron: "55 23 * * *", AlertCron: "0 7 * * *"}, notifier: jobs, want: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScheduler(tc.cfg, time.UTC, jobs, jobs, tc.notifier, nil)
			if err := s.Start(); err != nil {
				t.Fatalf("start: %v", err)
			}
			defer s.Stop()
			if got := s.Entries(); got != tc.want {
				t.Fatalf("expected %d entries, got %d", tc.want, got)
			}
		})
	}
}

func TestStartRejectsBadExpression(t *testing.T) {
	jobs := &fakeJobs{}
	s := NewScheduler(config.SchedulerConfig{SummaryCron: "not a cron"}, time.UTC, jobs, jobs, nil, nil)
	if err := s.Start(); err == nil {
		t.Fatalf("expected an error for an invalid expression")
	}
}

func TestJobsRunWithDeadline(t *testing.T) {
	loc, err := time.LoadLocation("Africa/Conakry")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	jobs := &fakeJobs{}
	s := NewScheduler(config.SchedulerConfig{}, loc, jobs, jobs, jobs, nil)
	fixed := time.Date(2024, 5, 1, 23, 55, 0, 0, loc)
	s.now = func() time.Time { return fixed }

	s.snapshotToday()
	s.sweepOverdue()
	s.sendDigest()

	if len(jobs.snapshots) != 1 || !jobs.snapshots[0].Equal(fixed) {
		t.Fatalf("unexpected snapshots %v", jobs.snapshots)
	}
	if jobs.sweeps != 1 || jobs.digests != 1 {
		t.Fatalf("expected one sweep and one digest, got %d/%d", jobs.sweeps, jobs.digests)
	}

	jobs.fail = true
	s.snapshotToday()
	if len(jobs.snapshots) != 2 {
		t.Fatalf("failing job should still have been attempted")
	}
}

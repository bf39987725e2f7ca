package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// Snapshotter stores the DailySummary of a day.
type Snapshotter interface {
	Snapshot(ctx context.Context, day time.Time) (*models.DailySummary, error)
}

// OverdueSweeper flags health records whose date has passed.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context) (int64, error)
}

// Notifier sends the daily alert digest.
type Notifier interface {
	SendDigest(ctx context.Context) error
}

type job struct {
	name string
	spec string
	run  func()
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.SchedulerConfig
	summary  Snapshotter
	overdue  OverdueSweeper
	notifier Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. notifier may be nil when alerts
// are not configured.
func NewScheduler(cfg config.SchedulerConfig, loc *time.Location, summary Snapshotter, overdue OverdueSweeper, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		cfg:      cfg,
		summary:  summary,
		overdue:  overdue,
		notifier: notifier,
		now:      func() time.Time { return time.Now().In(loc) },
		logger:   logger,
	}
}

// Start registers the configured jobs and starts the cron loop. An empty
// expression disables its job.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	jobs := []job{
		{"daily summary", s.cfg.SummaryCron, s.snapshotToday},
		{"overdue sweep", s.cfg.OverdueCron, s.sweepOverdue},
	}
	if s.notifier != nil {
		jobs = append(jobs, job{"alert digest", s.cfg.AlertCron, s.sendDigest})
	}

	for _, job := range jobs {
		if job.spec == "" {
			s.logger.Info("job disabled", zap.String("job", job.name))
			continue
		}
		if _, err := s.cron.AddFunc(job.spec, job.run); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", job.name, err)
		}
		s.logger.Info("job scheduled", zap.String("job", job.name), zap.String("spec", job.spec))
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) snapshotToday() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	summary, err := s.summary.Snapshot(ctx, s.now())
	if err != nil {
		s.logger.Error("failed to snapshot daily summary", zap.Error(err))
		return
	}
	s.logger.Info("daily summary stored",
		zap.Time("date", summary.Date),
		zap.Float64("milk", summary.TotalMilkLiters),
	)
}

func (s *Scheduler) sweepOverdue() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.overdue.SweepOverdue(ctx); err != nil {
		s.logger.Error("failed to sweep overdue health records", zap.Error(err))
	}
}

func (s *Scheduler) sendDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.notifier.SendDigest(ctx); err != nil {
		s.logger.Error("failed to send alert digest", zap.Error(err))
	}
}

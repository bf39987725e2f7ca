// Package reporting builds daily herd rollups, mirrors them to the optional
// archives and exports resources as workbooks.
package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/apperr"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/sqldb"
	"github.com/mamadbah2/herdbook/internal/stats"
	"github.com/mamadbah2/herdbook/internal/validation"
)

// Mirror receives a copy of every stored summary.
type Mirror interface {
	Name() string
	MirrorSummary(ctx context.Context, s models.DailySummary) error
}

// Service exposes the reporting operations.
type Service struct {
	stores  *sqldb.Stores
	loc     *time.Location
	mirrors []Mirror
	now     func() time.Time
	logger  *zap.Logger
}

// NewService wires a new reporting service instance. Nil mirrors are skipped.
func NewService(stores *sqldb.Stores, loc *time.Location, logger *zap.Logger, mirrors ...Mirror) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	s := &Service{stores: stores, loc: loc, now: time.Now, logger: logger}
	for _, m := range mirrors {
		if m != nil {
			s.mirrors = append(s.mirrors, m)
		}
	}
	return s
}

// BuildDailySummary computes the rollup of the day containing day, in the farm's
// timezone. Herd counts are the current ACTIVE tallies.
func (s *Service) BuildDailySummary(ctx context.Context, day time.Time) (*models.DailySummary, error) {
	start := stats.StartOfDay(day.In(s.loc))
	end := start.AddDate(0, 0, 1)

	counts, err := s.stores.Cattle.ActiveCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count herd: %w", err)
	}
	milk, err := s.stores.Milk.Day(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("total milk: %w", err)
	}
	feed, err := s.stores.Feed.UsageByType(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("total feed usage: %w", err)
	}

	var avg float64
	if milk.MilkedCattle > 0 {
		avg = milk.TotalLiters / float64(milk.MilkedCattle)
	}

	return &models.DailySummary{
		Date:                start.UTC(),
		TotalCattle:         int(counts.Total),
		MaleCount:           int(counts.Male),
		FemaleCount:         int(counts.Female),
		CalfCount:           int(counts.Calves),
		TotalMilkLiters:     stats.Round(milk.TotalLiters, 1),
		AvgMilkPerCow:       stats.Round(avg, 1),
		FeedHayUsed:         stats.Round(feed[models.FeedHay], 1),
		FeedConcentrateUsed: stats.Round(feed[models.FeedConcentrate], 1),
		FeedSilageUsed:      stats.Round(feed[models.FeedSilage], 1),
	}, nil
}

// Snapshot stores the summary of day and copies it to every mirror. Mirror
// failures are logged only.
func (s *Service) Snapshot(ctx context.Context, day time.Time) (*models.DailySummary, error) {
	summary, err := s.BuildDailySummary(ctx, day)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Summaries.Upsert(ctx, summary); err != nil {
		return nil, err
	}

	for _, m := range s.mirrors {
		if err := m.MirrorSummary(ctx, *summary); err != nil {
			s.logger.Warn("summary mirror failed",
				zap.String("mirror", m.Name()),
				zap.Time("date", summary.Date),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("daily summary stored",
		zap.Time("date", summary.Date),
		zap.Int("total_cattle", summary.TotalCattle),
		zap.Float64("milk_liters", summary.TotalMilkLiters),
	)
	return summary, nil
}

// ListSummaries returns stored summaries between the optional inclusive dates.
func (s *Service) ListSummaries(ctx context.Context, startDate, endDate string) ([]models.DailySummary, error) {
	var from, to time.Time
	if startDate != "" {
		d, err := validation.ParseDate(startDate, s.loc)
		if err != nil {
			return nil, apperr.Validation("Invalid start date")
		}
		from = stats.StartOfDay(d.In(s.loc))
	}
	if endDate != "" {
		d, err := validation.ParseDate(endDate, s.loc)
		if err != nil {
			return nil, apperr.Validation("Invalid end date")
		}
		to = stats.StartOfDay(d.In(s.loc)).AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	out, err := s.stores.Summaries.Between(ctx, from, to)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch daily summaries", err)
	}
	if out == nil {
		out = []models.DailySummary{}
	}
	return out, nil
}

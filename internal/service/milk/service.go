// Package milk records milk production and charts it.
package milk

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/apperr"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/sqldb"
	"github.com/mamadbah2/herdbook/internal/stats"
	"github.com/mamadbah2/herdbook/internal/validation"
)

const (
	listLimit     = 100
	topPerformers = 5
)

// Input is the payload of a new milk record.
type Input struct {
	CattleID *string            `json:"cattleId"`
	Date     string             `json:"date" validate:"required"`
	Liters   validation.Number  `json:"liters" validate:"gt=0"`
	Session  models.MilkSession `json:"session" validate:"enum"`
	Quality  models.MilkQuality `json:"quality" validate:"omitempty,enum"`
	Notes    *string            `json:"notes"`
}

var inputMessages = validation.Messages{
	"Date":    "Date is required",
	"Liters":  "Valid liters amount (greater than 0) is required",
	"Session": "Valid session (MORNING, AFTERNOON, or EVENING) is required",
	"Quality": "Invalid quality value",
}

// Query filters a listing. StartDate and EndDate only apply together.
type Query struct {
	CattleID  string
	StartDate string
	EndDate   string
	Session   string
}

// CattleSummary is the animal attached to a listed milk record.
type CattleSummary struct {
	ID        string                `json:"id"`
	TagNumber string                `json:"tagNumber"`
	Name      *string               `json:"name"`
	Category  models.CattleCategory `json:"category"`
}

// RecordView is a milk record with its animal.
type RecordView struct {
	models.MilkRecord
	Cattle *CattleSummary `json:"cattle"`
}

func viewOf(rec models.MilkRecord) RecordView {
	v := RecordView{MilkRecord: rec}
	if c := rec.Cattle; c != nil {
		v.Cattle = &CattleSummary{ID: c.ID, TagNumber: c.TagNumber, Name: c.Name, Category: c.Category}
	}
	return v
}

// Service implements the milk operations.
type Service struct {
	stores *sqldb.Stores
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

func NewService(stores *sqldb.Stores, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{stores: stores, loc: loc, now: time.Now, logger: logger}
}

// List returns the 100 most recent matching records.
func (s *Service) List(ctx context.Context, q Query) ([]RecordView, error) {
	filter := sqldb.MilkFilter{CattleID: q.CattleID, Limit: listLimit}
	if q.Session != "" && q.Session != "all" {
		filter.Session = models.MilkSession(q.Session)
	}
	if q.StartDate != "" && q.EndDate != "" {
		from, to, err := s.dayRange(q.StartDate, q.EndDate)
		if err != nil {
			return nil, err
		}
		filter.From, filter.To = from, to
	}

	records, err := s.stores.Milk.List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch milk records", err)
	}
	out := make([]RecordView, 0, len(records))
	for _, rec := range records {
		out = append(out, viewOf(rec))
	}
	return out, nil
}

// Create stores a milk record. A missing cattleId stores a herd-level entry.
func (s *Service) Create(ctx context.Context, in Input) (*RecordView, error) {
	if err := validation.Struct(in, inputMessages); err != nil {
		return nil, err
	}
	date, err := validation.ParseDate(in.Date, s.loc)
	if err != nil {
		return nil, apperr.Validation("Date is required")
	}

	var cattle *models.Cattle
	cattleID := trimmed(in.CattleID)
	if cattleID != nil {
		cattle, err = s.stores.Cattle.Get(ctx, *cattleID)
		if sqldb.IsNotFound(err) {
			return nil, apperr.Validation("Invalid cattle ID")
		}
		if err != nil {
			return nil, apperr.Internal("Failed to create milk record", err)
		}
	}

	quality := in.Quality
	if quality == "" {
		quality = models.QualityGood
	}
	rec := &models.MilkRecord{
		CattleID: cattleID,
		Date:     date,
		Liters:   in.Liters.Float64(),
		Session:  in.Session,
		Quality:  quality,
		Notes:    trimmed(in.Notes),
	}
	if err := s.stores.Milk.Create(ctx, rec); err != nil {
		return nil, apperr.Internal("Failed to create milk record", err)
	}
	rec.Cattle = cattle

	v := viewOf(*rec)
	return &v, nil
}

// Stats charts production for a view. An explicit range overrides the default
// window of the view.
func (s *Service) Stats(ctx context.Context, view, startDate, endDate string) (*stats.MilkChart, error) {
	v := stats.ParseView(view)
	if v == stats.ViewYearly {
		v = stats.ViewMonthly
	}
	now := s.now().In(s.loc)

	var start, end time.Time
	if startDate != "" && endDate != "" {
		from, to, err := s.dayRange(startDate, endDate)
		if err != nil {
			return nil, err
		}
		start, end = from.In(s.loc), to.In(s.loc)
	} else {
		today := stats.StartOfDay(now)
		switch v {
		case stats.ViewWeekly:
			start = today.AddDate(0, 0, -27)
		case stats.ViewMonthly:
			start = time.Date(now.Year(), now.Month()-5, 1, 0, 0, 0, 0, s.loc)
		default:
			start = today.AddDate(0, 0, -6)
		}
		end = now
	}

	records, err := s.stores.Milk.Between(ctx, start.UTC(), end.UTC().Add(time.Nanosecond))
	if err != nil {
		return nil, apperr.Internal("Failed to fetch milk stats", err)
	}

	chart := stats.BuildMilkChart(v, start, end, records)

	recent, err := s.stores.Milk.Between(ctx, now.Add(-stats.PerformerWindow).UTC(), now.UTC().Add(time.Nanosecond))
	if err != nil {
		return nil, apperr.Internal("Failed to fetch milk stats", err)
	}
	chart.TopPerformers = stats.TopPerformers(recent, now, topPerformers)
	return &chart, nil
}

// dayRange expands two dates to [start of first day, end of last day].
func (s *Service) dayRange(startDate, endDate string) (time.Time, time.Time, error) {
	from, err := validation.ParseDate(startDate, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("Invalid startDate")
	}
	to, err := validation.ParseDate(endDate, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("Invalid endDate")
	}
	from = stats.StartOfDay(from.In(s.loc))
	to = stats.StartOfDay(to.In(s.loc)).AddDate(0, 0, 1).Add(-time.Nanosecond)
	return from.UTC(), to.UTC(), nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

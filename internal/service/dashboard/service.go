// Package dashboard aggregates herd, milk, health and feed figures for the
// landing page.
package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/apperr"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/sqldb"
	"github.com/mamadbah2/herdbook/internal/stats"
	"github.com/mamadbah2/herdbook/internal/validation"
)

const failureMessage = "Failed to fetch dashboard stats"

// Query selects the chart views. StartDate and EndDate apply only to a daily
// milk chart and only together.
type Query struct {
	MilkView   string
	CattleView string
	StartDate  string
	EndDate    string
}

// MilkPoint is one bucket of the production chart.
type MilkPoint struct {
	Period string  `json:"period"`
	Date   string  `json:"date"`
	Liters float64 `json:"liters"`
}

// CattlePoint is one bucket of the herd size chart. Estimated marks a bucket
// without a stored summary, filled with the current herd size.
type CattlePoint struct {
	Period    string `json:"period"`
	Date      string `json:"date"`
	Count     int    `json:"count"`
	Estimated bool   `json:"estimated"`
}

type CattleStats struct {
	Total     int64         `json:"total"`
	Male      int64         `json:"male"`
	Female    int64         `json:"female"`
	Calves    int64         `json:"calves"`
	ChartData []CattlePoint `json:"chartData"`
}

type MilkStats struct {
	Today     float64     `json:"today"`
	ThisWeek  float64     `json:"thisWeek"`
	AvgPerCow float64     `json:"avgPerCow"`
	ChartData []MilkPoint `json:"chartData"`
}

type HealthStats struct {
	Due int64 `json:"due"`
}

type FeedStats struct {
	Total       float64 `json:"total"`
	Hay         float64 `json:"hay"`
	Concentrate float64 `json:"concentrate"`
	Silage      float64 `json:"silage"`
	SilageLow   bool    `json:"silageLow"`
}

// Stats is the dashboard payload.
type Stats struct {
	Cattle CattleStats `json:"cattle"`
	Milk   MilkStats   `json:"milk"`
	Health HealthStats `json:"health"`
	Feed   FeedStats   `json:"feed"`
}

// Service computes dashboard rollups on every call.
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

// Stats builds the dashboard. Any store failure fails the whole call.
func (s *Service) Stats(ctx context.Context, q Query) (*Stats, error) {
	now := s.now().In(s.loc)
	milkView := parseView(q.MilkView)
	cattleView := parseView(q.CattleView)

	milkStart, milkEnd := window(milkView, now)
	if milkView == stats.ViewDaily && q.StartDate != "" && q.EndDate != "" {
		from, err := validation.ParseDate(q.StartDate, s.loc)
		if err != nil {
			return nil, apperr.Validation("Invalid start date")
		}
		to, err := validation.ParseDate(q.EndDate, s.loc)
		if err != nil {
			return nil, apperr.Validation("Invalid end date")
		}
		milkStart = stats.StartOfDay(from.In(s.loc))
		milkEnd = stats.StartOfDay(to.In(s.loc)).AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	cattleStart, cattleEnd := window(cattleView, now)

	out, err := s.collect(ctx, now, milkView, milkStart, milkEnd, cattleView, cattleStart, cattleEnd)
	if err != nil {
		s.logger.Error("dashboard stats failed", zap.Error(err))
		return nil, apperr.Internal(failureMessage, nil)
	}
	return out, nil
}

func (s *Service) collect(ctx context.Context, now time.Time,
	milkView stats.MilkView, milkStart, milkEnd time.Time,
	cattleView stats.MilkView, cattleStart, cattleEnd time.Time,
) (*Stats, error) {
	counts, err := s.stores.Cattle.ActiveCounts(ctx)
	if err != nil {
		return nil, err
	}

	milkChart, err := s.milkChart(ctx, milkView, milkStart, milkEnd)
	if err != nil {
		return nil, err
	}
	cattleChart, err := s.cattleChart(ctx, cattleView, cattleStart, cattleEnd, int(counts.Total))
	if err != nil {
		return nil, err
	}

	today := stats.StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	todayLiters, err := s.stores.Milk.SumLiters(ctx, today, tomorrow)
	if err != nil {
		return nil, err
	}
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	weekLiters, err := s.stores.Milk.SumLiters(ctx, weekStart, tomorrow)
	if err != nil {
		return nil, err
	}
	var avgPerCow float64
	if counts.Cows > 0 && weekLiters > 0 {
		avgPerCow = stats.Round(weekLiters/float64(counts.Cows)/7, 1)
	}

	due, err := s.stores.Health.CountPendingBetween(ctx, now, now.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}

	items, err := s.stores.Feed.List(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Cattle: CattleStats{
			Total:     counts.Total,
			Male:      counts.Male,
			Female:    counts.Female,
			Calves:    counts.Calves,
			ChartData: cattleChart,
		},
		Milk: MilkStats{
			Today:     todayLiters,
			ThisWeek:  weekLiters,
			AvgPerCow: avgPerCow,
			ChartData: milkChart,
		},
		Health: HealthStats{Due: due},
		Feed:   feedStats(items),
	}, nil
}

func (s *Service) milkChart(ctx context.Context, view stats.MilkView, start, end time.Time) ([]MilkPoint, error) {
	buckets := stats.Buckets(view, start, end)
	if len(buckets) == 0 {
		return []MilkPoint{}, nil
	}
	records, err := s.stores.Milk.Between(ctx, buckets[0].Start, buckets[len(buckets)-1].End)
	if err != nil {
		return nil, err
	}
	totals := stats.SumMilk(buckets, records)

	out := make([]MilkPoint, len(buckets))
	for i, b := range buckets {
		out[i] = MilkPoint{Period: b.Period, Date: b.Date, Liters: stats.Round(totals[i], 0)}
	}
	return out, nil
}

// cattleChart takes the last summary of every bucket. Buckets without one carry
// the current ACTIVE count and are flagged as estimated.
func (s *Service) cattleChart(ctx context.Context, view stats.MilkView, start, end time.Time, active int) ([]CattlePoint, error) {
	buckets := stats.Buckets(view, start, end)
	if len(buckets) == 0 {
		return []CattlePoint{}, nil
	}
	summaries, err := s.stores.Summaries.Between(ctx, buckets[0].Start, buckets[len(buckets)-1].End.Add(-time.Nanosecond))
	if err != nil {
		return nil, err
	}

	out := make([]CattlePoint, len(buckets))
	for i, b := range buckets {
		out[i] = CattlePoint{Period: b.Period, Date: b.Date, Count: active, Estimated: true}
	}
	for _, sum := range summaries {
		if i := stats.Locate(buckets, sum.Date); i >= 0 {
			out[i].Count = sum.TotalCattle
			out[i].Estimated = false
		}
	}
	return out, nil
}

// feedStats reads the first stocked item of each headline type.
func feedStats(items []models.FeedInventory) FeedStats {
	var (
		out     FeedStats
		seen    = map[models.FeedType]bool{}
		silageT float64
	)
	// items are newest first; walk oldest first.
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		out.Total += it.Quantity
		if seen[it.FeedType] {
			continue
		}
		seen[it.FeedType] = true
		switch it.FeedType {
		case models.FeedHay:
			out.Hay = it.Quantity
		case models.FeedConcentrate:
			out.Concentrate = it.Quantity
		case models.FeedSilage:
			out.Silage = it.Quantity
			silageT = it.MinThreshold
		}
	}
	out.SilageLow = out.Silage < silageT
	return out
}

func parseView(raw string) stats.MilkView {
	switch v := stats.MilkView(raw); v {
	case stats.ViewMonthly, stats.ViewYearly:
		return v
	default:
		return stats.ViewDaily
	}
}

// window returns the default chart range ending at now.
func window(view stats.MilkView, now time.Time) (time.Time, time.Time) {
	switch view {
	case stats.ViewMonthly:
		return time.Date(now.Year(), now.Month()-5, 1, 0, 0, 0, 0, now.Location()), now
	case stats.ViewYearly:
		return time.Date(now.Year()-4, time.January, 1, 0, 0, 0, 0, now.Location()), now
	default:
		return stats.StartOfDay(now).AddDate(0, 0, -6), now
	}
}

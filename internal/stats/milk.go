package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// MilkView selects the bucket width of a production chart.
type MilkView string

const (
	ViewDaily   MilkView = "daily"
	ViewWeekly  MilkView = "weekly"
	ViewMonthly MilkView = "monthly"
	ViewYearly  MilkView = "yearly"
)

// ParseView maps a query value to a view, defaulting to daily.
func ParseView(raw string) MilkView {
	switch MilkView(raw) {
	case ViewWeekly, ViewMonthly, ViewYearly:
		return MilkView(raw)
	default:
		return ViewDaily
	}
}

// StartOfDay truncates t to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Bucket is one period of a time-bucketed chart.
type Bucket struct {
	Period string    `json:"period"`
	Date   string    `json:"date"`
	Start  time.Time `json:"-"`
	End    time.Time `json:"-"`
}

// Buckets enumerates the periods of view between start and end, in start's
// location. Weekly buckets are seven-day spans labelled W1..Wn from start.
func Buckets(view MilkView, start, end time.Time) []Bucket {
	var (
		out []Bucket
		cur time.Time
	)
	switch view {
	case ViewWeekly:
		cur = StartOfDay(start)
	case ViewMonthly:
		cur = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	case ViewYearly:
		cur = time.Date(start.Year(), 1, 1, 0, 0, 0, 0, start.Location())
	default:
		cur = StartOfDay(start)
	}

	for i := 1; !cur.After(end); i++ {
		var next time.Time
		b := Bucket{Start: cur}
		switch view {
		case ViewWeekly:
			next = cur.AddDate(0, 0, 7)
			b.Period = fmt.Sprintf("W%d", i)
			b.Date = cur.Format("2006-01-02")
		case ViewMonthly:
			next = cur.AddDate(0, 1, 0)
			b.Period = cur.Format("Jan")
			b.Date = cur.Format("2006-01")
		case ViewYearly:
			next = cur.AddDate(1, 0, 0)
			b.Period = cur.Format("2006")
			b.Date = cur.Format("2006")
		default:
			next = cur.AddDate(0, 0, 1)
			b.Period = cur.Format("Mon")
			b.Date = cur.Format("2006-01-02")
		}
		b.End = next
		out = append(out, b)
		cur = next
	}
	return out
}

// Locate returns the index of the bucket containing t, or -1.
func Locate(buckets []Bucket, t time.Time) int {
	i := sort.Search(len(buckets), func(i int) bool { return buckets[i].End.After(t) })
	if i < len(buckets) && !t.Before(buckets[i].Start) {
		return i
	}
	return -1
}

// MilkPoint is a charted production bucket.
type MilkPoint struct {
	Period string  `json:"period"`
	Date   string  `json:"date"`
	Liters float64 `json:"liters"`
	Trend  float64 `json:"trend"`
}

// MilkChart is the production summary served by the milk stats endpoint.
type MilkChart struct {
	View          MilkView    `json:"view"`
	StartDate     string      `json:"startDate"`
	EndDate       string      `json:"endDate"`
	Data          []MilkPoint `json:"data"`
	Total         float64     `json:"total"`
	AvgPerPeriod  float64     `json:"avgPerPeriod"`
	OverallTrend  float64     `json:"overallTrend"`
	TopPerformers []Performer `json:"topPerformers"`
}

// SumMilk totals liters per bucket. Records outside every bucket are ignored.
func SumMilk(buckets []Bucket, records []models.MilkRecord) []float64 {
	totals := make([]float64, len(buckets))
	for _, r := range records {
		if i := Locate(buckets, r.Date); i >= 0 {
			totals[i] += r.Liters
		}
	}
	return totals
}

// BuildMilkChart buckets records over [start, end] and derives trends and totals.
// TopPerformers is left for the caller, which ranks over its own record set.
func BuildMilkChart(view MilkView, start, end time.Time, records []models.MilkRecord) MilkChart {
	buckets := Buckets(view, start, end)
	totals := SumMilk(buckets, records)

	chart := MilkChart{
		View:          view,
		StartDate:     start.Format("2006-01-02"),
		EndDate:       end.Format("2006-01-02"),
		Data:          make([]MilkPoint, len(buckets)),
		OverallTrend:  Round(OverallTrend(totals), 1),
		TopPerformers: []Performer{},
	}
	trends := PeriodTrends(totals)
	for i, b := range buckets {
		chart.Data[i] = MilkPoint{Period: b.Period, Date: b.Date, Liters: Round(totals[i], 1), Trend: Round(trends[i], 1)}
		chart.Total += totals[i]
	}
	chart.Total = Round(chart.Total, 1)
	if len(buckets) > 0 {
		chart.AvgPerPeriod = Round(chart.Total/float64(len(buckets)), 1)
	}
	return chart
}

// Performer ranks one animal's production.
type Performer struct {
	ID        string  `json:"id"`
	TagNumber string  `json:"tagNumber"`
	Name      string  `json:"name"`
	AvgDaily  float64 `json:"avgDaily"`
	Total     float64 `json:"total"`
	Trend     float64 `json:"trend"`
}

type performerAcc struct {
	Performer
	count                      int
	recentTotal, previousTotal float64
	recentCount, previousCount int
}

// PerformerWindow is how far back TopPerformers looks: the trend week plus its
// baseline week.
const PerformerWindow = 14 * 24 * time.Hour

// TopPerformers ranks animals by mean liters per record and returns the top n.
// Trend compares the mean of the last 7 days with the 7 days before. Records
// without an animal are skipped.
func TopPerformers(records []models.MilkRecord, now time.Time, n int) []Performer {
	oneWeekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	byCattle := make(map[string]*performerAcc)
	var order []string
	for _, r := range records {
		if r.CattleID == nil {
			continue
		}
		acc, ok := byCattle[*r.CattleID]
		if !ok {
			acc = &performerAcc{Performer: Performer{ID: *r.CattleID}}
			if r.Cattle != nil {
				acc.TagNumber = r.Cattle.TagNumber
				if r.Cattle.Name != nil {
					acc.Name = *r.Cattle.Name
				}
			}
			byCattle[*r.CattleID] = acc
			order = append(order, *r.CattleID)
		}
		acc.Total += r.Liters
		acc.count++
		switch {
		case !r.Date.Before(oneWeekAgo):
			acc.recentTotal += r.Liters
			acc.recentCount++
		case !r.Date.Before(twoWeeksAgo):
			acc.previousTotal += r.Liters
			acc.previousCount++
		}
	}

	out := make([]Performer, 0, len(order))
	for _, id := range order {
		acc := byCattle[id]
		p := acc.Performer
		p.AvgDaily = Round(acc.Total/float64(acc.count), 1)
		p.Total = Round(acc.Total, 1)
		var recent, previous float64
		if acc.recentCount > 0 {
			recent = acc.recentTotal / float64(acc.recentCount)
		}
		if acc.previousCount > 0 {
			previous = acc.previousTotal / float64(acc.previousCount)
		}
		p.Trend = Round(TrendPercent(recent, previous), 1)
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgDaily > out[j].AvgDaily })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

package stats

import "math"

const (
	minTrend = -100
	maxTrend = 1000
)

// TrendPercent is the percentage change from previous to current, clamped to
// [-100, 1000]. A non-positive baseline or a non-finite result yields 0.
func TrendPercent(current, previous float64) float64 {
	if previous <= 0 || math.IsNaN(previous) || math.IsNaN(current) {
		return 0
	}
	trend := (current - previous) / previous * 100
	if math.IsNaN(trend) || math.IsInf(trend, 0) {
		return 0
	}
	return math.Max(minTrend, math.Min(maxTrend, trend))
}

// PeriodTrends returns the trend of each value against the one before it. The
// first entry is always 0.
func PeriodTrends(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		out[i] = TrendPercent(values[i], values[i-1])
	}
	return out
}

// OverallTrend compares the last value with the one before it.
func OverallTrend(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return TrendPercent(values[len(values)-1], values[len(values)-2])
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

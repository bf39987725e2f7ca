package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// FeedSummary aggregates the feed inventory page.
type FeedSummary struct {
	TotalItems    int     `json:"totalItems"`
	LowStock      int     `json:"lowStock"`
	Expired       int     `json:"expired"`
	TotalValue    float64 `json:"totalValue"`
	TotalQuantity float64 `json:"totalQuantity"`
	ExpiringSoon  int     `json:"expiringSoon"`
}

// SummarizeFeed computes FeedSummary. Money and quantity sums use decimal arithmetic.
func SummarizeFeed(items []models.FeedInventory, now time.Time) FeedSummary {
	out := FeedSummary{TotalItems: len(items)}
	value := decimal.Zero
	quantity := decimal.Zero

	for _, it := range items {
		switch StockStatusOf(it.Quantity, it.MinThreshold, it.ExpiryDate, now) {
		case models.StockLow:
			out.LowStock++
		case models.StockExpired:
			out.Expired++
		}
		if IsExpiringSoon(it.ExpiryDate, now) {
			out.ExpiringSoon++
		}
		q := decimal.NewFromFloat(it.Quantity)
		quantity = quantity.Add(q)
		if it.Cost != nil {
			value = value.Add(decimal.NewFromFloat(*it.Cost).Mul(q))
		}
	}

	out.TotalValue = value.Round(2).InexactFloat64()
	out.TotalQuantity = quantity.Round(2).InexactFloat64()
	return out
}

// HealthSummary aggregates the health management page.
type HealthSummary struct {
	Total       int     `json:"total"`
	Pending     int     `json:"pending"`
	Overdue     int     `json:"overdue"`
	Completed   int     `json:"completed"`
	DueToday    int     `json:"dueToday"`
	DueThisWeek int     `json:"dueThisWeek"`
	TotalCost   float64 `json:"totalCost"`
}

// SummarizeHealth computes HealthSummary. Due counts only consider PENDING records.
func SummarizeHealth(records []models.HealthRecord, now time.Time) HealthSummary {
	out := HealthSummary{Total: len(records)}
	cost := decimal.Zero

	for _, r := range records {
		switch r.Status {
		case models.HealthPending:
			out.Pending++
			days := DaysUntilDue(r.ScheduledDate, now)
			if days == 0 {
				out.DueToday++
			}
			if days >= 0 && days <= 7 {
				out.DueThisWeek++
			}
		case models.HealthOverdue:
			out.Overdue++
		case models.HealthCompleted:
			out.Completed++
		}
		if r.Cost != nil {
			cost = cost.Add(decimal.NewFromFloat(*r.Cost))
		}
	}

	out.TotalCost = cost.Round(2).InexactFloat64()
	return out
}

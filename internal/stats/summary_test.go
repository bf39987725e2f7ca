package stats

import (
	"testing"
	"time"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

func TestSummarizeFeed(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	cost := 0.1
	expired := now.AddDate(0, 0, -1)
	soon := now.AddDate(0, 0, 10)
	items := []models.FeedInventory{
		{Quantity: 1000, MinThreshold: 200, Cost: &cost},
		{Quantity: 100, MinThreshold: 200, ExpiryDate: &soon},
		{Quantity: 300, MinThreshold: 50, ExpiryDate: &expired, Cost: &cost},
	}

	got := SummarizeFeed(items, now)
	want := FeedSummary{TotalItems: 3, LowStock: 1, Expired: 1, TotalValue: 130, TotalQuantity: 1400, ExpiringSoon: 1}
	if got != want {
		t.Fatalf("SummarizeFeed = %+v, want %+v", got, want)
	}
}

func TestSummarizeHealth(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	c1, c2 := 10.10, 20.20
	records := []models.HealthRecord{
		{Status: models.HealthPending, ScheduledDate: now, Cost: &c1},
		{Status: models.HealthPending, ScheduledDate: now.AddDate(0, 0, 3), Cost: &c2},
		{Status: models.HealthPending, ScheduledDate: now.AddDate(0, 0, 20)},
		{Status: models.HealthOverdue, ScheduledDate: now.AddDate(0, 0, -3)},
		{Status: models.HealthCompleted, ScheduledDate: now.AddDate(0, 0, -5)},
	}

	got := SummarizeHealth(records, now)
	want := HealthSummary{Total: 5, Pending: 3, Overdue: 1, Completed: 1, DueToday: 1, DueThisWeek: 2, TotalCost: 30.3}
	if got != want {
		t.Fatalf("SummarizeHealth = %+v, want %+v", got, want)
	}
}

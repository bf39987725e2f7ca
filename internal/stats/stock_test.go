package stats

import (
	"testing"
	"time"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

func TestDaysUntilRestock(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		min      float64
		usage    []float64
		want     *int
	}{
		{name: "no history", quantity: 100, min: 10, usage: nil, want: nil},
		{name: "zero usage", quantity: 100, min: 10, usage: []float64{0, 0}, want: nil},
		{name: "floors", quantity: 100, min: 10, usage: []float64{20, 20}, want: intPtr(4)},
		{name: "only last seven", quantity: 110, min: 10, usage: []float64{10, 10, 10, 10, 10, 10, 10, 1000}, want: intPtr(10)},
		{name: "below threshold", quantity: 5, min: 10, usage: []float64{10}, want: intPtr(-1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DaysUntilRestock(tc.quantity, tc.min, tc.usage)
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("expected nil, got %d", *got)
			case tc.want != nil && got == nil:
				t.Fatalf("expected %d, got nil", *tc.want)
			case tc.want != nil && *got != *tc.want:
				t.Fatalf("expected %d, got %d", *tc.want, *got)
			}
		})
	}
}

func TestStockStatusOf(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.AddDate(0, 2, 0)

	if got := StockStatusOf(5, 10, &past, now); got != models.StockExpired {
		t.Fatalf("expected EXPIRED to win, got %s", got)
	}
	if got := StockStatusOf(10, 10, &future, now); got != models.StockLow {
		t.Fatalf("expected LOW at threshold, got %s", got)
	}
	if got := StockStatusOf(11, 10, nil, now); got != models.StockGood {
		t.Fatalf("expected GOOD, got %s", got)
	}
}

func TestIsExpiringSoon(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	in := func(d time.Duration) *time.Time { v := now.Add(d); return &v }

	if IsExpiringSoon(nil, now) {
		t.Fatalf("nil expiry cannot expire")
	}
	if !IsExpiringSoon(in(29*day), now) {
		t.Fatalf("29 days should be soon")
	}
	if IsExpiringSoon(in(31*day), now) {
		t.Fatalf("31 days should not be soon")
	}
	if IsExpiringSoon(in(-2*day), now) {
		t.Fatalf("already expired is not expiring soon")
	}
}

func TestDaysUntilDue(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	if got := DaysUntilDue(now.Add(36*time.Hour), now); got != 2 {
		t.Fatalf("expected ceil to 2, got %d", got)
	}
	if got := DaysUntilDue(now.Add(-36*time.Hour), now); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

func intPtr(v int) *int { return &v }

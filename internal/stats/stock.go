// Package stats computes derived indicators over fetched rows. Every function is
// pure; callers pass the reference time.
package stats

import (
	"math"
	"time"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

const (
	restockWindow      = 7
	expiringSoonWindow = 30
	day                = 24 * time.Hour
)

// DaysUntilRestock projects how many days of stock remain above minThreshold from
// the average of the most recent usages. usage is ordered newest first. It returns
// nil without usage history or when the average is not positive.
func DaysUntilRestock(quantity, minThreshold float64, usage []float64) *int {
	if len(usage) == 0 {
		return nil
	}
	if len(usage) > restockWindow {
		usage = usage[:restockWindow]
	}

	var total float64
	for _, u := range usage {
		total += u
	}
	avg := total / float64(len(usage))
	if avg <= 0 || math.IsNaN(avg) {
		return nil
	}

	days := int(math.Floor((quantity - minThreshold) / avg))
	return &days
}

// StockStatusOf classifies an inventory item. Expiry wins over low stock.
func StockStatusOf(quantity, minThreshold float64, expiry *time.Time, now time.Time) models.StockStatus {
	if expiry != nil && expiry.Before(now) {
		return models.StockExpired
	}
	if quantity <= minThreshold {
		return models.StockLow
	}
	return models.StockGood
}

// IsExpiringSoon reports whether expiry falls within the next 30 days.
func IsExpiringSoon(expiry *time.Time, now time.Time) bool {
	if expiry == nil {
		return false
	}
	days := ceilDays(expiry.Sub(now))
	return days >= 0 && days <= expiringSoonWindow
}

// DaysUntilDue counts whole days until scheduled, rounding up. Negative means overdue.
func DaysUntilDue(scheduled, now time.Time) int {
	return ceilDays(scheduled.Sub(now))
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(day)))
}

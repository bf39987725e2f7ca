package sqldb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// SummaryRepository persists DailySummary rollups.
type SummaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Upsert inserts s or overwrites the row stored for the same date, then reloads s.
func (r *SummaryRepository) Upsert(ctx context.Context, s *models.DailySummary) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_cattle", "male_count", "female_count", "calf_count",
			"total_milk_liters", "avg_milk_per_cow",
			"feed_hay_used", "feed_concentrate_used", "feed_silage_used",
			"updated_at",
		}),
	}).Create(s).Error
	if err != nil {
		return fmt.Errorf("failed to upsert daily summary: %w", err)
	}
	var stored models.DailySummary
	if err := r.db.WithContext(ctx).First(&stored, "date = ?", s.Date).Error; err != nil {
		return fmt.Errorf("failed to reload daily summary: %w", err)
	}
	*s = stored
	return nil
}

// Between returns summaries dated in [from, to], oldest first. Zero bounds are open.
func (r *SummaryRepository) Between(ctx context.Context, from, to time.Time) ([]models.DailySummary, error) {
	q := r.db.WithContext(ctx)
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to)
	}
	var out []models.DailySummary
	if err := q.Order("date ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list daily summaries: %w", err)
	}
	return out, nil
}

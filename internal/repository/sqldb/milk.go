package sqldb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// MilkFilter narrows a milk record listing. Zero values disable a filter.
type MilkFilter struct {
	CattleID string
	From     time.Time
	To       time.Time
	Session  models.MilkSession
	Limit    int
}

// DayMilk is the production of one day.
type DayMilk struct {
	TotalLiters  float64
	MilkedCattle int64
}

// MilkRepository persists milk records.
type MilkRepository struct {
	db *gorm.DB
}

func NewMilkRepository(db *gorm.DB) *MilkRepository {
	return &MilkRepository{db: db}
}

// List returns matching records by date descending with their cattle loaded.
func (r *MilkRepository) List(ctx context.Context, f MilkFilter) ([]models.MilkRecord, error) {
	q := r.db.WithContext(ctx).Preload("Cattle")
	if f.CattleID != "" {
		q = q.Where("cattle_id = ?", f.CattleID)
	}
	if !f.From.IsZero() {
		q = q.Where("date >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("date <= ?", f.To)
	}
	if f.Session != "" {
		q = q.Where("session = ?", f.Session)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []models.MilkRecord
	if err := q.Order("date DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list milk records: %w", err)
	}
	return out, nil
}

func (r *MilkRepository) Create(ctx context.Context, rec *models.MilkRecord) error {
	if err := r.db.WithContext(ctx).Omit("Cattle").Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create milk record: %w", err)
	}
	return nil
}

// Between returns records dated in [from, to) ordered by date ascending, with
// their cattle loaded.
func (r *MilkRepository) Between(ctx context.Context, from, to time.Time) ([]models.MilkRecord, error) {
	var out []models.MilkRecord
	err := r.db.WithContext(ctx).Preload("Cattle").
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load milk records: %w", err)
	}
	return out, nil
}

// SumLiters totals the liters recorded in [from, to).
func (r *MilkRepository) SumLiters(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.MilkRecord{}).
		Select("COALESCE(SUM(liters), 0)").
		Where("date >= ? AND date < ?", from, to).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum milk liters: %w", err)
	}
	return total, nil
}

// Day totals a day's production and the number of distinct animals milked.
func (r *MilkRepository) Day(ctx context.Context, from, to time.Time) (DayMilk, error) {
	var out DayMilk
	err := r.db.WithContext(ctx).Model(&models.MilkRecord{}).
		Select("COALESCE(SUM(liters), 0) AS total_liters, COUNT(DISTINCT cattle_id) AS milked_cattle").
		Where("date >= ? AND date < ?", from, to).
		Scan(&out).Error
	if err != nil {
		return DayMilk{}, fmt.Errorf("failed to total milk for day: %w", err)
	}
	return out, nil
}

// RecentForCattle returns the last n records of one animal by date descending.
func (r *MilkRepository) RecentForCattle(ctx context.Context, cattleID string, n int) ([]models.MilkRecord, error) {
	var out []models.MilkRecord
	err := r.db.WithContext(ctx).
		Where("cattle_id = ?", cattleID).
		Order("date DESC").
		Limit(n).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load milk records for %s: %w", cattleID, err)
	}
	return out, nil
}

// CountByCattle returns the number of milk records per animal.
func (r *MilkRepository) CountByCattle(ctx context.Context, cattleIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(cattleIDs))
	if len(cattleIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		CattleID string
		N        int64
	}
	err := r.db.WithContext(ctx).Model(&models.MilkRecord{}).
		Select("cattle_id, COUNT(*) AS n").
		Where("cattle_id IN ?", cattleIDs).
		Group("cattle_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count milk records: %w", err)
	}
	for _, row := range rows {
		out[row.CattleID] = row.N
	}
	return out, nil
}

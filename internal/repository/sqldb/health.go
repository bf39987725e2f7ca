package sqldb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// HealthFilter narrows a health record listing.
type HealthFilter struct {
	Status     models.HealthStatus
	RecordType models.HealthRecordType
}

// HealthRepository persists veterinary events.
type HealthRepository struct {
	db *gorm.DB
}

func NewHealthRepository(db *gorm.DB) *HealthRepository {
	return &HealthRepository{db: db}
}

// List returns matching records, newest first, with their cattle loaded.
func (r *HealthRepository) List(ctx context.Context, f HealthFilter) ([]models.HealthRecord, error) {
	q := r.db.WithContext(ctx).Preload("Cattle")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.RecordType != "" {
		q = q.Where("record_type = ?", f.RecordType)
	}

	var out []models.HealthRecord
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list health records: %w", err)
	}
	return out, nil
}

func (r *HealthRepository) Get(ctx context.Context, id string) (*models.HealthRecord, error) {
	var rec models.HealthRecord
	if err := r.db.WithContext(ctx).Preload("Cattle").First(&rec, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load health record %s: %w", id, err)
	}
	return &rec, nil
}

func (r *HealthRepository) Create(ctx context.Context, rec *models.HealthRecord) error {
	if err := r.db.WithContext(ctx).Omit("Cattle").Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create health record: %w", err)
	}
	return nil
}

// Update overwrites every column of rec.
func (r *HealthRepository) Update(ctx context.Context, rec *models.HealthRecord) error {
	res := r.db.WithContext(ctx).Select("*").Omit("ID", "Cattle", "CreatedAt").Where("id = ?", rec.ID).Updates(rec)
	if res.Error != nil {
		return fmt.Errorf("failed to update health record %s: %w", rec.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update health record %s: %w", rec.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *HealthRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.HealthRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete health record %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to delete health record %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// Complete marks a record COMPLETED at the given time. A nil notes keeps the stored notes.
func (r *HealthRepository) Complete(ctx context.Context, id string, at time.Time, notes *string) error {
	updates := map[string]interface{}{
		"status":         models.HealthCompleted,
		"completed_date": at,
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	res := r.db.WithContext(ctx).Model(&models.HealthRecord{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to complete health record %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to complete health record %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// NextOpen returns, per animal, the earliest PENDING or OVERDUE record.
func (r *HealthRepository) NextOpen(ctx context.Context, cattleIDs []string) (map[string]models.HealthRecord, error) {
	out := make(map[string]models.HealthRecord, len(cattleIDs))
	if len(cattleIDs) == 0 {
		return out, nil
	}
	var open []models.HealthRecord
	err := r.db.WithContext(ctx).
		Where("cattle_id IN ? AND status IN ?", cattleIDs, []models.HealthStatus{models.HealthPending, models.HealthOverdue}).
		Order("scheduled_date ASC").
		Find(&open).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load open health records: %w", err)
	}
	for _, rec := range open {
		if _, seen := out[rec.CattleID]; !seen {
			out[rec.CattleID] = rec
		}
	}
	return out, nil
}

// CountPendingBetween counts PENDING records scheduled in [from, to].
func (r *HealthRepository) CountPendingBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.HealthRecord{}).
		Where("status = ? AND scheduled_date >= ? AND scheduled_date <= ?", models.HealthPending, from, to).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count due health records: %w", err)
	}
	return n, nil
}

// MarkOverdue flips PENDING records scheduled before cutoff to OVERDUE.
func (r *HealthRepository) MarkOverdue(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.HealthRecord{}).
		Where("status = ? AND scheduled_date < ?", models.HealthPending, cutoff).
		Update("status", models.HealthOverdue)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark overdue health records: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Open returns PENDING or OVERDUE records scheduled up to until, oldest first.
func (r *HealthRepository) Open(ctx context.Context, until time.Time) ([]models.HealthRecord, error) {
	var out []models.HealthRecord
	err := r.db.WithContext(ctx).Preload("Cattle").
		Where("status IN ? AND scheduled_date <= ?", []models.HealthStatus{models.HealthPending, models.HealthOverdue}, until).
		Order("scheduled_date ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load open health records: %w", err)
	}
	return out, nil
}

package sqldb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// HerdCounts are point-in-time tallies over ACTIVE animals.
type HerdCounts struct {
	Total  int64
	Male   int64
	Female int64
	Calves int64
	Cows   int64
}

// CattleRepository persists the herd.
type CattleRepository struct {
	db *gorm.DB
}

// NewCattleRepository builds a CattleRepository.
func NewCattleRepository(db *gorm.DB) *CattleRepository {
	return &CattleRepository{db: db}
}

// List returns every animal, newest first, with its mother loaded.
func (r *CattleRepository) List(ctx context.Context) ([]models.Cattle, error) {
	var out []models.Cattle
	if err := r.db.WithContext(ctx).Preload("Mother").Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list cattle: %w", err)
	}
	return out, nil
}

// Get loads one animal with its mother. Missing rows return gorm.ErrRecordNotFound.
func (r *CattleRepository) Get(ctx context.Context, id string) (*models.Cattle, error) {
	var c models.Cattle
	if err := r.db.WithContext(ctx).Preload("Mother").First(&c, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load cattle %s: %w", id, err)
	}
	return &c, nil
}

// Exists reports whether an animal with id is stored.
func (r *CattleRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Cattle{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check cattle %s: %w", id, err)
	}
	return n > 0, nil
}

// TagTaken reports whether tag belongs to an animal other than excludeID.
func (r *CattleRepository) TagTaken(ctx context.Context, tag, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Cattle{}).Where("tag_number = ?", tag)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check tag number: %w", err)
	}
	return n > 0, nil
}

func (r *CattleRepository) Create(ctx context.Context, c *models.Cattle) error {
	if err := r.db.WithContext(ctx).Omit("Mother").Create(c).Error; err != nil {
		return fmt.Errorf("failed to create cattle: %w", err)
	}
	return nil
}

// Update overwrites every column of c.
func (r *CattleRepository) Update(ctx context.Context, c *models.Cattle) error {
	res := r.db.WithContext(ctx).Omit("ID", "Mother", "CreatedAt").Select("*").Where("id = ?", c.ID).Updates(c)
	if res.Error != nil {
		return fmt.Errorf("failed to update cattle %s: %w", c.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update cattle %s: %w", c.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete removes an animal. Health records cascade, milk and offspring links are nulled.
func (r *CattleRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Cattle{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cattle %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to delete cattle %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// Offspring groups the children of the given mothers by mother ID.
func (r *CattleRepository) Offspring(ctx context.Context, motherIDs []string) (map[string][]models.Cattle, error) {
	out := make(map[string][]models.Cattle)
	if len(motherIDs) == 0 {
		return out, nil
	}
	var children []models.Cattle
	if err := r.db.WithContext(ctx).Where("mother_id IN ?", motherIDs).Order("date_of_birth ASC").Find(&children).Error; err != nil {
		return nil, fmt.Errorf("failed to load offspring: %w", err)
	}
	for _, c := range children {
		out[*c.MotherID] = append(out[*c.MotherID], c)
	}
	return out, nil
}

// ActiveCounts tallies the ACTIVE herd by gender and category.
func (r *CattleRepository) ActiveCounts(ctx context.Context) (HerdCounts, error) {
	var counts HerdCounts
	err := r.db.WithContext(ctx).Model(&models.Cattle{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN gender = ? THEN 1 ELSE 0 END), 0) AS male,
			COALESCE(SUM(CASE WHEN gender = ? THEN 1 ELSE 0 END), 0) AS female,
			COALESCE(SUM(CASE WHEN category = ? THEN 1 ELSE 0 END), 0) AS calves,
			COALESCE(SUM(CASE WHEN category = ? THEN 1 ELSE 0 END), 0) AS cows`,
			models.GenderMale, models.GenderFemale, models.CategoryCalf, models.CategoryCow).
		Where("status = ?", models.CattleActive).
		Scan(&counts).Error
	if err != nil {
		return HerdCounts{}, fmt.Errorf("failed to count active cattle: %w", err)
	}
	return counts, nil
}

// IsNotFound reports whether err wraps gorm's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err wraps a unique-key violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

package sqldb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// InsufficientStockError is returned when a usage exceeds the stored quantity.
type InsufficientStockError struct {
	Available float64
	Requested float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient feed stock: available %.2f, requested %.2f", e.Available, e.Requested)
}

// RestockPatch increments an inventory. Nil optional fields keep the stored values.
type RestockPatch struct {
	QuantityAdded float64
	At            time.Time
	Cost          *float64
	Supplier      *string
	ExpiryDate    *time.Time
}

// FeedRepository persists feed inventory and its usage ledger.
type FeedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// List returns every inventory item, newest first.
func (r *FeedRepository) List(ctx context.Context) ([]models.FeedInventory, error) {
	var out []models.FeedInventory
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list feed inventory: %w", err)
	}
	return out, nil
}

func (r *FeedRepository) Get(ctx context.Context, id string) (*models.FeedInventory, error) {
	var inv models.FeedInventory
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load feed inventory %s: %w", id, err)
	}
	return &inv, nil
}

func (r *FeedRepository) Create(ctx context.Context, inv *models.FeedInventory) error {
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		return fmt.Errorf("failed to create feed inventory: %w", err)
	}
	return nil
}

// Update overwrites every column of inv.
func (r *FeedRepository) Update(ctx context.Context, inv *models.FeedInventory) error {
	res := r.db.WithContext(ctx).Select("*").Omit("ID", "CreatedAt").Where("id = ?", inv.ID).Updates(inv)
	if res.Error != nil {
		return fmt.Errorf("failed to update feed inventory %s: %w", inv.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update feed inventory %s: %w", inv.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete removes an inventory item together with its usage ledger.
func (r *FeedRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.FeedRecord{}, "inventory_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete feed records of %s: %w", id, err)
		}
		res := tx.Delete(&models.FeedInventory{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete feed inventory %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("failed to delete feed inventory %s: %w", id, gorm.ErrRecordNotFound)
		}
		return nil
	})
}

// Usage returns ledger entries by date descending, optionally for one inventory.
// A limit of zero returns every entry.
func (r *FeedRepository) Usage(ctx context.Context, inventoryID string, limit int) ([]models.FeedRecord, error) {
	q := r.db.WithContext(ctx).Preload("Inventory")
	if inventoryID != "" {
		q = q.Where("inventory_id = ?", inventoryID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []models.FeedRecord
	if err := q.Order("date DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list feed usage: %w", err)
	}
	return out, nil
}

// CountUsage returns the number of ledger entries per inventory item.
func (r *FeedRepository) CountUsage(ctx context.Context, inventoryIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(inventoryIDs))
	if len(inventoryIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		InventoryID string
		N           int64
	}
	err := r.db.WithContext(ctx).Model(&models.FeedRecord{}).
		Select("inventory_id, COUNT(*) AS n").
		Where("inventory_id IN ?", inventoryIDs).
		Group("inventory_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count feed usage: %w", err)
	}
	for _, row := range rows {
		out[row.InventoryID] = row.N
	}
	return out, nil
}

// Consume debits rec.QuantityUsed from its inventory and appends rec to the ledger
// in one transaction. The decrement is conditional, so stock never goes negative.
func (r *FeedRepository) Consume(ctx context.Context, rec *models.FeedRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.FeedInventory{}).
			Where("id = ? AND quantity >= ?", rec.InventoryID, rec.QuantityUsed).
			Update("quantity", gorm.Expr("quantity - ?", rec.QuantityUsed))
		if res.Error != nil {
			return fmt.Errorf("failed to decrement feed stock: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			var inv models.FeedInventory
			if err := tx.Select("id", "quantity").First(&inv, "id = ?", rec.InventoryID).Error; err != nil {
				return fmt.Errorf("failed to load feed inventory %s: %w", rec.InventoryID, err)
			}
			return &InsufficientStockError{Available: inv.Quantity, Requested: rec.QuantityUsed}
		}

		if err := tx.Omit("Inventory").Create(rec).Error; err != nil {
			return fmt.Errorf("failed to record feed usage: %w", err)
		}
		return nil
	})
}

// ConsumeClamped debits up to rec.QuantityUsed, stopping at zero, and appends rec.
// Used by the seed command, which never rejects usage.
func (r *FeedRepository) ConsumeClamped(ctx context.Context, rec *models.FeedRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.FeedInventory{}).
			Where("id = ?", rec.InventoryID).
			Update("quantity", gorm.Expr("CASE WHEN quantity > ? THEN quantity - ? ELSE 0 END", rec.QuantityUsed, rec.QuantityUsed))
		if res.Error != nil {
			return fmt.Errorf("failed to decrement feed stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("failed to decrement feed stock %s: %w", rec.InventoryID, gorm.ErrRecordNotFound)
		}
		if err := tx.Omit("Inventory").Create(rec).Error; err != nil {
			return fmt.Errorf("failed to record feed usage: %w", err)
		}
		return nil
	})
}

// Restock atomically increments an inventory and returns the updated row.
func (r *FeedRepository) Restock(ctx context.Context, id string, patch RestockPatch) (*models.FeedInventory, error) {
	var inv models.FeedInventory
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"quantity":       gorm.Expr("quantity + ?", patch.QuantityAdded),
			"last_restocked": patch.At,
		}
		if patch.Cost != nil {
			updates["cost"] = *patch.Cost
		}
		if patch.Supplier != nil {
			updates["supplier"] = *patch.Supplier
		}
		if patch.ExpiryDate != nil {
			updates["expiry_date"] = *patch.ExpiryDate
		}

		res := tx.Model(&models.FeedInventory{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to restock feed inventory %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("failed to restock feed inventory %s: %w", id, gorm.ErrRecordNotFound)
		}
		return tx.First(&inv, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// UsageByType totals ledger quantities in [from, to) per feed type.
func (r *FeedRepository) UsageByType(ctx context.Context, from, to time.Time) (map[models.FeedType]float64, error) {
	var rows []struct {
		FeedType models.FeedType
		Total    float64
	}
	err := r.db.WithContext(ctx).
		Table("feed_records").
		Select("feed_inventories.feed_type AS feed_type, COALESCE(SUM(feed_records.quantity_used), 0) AS total").
		Joins("JOIN feed_inventories ON feed_inventories.id = feed_records.inventory_id").
		Where("feed_records.date >= ? AND feed_records.date < ?", from, to).
		Group("feed_inventories.feed_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to total feed usage: %w", err)
	}
	out := make(map[models.FeedType]float64, len(rows))
	for _, row := range rows {
		out[row.FeedType] = row.Total
	}
	return out, nil
}

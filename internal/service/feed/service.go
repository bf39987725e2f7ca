// Package feed tracks feed stock and its usage ledger.
package feed

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/apperr"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/sqldb"
	"github.com/mamadbah2/herdbook/internal/stats"
	"github.com/mamadbah2/herdbook/internal/validation"
)

const (
	listedRecords = 10
	restockWindow = 7
	usageLimit    = 100
)

// Input is the create and full-update payload of an inventory item.
type Input struct {
	FeedType      models.FeedType `json:"feedType" validate:"enum"`
	Quantity      float64         `json:"quantity" validate:"gt=0"`
	Unit          string          `json:"unit"`
	MinThreshold  *float64        `json:"minThreshold" validate:"required,gte=0"`
	Cost          *float64        `json:"cost" validate:"omitempty,gte=0"`
	Supplier      *string         `json:"supplier"`
	LastRestocked *string         `json:"lastRestocked"`
	ExpiryDate    *string         `json:"expiryDate"`
}

var inputMessages = validation.Messages{
	"FeedType":     "Valid feed type is required",
	"Quantity":     "Valid quantity (greater than 0) is required",
	"MinThreshold": "Valid minimum threshold (0 or greater) is required",
	"Cost":         "Cost cannot be negative",
}

// UsageInput debits stock.
type UsageInput struct {
	InventoryID  string            `json:"inventoryId" validate:"required"`
	Date         string            `json:"date" validate:"required"`
	QuantityUsed validation.Number `json:"quantityUsed" validate:"gt=0"`
	Notes        *string           `json:"notes"`
}

var usageMessages = validation.Messages{
	"InventoryID":  "Inventory ID is required",
	"Date":         "Date is required",
	"QuantityUsed": "Valid quantity used (greater than 0) is required",
}

// RestockInput credits stock.
type RestockInput struct {
	InventoryID   string   `json:"inventoryId" validate:"required"`
	QuantityAdded float64  `json:"quantityAdded" validate:"gt=0"`
	Cost          *float64 `json:"cost" validate:"omitempty,gte=0"`
	Supplier      *string  `json:"supplier"`
	ExpiryDate    *string  `json:"expiryDate"`
}

var restockMessages = validation.Messages{
	"InventoryID":   "Inventory ID is required",
	"QuantityAdded": "Valid quantity added (greater than 0) is required",
	"Cost":          "Cost cannot be negative",
}

// Count mirrors the ledger counter of an inventory item.
type Count struct {
	FeedRecords int64 `json:"feedRecords"`
}

// InventoryView is an inventory item with its recent ledger and derived indicators.
type InventoryView struct {
	models.FeedInventory
	FeedRecords      []models.FeedRecord `json:"feedRecords"`
	Count            Count               `json:"_count"`
	DaysUntilRestock *int                `json:"daysUntilRestock"`
	StockStatus      models.StockStatus  `json:"stockStatus"`
	ExpiringSoon     bool                `json:"expiringSoon"`
}

// InventorySummary is the inventory attached to a ledger entry.
type InventorySummary struct {
	ID       string          `json:"id"`
	FeedType models.FeedType `json:"feedType"`
}

// UsageView is a ledger entry with its inventory.
type UsageView struct {
	models.FeedRecord
	Inventory *InventorySummary `json:"inventory"`
}

func usageView(rec models.FeedRecord) UsageView {
	v := UsageView{FeedRecord: rec}
	if rec.Inventory != nil {
		v.Inventory = &InventorySummary{ID: rec.Inventory.ID, FeedType: rec.Inventory.FeedType}
	}
	return v
}

// Service implements the feed operations.
type Service struct {
	stores *sqldb.Stores
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

func NewService(stores *sqldb.Stores, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{stores: stores, loc: loc, now: time.Now, logger: logger}
}

// List returns every item, newest first, with its last ten ledger entries.
func (s *Service) List(ctx context.Context) ([]InventoryView, error) {
	items, err := s.stores.Feed.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch feed inventory", err)
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	counts, err := s.stores.Feed.CountUsage(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch feed inventory", err)
	}

	out := make([]InventoryView, 0, len(items))
	for _, it := range items {
		var recent []models.FeedRecord
		if counts[it.ID] > 0 {
			recent, err = s.stores.Feed.Usage(ctx, it.ID, listedRecords)
			if err != nil {
				return nil, apperr.Internal("Failed to fetch feed inventory", err)
			}
		}
		out = append(out, s.view(it, recent, counts[it.ID]))
	}
	return out, nil
}

// Get returns one item with its full ledger.
func (s *Service) Get(ctx context.Context, id string) (*InventoryView, error) {
	it, err := s.stores.Feed.Get(ctx, id)
	if sqldb.IsNotFound(err) {
		return nil, apperr.NotFound("Feed inventory not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to fetch feed inventory", err)
	}
	records, err := s.stores.Feed.Usage(ctx, id, 0)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch feed inventory", err)
	}
	v := s.view(*it, records, int64(len(records)))
	return &v, nil
}

func (s *Service) view(it models.FeedInventory, records []models.FeedRecord, count int64) InventoryView {
	if records == nil {
		records = []models.FeedRecord{}
	}
	usage := make([]float64, 0, restockWindow)
	for i := 0; i < len(records) && i < restockWindow; i++ {
		usage = append(usage, records[i].QuantityUsed)
	}
	now := s.now()
	return InventoryView{
		FeedInventory:    it,
		FeedRecords:      records,
		Count:            Count{FeedRecords: count},
		DaysUntilRestock: stats.DaysUntilRestock(it.Quantity, it.MinThreshold, usage),
		StockStatus:      stats.StockStatusOf(it.Quantity, it.MinThreshold, it.ExpiryDate, now),
		ExpiringSoon:     stats.IsExpiringSoon(it.ExpiryDate, now),
	}
}

// Create adds an inventory item. Unit defaults to kg, lastRestocked to now.
func (s *Service) Create(ctx context.Context, in Input) (*InventoryView, error) {
	it, err := s.build(in)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Feed.Create(ctx, it); err != nil {
		return nil, apperr.Internal("Failed to create feed inventory", err)
	}
	s.logger.Info("feed inventory created", zap.String("inventory_id", it.ID), zap.String("type", string(it.FeedType)))
	v := s.view(*it, nil, 0)
	return &v, nil
}

// Update replaces every field of an item.
func (s *Service) Update(ctx context.Context, id string, in Input) (*InventoryView, error) {
	existing, err := s.stores.Feed.Get(ctx, id)
	if sqldb.IsNotFound(err) {
		return nil, apperr.NotFound("Feed inventory not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to update feed inventory", err)
	}

	it, err := s.build(in)
	if err != nil {
		return nil, err
	}
	it.ID = id
	if in.LastRestocked == nil {
		it.LastRestocked = existing.LastRestocked
	}
	if err := s.stores.Feed.Update(ctx, it); err != nil {
		if sqldb.IsNotFound(err) {
			return nil, apperr.NotFound("Feed inventory not found")
		}
		return nil, apperr.Internal("Failed to update feed inventory", err)
	}
	return s.Get(ctx, id)
}

// Delete removes an item and its ledger.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.stores.Feed.Delete(ctx, id); err != nil {
		if sqldb.IsNotFound(err) {
			return apperr.NotFound("Feed inventory not found")
		}
		return apperr.Internal("Failed to delete feed inventory", err)
	}
	return nil
}

// ListUsage returns the 100 most recent ledger entries, optionally for one item.
func (s *Service) ListUsage(ctx context.Context, inventoryID string) ([]UsageView, error) {
	records, err := s.stores.Feed.Usage(ctx, inventoryID, usageLimit)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch feed records", err)
	}
	out := make([]UsageView, 0, len(records))
	for _, rec := range records {
		out = append(out, usageView(rec))
	}
	return out, nil
}

// RecordUsage debits stock and appends a ledger entry atomically.
func (s *Service) RecordUsage(ctx context.Context, in UsageInput) (*UsageView, error) {
	in.InventoryID = strings.TrimSpace(in.InventoryID)
	if err := validation.Struct(in, usageMessages); err != nil {
		return nil, err
	}
	date, err := validation.ParseDate(in.Date, s.loc)
	if err != nil {
		return nil, apperr.Validation("Date is required")
	}

	rec := &models.FeedRecord{
		InventoryID:  in.InventoryID,
		Date:         date,
		QuantityUsed: in.QuantityUsed.Float64(),
		Notes:        blankToNil(in.Notes),
	}
	if err := s.stores.Feed.Consume(ctx, rec); err != nil {
		var short *sqldb.InsufficientStockError
		switch {
		case errors.As(err, &short):
			return nil, apperr.ValidationWith("Insufficient inventory", map[string]any{
				"available": short.Available,
				"requested": short.Requested,
			})
		case sqldb.IsNotFound(err):
			return nil, apperr.NotFound("Feed inventory not found")
		}
		return nil, apperr.Internal("Failed to create feed record", err)
	}

	it, err := s.stores.Feed.Get(ctx, rec.InventoryID)
	if err != nil {
		return nil, apperr.Internal("Failed to create feed record", err)
	}
	rec.Inventory = it
	v := usageView(*rec)
	return &v, nil
}

// Restock credits stock atomically. Optional fields replace the stored values
// only when present.
func (s *Service) Restock(ctx context.Context, in RestockInput) (*models.FeedInventory, error) {
	in.InventoryID = strings.TrimSpace(in.InventoryID)
	if err := validation.Struct(in, restockMessages); err != nil {
		return nil, err
	}
	expiry, err := validation.OptionalDate(in.ExpiryDate, s.loc)
	if err != nil {
		return nil, apperr.Validation("Invalid expiry date")
	}

	it, err := s.stores.Feed.Restock(ctx, in.InventoryID, sqldb.RestockPatch{
		QuantityAdded: in.QuantityAdded,
		At:            s.now().UTC(),
		Cost:          in.Cost,
		Supplier:      blankToNil(in.Supplier),
		ExpiryDate:    expiry,
	})
	if sqldb.IsNotFound(err) {
		return nil, apperr.NotFound("Feed inventory not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to restock feed", err)
	}
	s.logger.Info("feed restocked", zap.String("inventory_id", it.ID), zap.Float64("added", in.QuantityAdded))
	return it, nil
}

// Stats summarizes the whole inventory.
func (s *Service) Stats(ctx context.Context) (*stats.FeedSummary, error) {
	items, err := s.stores.Feed.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch feed stats", err)
	}
	summary := stats.SummarizeFeed(items, s.now())
	return &summary, nil
}

func (s *Service) build(in Input) (*models.FeedInventory, error) {
	if err := validation.Struct(in, inputMessages); err != nil {
		return nil, err
	}
	restocked, err := validation.OptionalDate(in.LastRestocked, s.loc)
	if err != nil {
		return nil, apperr.Validation("Invalid last restocked date")
	}
	expiry, err := validation.OptionalDate(in.ExpiryDate, s.loc)
	if err != nil {
		return nil, apperr.Validation("Invalid expiry date")
	}
	if restocked == nil {
		now := s.now().UTC()
		restocked = &now
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = "kg"
	}

	return &models.FeedInventory{
		FeedType:      in.FeedType,
		Quantity:      in.Quantity,
		Unit:          unit,
		MinThreshold:  *in.MinThreshold,
		Cost:          in.Cost,
		Supplier:      blankToNil(in.Supplier),
		LastRestocked: restocked,
		ExpiryDate:    expiry,
	}, nil
}

func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

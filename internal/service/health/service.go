// Package health schedules and tracks veterinary events.
package health

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/apperr"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/sqldb"
	"github.com/mamadbah2/herdbook/internal/stats"
	"github.com/mamadbah2/herdbook/internal/validation"
)

// Input is the create and full-update payload of a health record.
type Input struct {
	CattleID        string                  `json:"cattleId" validate:"required"`
	RecordType      models.HealthRecordType `json:"recordType" validate:"enum"`
	VaccinationType *models.VaccinationType `json:"vaccinationType"`
	Description     string                  `json:"description" validate:"required"`
	ScheduledDate   string                  `json:"scheduledDate" validate:"required"`
	CompletedDate   *string                 `json:"completedDate"`
	Status          models.HealthStatus     `json:"status" validate:"omitempty,enum"`
	Veterinarian    *string                 `json:"veterinarian"`
	Cost            *float64                `json:"cost" validate:"omitempty,gte=0"`
	Notes           *string                 `json:"notes"`
}

var inputMessages = validation.Messages{
	"CattleID":      "Cattle ID is required",
	"RecordType":    "Valid record type is required",
	"Description":   "Description is required",
	"ScheduledDate": "Scheduled date is required",
	"Status":        "Invalid status value",
	"Cost":          "Cost cannot be negative",
}

// CompleteInput marks a record done.
type CompleteInput struct {
	ID    string  `json:"id"`
	Notes *string `json:"notes"`
}

// RecordView is a health record with its animal and due countdown.
type RecordView struct {
	models.HealthRecord
	Cattle       *models.CattleRef `json:"cattle"`
	DaysUntilDue int               `json:"daysUntilDue"`
}

// Service implements the health operations.
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

func (s *Service) view(rec models.HealthRecord) RecordView {
	return RecordView{
		HealthRecord: rec,
		Cattle:       rec.Cattle.Ref(),
		DaysUntilDue: stats.DaysUntilDue(rec.ScheduledDate, s.now()),
	}
}

// List returns records filtered by status and type, newest first.
func (s *Service) List(ctx context.Context, status, recordType string) ([]RecordView, error) {
	records, err := s.stores.Health.List(ctx, sqldb.HealthFilter{
		Status:     models.HealthStatus(status),
		RecordType: models.HealthRecordType(recordType),
	})
	if err != nil {
		return nil, apperr.Internal("Failed to fetch health records", err)
	}
	out := make([]RecordView, 0, len(records))
	for _, rec := range records {
		out = append(out, s.view(rec))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*RecordView, error) {
	rec, err := s.stores.Health.Get(ctx, id)
	if sqldb.IsNotFound(err) {
		return nil, apperr.NotFound("Health record not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to fetch health record", err)
	}
	v := s.view(*rec)
	return &v, nil
}

// Create schedules a new health record.
func (s *Service) Create(ctx context.Context, in Input) (*RecordView, error) {
	rec, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Health.Create(ctx, rec); err != nil {
		return nil, apperr.Internal("Failed to create health record", err)
	}
	s.logger.Info("health record created", zap.String("record_id", rec.ID), zap.String("type", string(rec.RecordType)))
	return s.Get(ctx, rec.ID)
}

// Update replaces every field of a record.
func (s *Service) Update(ctx context.Context, id string, in Input) (*RecordView, error) {
	if _, err := s.stores.Health.Get(ctx, id); err != nil {
		if sqldb.IsNotFound(err) {
			return nil, apperr.NotFound("Health record not found")
		}
		return nil, apperr.Internal("Failed to update health record", err)
	}

	rec, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	rec.ID = id
	if err := s.stores.Health.Update(ctx, rec); err != nil {
		if sqldb.IsNotFound(err) {
			return nil, apperr.NotFound("Health record not found")
		}
		return nil, apperr.Internal("Failed to update health record", err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.stores.Health.Delete(ctx, id); err != nil {
		if sqldb.IsNotFound(err) {
			return apperr.NotFound("Health record not found")
		}
		return apperr.Internal("Failed to delete health record", err)
	}
	return nil
}

// Complete marks a record COMPLETED now. Notes replace the stored notes when given.
func (s *Service) Complete(ctx context.Context, in CompleteInput) (*RecordView, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, apperr.Validation("Health record ID is required")
	}
	notes := in.Notes
	if notes != nil && strings.TrimSpace(*notes) == "" {
		notes = nil
	}
	if err := s.stores.Health.Complete(ctx, in.ID, s.now().UTC(), notes); err != nil {
		if sqldb.IsNotFound(err) {
			return nil, apperr.NotFound("Health record not found")
		}
		return nil, apperr.Internal("Failed to complete health record", err)
	}
	return s.Get(ctx, in.ID)
}

// Stats summarizes every health record.
func (s *Service) Stats(ctx context.Context) (*stats.HealthSummary, error) {
	records, err := s.stores.Health.List(ctx, sqldb.HealthFilter{})
	if err != nil {
		return nil, apperr.Internal("Failed to fetch health stats", err)
	}
	summary := stats.SummarizeHealth(records, s.now())
	return &summary, nil
}

// SweepOverdue flags PENDING records scheduled before the start of today.
func (s *Service) SweepOverdue(ctx context.Context) (int64, error) {
	cutoff := stats.StartOfDay(s.now().In(s.loc)).UTC()
	n, err := s.stores.Health.MarkOverdue(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("health records marked overdue", zap.Int64("count", n))
	}
	return n, nil
}

func (s *Service) build(ctx context.Context, in Input) (*models.HealthRecord, error) {
	in.CattleID = strings.TrimSpace(in.CattleID)
	in.Description = strings.TrimSpace(in.Description)
	if err := validation.Struct(in, inputMessages); err != nil {
		return nil, err
	}

	// Only vaccinations carry a vaccine; other record types drop the field unchecked.
	vaccination := in.VaccinationType
	if in.RecordType != models.RecordVaccination {
		vaccination = nil
	} else if vaccination != nil && !vaccination.Valid() {
		return nil, apperr.Validation("Invalid vaccination type")
	}

	scheduled, err := validation.ParseDate(in.ScheduledDate, s.loc)
	if err != nil {
		return nil, apperr.Validation("Scheduled date is required")
	}
	completed, err := validation.OptionalDate(in.CompletedDate, s.loc)
	if err != nil {
		return nil, apperr.Validation("Invalid completed date")
	}

	ok, err := s.stores.Cattle.Exists(ctx, in.CattleID)
	if err != nil {
		return nil, apperr.Internal("Failed to save health record", err)
	}
	if !ok {
		return nil, apperr.Validation("Invalid cattle ID")
	}

	status := in.Status
	if status == "" {
		status = models.HealthPending
	}

	return &models.HealthRecord{
		CattleID:        in.CattleID,
		RecordType:      in.RecordType,
		VaccinationType: vaccination,
		Description:     in.Description,
		ScheduledDate:   scheduled,
		CompletedDate:   completed,
		Status:          status,
		Veterinarian:    blankToNil(in.Veterinarian),
		Cost:            in.Cost,
		Notes:           blankToNil(in.Notes),
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

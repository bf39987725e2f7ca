// Package herd manages the cattle register.
package herd

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/apperr"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/sqldb"
	"github.com/mamadbah2/herdbook/internal/validation"
)

const recentMilkRecords = 30

// Input is the create and full-update payload of an animal.
type Input struct {
	TagNumber   string                `json:"tagNumber" validate:"required"`
	Name        *string               `json:"name"`
	Gender      models.Gender         `json:"gender" validate:"enum"`
	Breed       string                `json:"breed" validate:"required"`
	DateOfBirth string                `json:"dateOfBirth" validate:"required"`
	Weight      *float64              `json:"weight" validate:"omitempty,gt=0"`
	ImageURL    *string               `json:"imageUrl"`
	Status      models.CattleStatus   `json:"status" validate:"omitempty,enum"`
	Category    models.CattleCategory `json:"category" validate:"enum"`
	MotherID    *string               `json:"motherId"`
}

var inputMessages = validation.Messages{
	"TagNumber":   "Tag number is required",
	"Gender":      "Valid gender (MALE or FEMALE) is required",
	"Breed":       "Breed is required",
	"DateOfBirth": "Date of birth is required",
	"Weight":      "Weight must be greater than 0",
	"Status":      "Invalid status value",
	"Category":    "Valid category is required",
}

// Count mirrors the relation counters of a listed animal.
type Count struct {
	Offspring   int64 `json:"offspring"`
	MilkRecords int64 `json:"milkRecords"`
}

// View is an animal with its family, next health event and recent production.
type View struct {
	models.Cattle
	Mother           *models.CattleRef    `json:"mother"`
	Offspring        []models.CattleRef   `json:"offspring"`
	NextHealthRecord *models.HealthRecord `json:"nextHealthRecord"`
	MilkRecords      []models.MilkRecord  `json:"milkRecords"`
	Count            Count                `json:"_count"`
}

// Service implements the cattle operations.
type Service struct {
	stores *sqldb.Stores
	loc    *time.Location
	logger *zap.Logger
}

// NewService wires the herd service. Bare dates are read in loc.
func NewService(stores *sqldb.Stores, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{stores: stores, loc: loc, logger: logger}
}

// List returns every animal, newest first, with relations attached.
func (s *Service) List(ctx context.Context) ([]View, error) {
	cattle, err := s.stores.Cattle.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch cattle", err)
	}
	views, err := s.attach(ctx, cattle)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch cattle", err)
	}
	return views, nil
}

// Get returns one animal with relations attached.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	c, err := s.stores.Cattle.Get(ctx, id)
	if sqldb.IsNotFound(err) {
		return nil, apperr.NotFound("Cattle not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to fetch cattle", err)
	}
	views, err := s.attach(ctx, []models.Cattle{*c})
	if err != nil {
		return nil, apperr.Internal("Failed to fetch cattle", err)
	}
	return &views[0], nil
}

// Create registers a new animal.
func (s *Service) Create(ctx context.Context, in Input) (*View, error) {
	c, err := s.build(ctx, "", in)
	if err != nil {
		return nil, err
	}

	if err := s.stores.Cattle.Create(ctx, c); err != nil {
		if sqldb.IsDuplicate(err) {
			return nil, apperr.Conflict("A cattle with this tag number already exists")
		}
		return nil, apperr.Internal("Failed to create cattle", err)
	}

	s.logger.Info("cattle created", zap.String("cattle_id", c.ID), zap.String("tag", c.TagNumber))
	return s.Get(ctx, c.ID)
}

// Update replaces every field of an animal.
func (s *Service) Update(ctx context.Context, id string, in Input) (*View, error) {
	exists, err := s.stores.Cattle.Exists(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Failed to update cattle", err)
	}
	if !exists {
		return nil, apperr.NotFound("Cattle not found")
	}

	c, err := s.build(ctx, id, in)
	if err != nil {
		return nil, err
	}
	c.ID = id

	if err := s.stores.Cattle.Update(ctx, c); err != nil {
		switch {
		case sqldb.IsNotFound(err):
			return nil, apperr.NotFound("Cattle not found")
		case sqldb.IsDuplicate(err):
			return nil, apperr.Conflict("A cattle with this tag number already exists")
		}
		return nil, apperr.Internal("Failed to update cattle", err)
	}
	return s.Get(ctx, id)
}

// Delete removes an animal.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.stores.Cattle.Delete(ctx, id); err != nil {
		if sqldb.IsNotFound(err) {
			return apperr.NotFound("Cattle not found")
		}
		return apperr.Internal("Failed to delete cattle", err)
	}
	s.logger.Info("cattle deleted", zap.String("cattle_id", id))
	return nil
}

// build validates in and resolves references. selfID is empty on create.
func (s *Service) build(ctx context.Context, selfID string, in Input) (*models.Cattle, error) {
	in.TagNumber = strings.TrimSpace(in.TagNumber)
	in.Breed = strings.TrimSpace(in.Breed)
	if err := validation.Struct(in, inputMessages); err != nil {
		return nil, err
	}

	dob, err := validation.ParseDate(in.DateOfBirth, s.loc)
	if err != nil {
		return nil, apperr.Validation("Date of birth is required")
	}

	taken, err := s.stores.Cattle.TagTaken(ctx, in.TagNumber, selfID)
	if err != nil {
		return nil, apperr.Internal("Failed to save cattle", err)
	}
	if taken {
		return nil, apperr.Conflict("A cattle with this tag number already exists")
	}

	motherID := blankToNil(in.MotherID)
	if motherID != nil {
		if selfID != "" && *motherID == selfID {
			return nil, apperr.Validation("An animal cannot be its own mother")
		}
		ok, err := s.stores.Cattle.Exists(ctx, *motherID)
		if err != nil {
			return nil, apperr.Internal("Failed to save cattle", err)
		}
		if !ok {
			return nil, apperr.Validation("Invalid mother reference")
		}
	}

	status := in.Status
	if status == "" {
		status = models.CattleActive
	}

	return &models.Cattle{
		TagNumber:   in.TagNumber,
		Name:        blankToNil(in.Name),
		Gender:      in.Gender,
		Breed:       in.Breed,
		DateOfBirth: dob,
		Weight:      in.Weight,
		ImageURL:    blankToNil(in.ImageURL),
		Status:      status,
		Category:    in.Category,
		MotherID:    motherID,
	}, nil
}

func (s *Service) attach(ctx context.Context, cattle []models.Cattle) ([]View, error) {
	ids := make([]string, len(cattle))
	for i, c := range cattle {
		ids[i] = c.ID
	}

	offspring, err := s.stores.Cattle.Offspring(ctx, ids)
	if err != nil {
		return nil, err
	}
	next, err := s.stores.Health.NextOpen(ctx, ids)
	if err != nil {
		return nil, err
	}
	milkCounts, err := s.stores.Milk.CountByCattle(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]View, len(cattle))
	for i, c := range cattle {
		v := View{
			Cattle:      c,
			Mother:      c.Mother.Ref(),
			Offspring:   make([]models.CattleRef, 0, len(offspring[c.ID])),
			MilkRecords: []models.MilkRecord{},
		}
		v.Mother = trimRef(v.Mother)
		for _, child := range offspring[c.ID] {
			v.Offspring = append(v.Offspring, models.CattleRef{ID: child.ID, TagNumber: child.TagNumber, Name: child.Name})
		}
		if rec, ok := next[c.ID]; ok {
			rec := rec
			v.NextHealthRecord = &rec
		}
		if milkCounts[c.ID] > 0 {
			recent, err := s.stores.Milk.RecentForCattle(ctx, c.ID, recentMilkRecords)
			if err != nil {
				return nil, err
			}
			v.MilkRecords = recent
		}
		v.Count = Count{Offspring: int64(len(offspring[c.ID])), MilkRecords: milkCounts[c.ID]}
		views[i] = v
	}
	return views, nil
}

// trimRef keeps only id, tag and name for the mother summary.
func trimRef(ref *models.CattleRef) *models.CattleRef {
	if ref == nil {
		return nil
	}
	return &models.CattleRef{ID: ref.ID, TagNumber: ref.TagNumber, Name: ref.Name}
}

func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

package models

import "time"

// Cattle is a single animal in the herd.
type Cattle struct {
	Base
	TagNumber   string         `gorm:"size:64;uniqueIndex;not null" json:"tagNumber"`
	Name        *string        `gorm:"size:120" json:"name"`
	Gender      Gender         `gorm:"size:16;not null;index" json:"gender"`
	Breed       string         `gorm:"size:120;not null" json:"breed"`
	DateOfBirth time.Time      `gorm:"not null" json:"dateOfBirth"`
	Weight      *float64       `json:"weight"`
	ImageURL    *string        `gorm:"size:512" json:"imageUrl"`
	Status      CattleStatus   `gorm:"size:16;not null;default:ACTIVE;index" json:"status"`
	Category    CattleCategory `gorm:"size:16;not null;index" json:"category"`
	MotherID    *string        `gorm:"type:varchar(36);index" json:"motherId"`
	Mother      *Cattle        `gorm:"foreignKey:MotherID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName keeps the herd table singular.
func (Cattle) TableName() string { return "cattle" }

// CattleRef is the abbreviated animal embedded in related responses.
type CattleRef struct {
	ID        string         `json:"id"`
	TagNumber string         `json:"tagNumber"`
	Name      *string        `json:"name"`
	Breed     string         `json:"breed,omitempty"`
	Category  CattleCategory `json:"category,omitempty"`
}

// Ref returns the abbreviated form of c, or nil.
func (c *Cattle) Ref() *CattleRef {
	if c == nil {
		return nil
	}
	return &CattleRef{ID: c.ID, TagNumber: c.TagNumber, Name: c.Name, Breed: c.Breed, Category: c.Category}
}

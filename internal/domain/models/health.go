package models

import "time"

// HealthRecord is a scheduled or completed veterinary event for an animal.
type HealthRecord struct {
	Base
	CattleID        string           `gorm:"type:varchar(36);not null;index" json:"cattleId"`
	Cattle          *Cattle          `gorm:"foreignKey:CattleID;constraint:OnDelete:CASCADE" json:"-"`
	RecordType      HealthRecordType `gorm:"size:24;not null;index" json:"recordType"`
	VaccinationType *VaccinationType `gorm:"size:24" json:"vaccinationType"`
	Description     string           `gorm:"type:text;not null" json:"description"`
	ScheduledDate   time.Time        `gorm:"not null;index" json:"scheduledDate"`
	CompletedDate   *time.Time       `json:"completedDate"`
	Status          HealthStatus     `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	Veterinarian    *string          `gorm:"size:120" json:"veterinarian"`
	Cost            *float64         `json:"cost"`
	Notes           *string          `gorm:"type:text" json:"notes"`
}

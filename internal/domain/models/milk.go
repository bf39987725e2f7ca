package models

import "time"

// MilkRecord logs one milking. CattleID is optional for bulk-tank entries.
type MilkRecord struct {
	Base
	CattleID *string     `gorm:"type:varchar(36);index" json:"cattleId"`
	Cattle   *Cattle     `gorm:"foreignKey:CattleID;constraint:OnDelete:SET NULL" json:"-"`
	Date     time.Time   `gorm:"not null;index" json:"date"`
	Liters   float64     `gorm:"not null" json:"liters"`
	Session  MilkSession `gorm:"size:16;not null" json:"session"`
	Quality  MilkQuality `gorm:"size:16;not null;default:GOOD" json:"quality"`
	Notes    *string     `gorm:"type:text" json:"notes"`
}

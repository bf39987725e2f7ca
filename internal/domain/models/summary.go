package models

import "time"

// DailySummary is a date-keyed rollup of herd size, milk and feed usage.
type DailySummary struct {
	Base
	Date                time.Time `gorm:"uniqueIndex;not null" json:"date"`
	TotalCattle         int       `gorm:"not null" json:"totalCattle"`
	MaleCount           int       `gorm:"not null" json:"maleCount"`
	FemaleCount         int       `gorm:"not null" json:"femaleCount"`
	CalfCount           int       `gorm:"not null" json:"calfCount"`
	TotalMilkLiters     float64   `gorm:"not null" json:"totalMilkLiters"`
	AvgMilkPerCow       float64   `gorm:"not null" json:"avgMilkPerCow"`
	FeedHayUsed         float64   `gorm:"not null" json:"feedHayUsed"`
	FeedConcentrateUsed float64   `gorm:"not null" json:"feedConcentrateUsed"`
	FeedSilageUsed      float64   `gorm:"not null" json:"feedSilageUsed"`
}

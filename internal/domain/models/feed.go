package models

import "time"

// FeedInventory is a stocked feed item. Quantity never drops below zero.
type FeedInventory struct {
	Base
	FeedType      FeedType   `gorm:"size:32;not null;index" json:"feedType"`
	Quantity      float64    `gorm:"not null" json:"quantity"`
	Unit          string     `gorm:"size:16;not null;default:kg" json:"unit"`
	MinThreshold  float64    `gorm:"not null" json:"minThreshold"`
	Cost          *float64   `json:"cost"`
	Supplier      *string    `gorm:"size:160" json:"supplier"`
	LastRestocked *time.Time `json:"lastRestocked"`
	ExpiryDate    *time.Time `json:"expiryDate"`
}

// FeedRecord debits quantity from a FeedInventory.
type FeedRecord struct {
	Base
	InventoryID  string         `gorm:"type:varchar(36);not null;index" json:"inventoryId"`
	Inventory    *FeedInventory `gorm:"foreignKey:InventoryID;constraint:OnDelete:CASCADE" json:"-"`
	Date         time.Time      `gorm:"not null;index" json:"date"`
	QuantityUsed float64        `gorm:"not null" json:"quantityUsed"`
	Notes        *string        `gorm:"type:text" json:"notes"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// PriceOverride replaces the weekly base rate for a single calendar date.
// When an override exists for a date, its prices win outright; a zero
// price on an override means that tier is unset for the date.
type PriceOverride struct {
	gorm.Model
	PropertyID   uint      `json:"propertyID" gorm:"uniqueIndex:idx_override_property_date;not null"`
	Date         time.Time `json:"date" gorm:"uniqueIndex:idx_override_property_date;type:date;not null"`
	FullDayPrice float64   `json:"fullDayPrice"`
	HalfDayPrice float64   `json:"halfDayPrice"`
	Reason       string    `json:"reason"`
	IsAvailable  *bool     `json:"isAvailable" gorm:"default:true"`
}

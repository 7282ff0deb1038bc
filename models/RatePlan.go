package models

import "gorm.io/gorm"

const (
	// ModifierPercentage scales both price tiers by a percentage.
	ModifierPercentage = "Percentage"
	// ModifierFixedAmount shifts the full-day price by a flat amount.
	ModifierFixedAmount = "FixedAmount"
)

// RatePlan is a named pricing channel whose modifier is applied on top
// of the effective base price when rendering a calendar.
type RatePlan struct {
	gorm.Model
	PropertyID    uint    `json:"propertyID" gorm:"index;not null"`
	Name          string  `json:"name" gorm:"not null"`
	Description   string  `json:"description"`
	ModifierType  string  `json:"modifierType" gorm:"type:varchar(20);not null"` // Percentage, FixedAmount
	ModifierValue float64 `json:"modifierValue"`
	IsActive      *bool   `json:"isActive" gorm:"default:true"`
	IsDefault     bool    `json:"isDefault"`
	Priority      int     `json:"priority" gorm:"default:0"`
}

package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Property struct {
	gorm.Model
	HostID       uint           `json:"hostID"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	PropertyType string         `json:"propertyType"` // entire_place, private_room, shared_room
	AddressLine1 string         `json:"addressLine1"`
	AddressLine2 string         `json:"addressLine2"`
	City         string         `json:"city"`
	Emirate      string         `json:"emirate"`
	Zip          string         `json:"zip"`
	Country      string         `json:"country" gorm:"default:'AE'"`
	Lat          float32        `json:"lat"`
	Lng          float32        `json:"lng"`
	Capacity     int            `json:"capacity"`
	Bedrooms     int            `json:"bedrooms"`
	Beds         int            `json:"beds"`
	Bathrooms    float32        `json:"bathrooms"`
	Currency     string         `json:"currency" gorm:"default:'AED'"`
	Amenities    datatypes.JSON `json:"amenities"`
	HouseRules   string         `json:"houseRules"`
	Images       datatypes.JSON `json:"images"` // array of URLs
	IsActive     *bool          `json:"isActive"`
	CheckInTime  string         `json:"checkInTime" gorm:"type:varchar(10);default:'15:00'"`
	CheckOutTime string         `json:"checkOutTime" gorm:"type:varchar(10);default:'11:00'"`

	// Admin moderation fields
	Status      string `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, approved, rejected
	ReviewNotes string `json:"reviewNotes" gorm:"type:text"`

	WeeklyRate     *WeeklyRate     `json:"weeklyRate,omitempty" gorm:"foreignKey:PropertyID"`
	PriceOverrides []PriceOverride `json:"priceOverrides,omitempty" gorm:"foreignKey:PropertyID"`
	RatePlans      []RatePlan      `json:"ratePlans,omitempty" gorm:"foreignKey:PropertyID"`
	Host           User            `json:"host" gorm:"foreignKey:HostID;references:ID"`
}

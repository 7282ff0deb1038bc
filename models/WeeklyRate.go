package models

import (
	"time"

	"gorm.io/gorm"
)

// WeeklyRate holds the base price for each day of the week, in full-day
// and half-day tiers. A zero price means no price has been set for that
// tier on that day.
type WeeklyRate struct {
	gorm.Model
	PropertyID uint   `json:"propertyID" gorm:"uniqueIndex;not null"`
	Currency   string `json:"currency" gorm:"default:'AED'"`

	PriceSunday    float64 `json:"priceSunday"`
	PriceMonday    float64 `json:"priceMonday"`
	PriceTuesday   float64 `json:"priceTuesday"`
	PriceWednesday float64 `json:"priceWednesday"`
	PriceThursday  float64 `json:"priceThursday"`
	PriceFriday    float64 `json:"priceFriday"`
	PriceSaturday  float64 `json:"priceSaturday"`

	HalfDayPriceSunday    float64 `json:"halfDayPriceSunday"`
	HalfDayPriceMonday    float64 `json:"halfDayPriceMonday"`
	HalfDayPriceTuesday   float64 `json:"halfDayPriceTuesday"`
	HalfDayPriceWednesday float64 `json:"halfDayPriceWednesday"`
	HalfDayPriceThursday  float64 `json:"halfDayPriceThursday"`
	HalfDayPriceFriday    float64 `json:"halfDayPriceFriday"`
	HalfDayPriceSaturday  float64 `json:"halfDayPriceSaturday"`
}

// PricesFor returns the full-day and half-day prices for a weekday.
func (r *WeeklyRate) PricesFor(day time.Weekday) (fullDay, halfDay float64) {
	switch day {
	case time.Sunday:
		return r.PriceSunday, r.HalfDayPriceSunday
	case time.Monday:
		return r.PriceMonday, r.HalfDayPriceMonday
	case time.Tuesday:
		return r.PriceTuesday, r.HalfDayPriceTuesday
	case time.Wednesday:
		return r.PriceWednesday, r.HalfDayPriceWednesday
	case time.Thursday:
		return r.PriceThursday, r.HalfDayPriceThursday
	case time.Friday:
		return r.PriceFriday, r.HalfDayPriceFriday
	case time.Saturday:
		return r.PriceSaturday, r.HalfDayPriceSaturday
	}
	return 0, 0
}

// SetPricesFor sets both price tiers for a weekday.
func (r *WeeklyRate) SetPricesFor(day time.Weekday, fullDay, halfDay float64) {
	switch day {
	case time.Sunday:
		r.PriceSunday, r.HalfDayPriceSunday = fullDay, halfDay
	case time.Monday:
		r.PriceMonday, r.HalfDayPriceMonday = fullDay, halfDay
	case time.Tuesday:
		r.PriceTuesday, r.HalfDayPriceTuesday = fullDay, halfDay
	case time.Wednesday:
		r.PriceWednesday, r.HalfDayPriceWednesday = fullDay, halfDay
	case time.Thursday:
		r.PriceThursday, r.HalfDayPriceThursday = fullDay, halfDay
	case time.Friday:
		r.PriceFriday, r.HalfDayPriceFriday = fullDay, halfDay
	case time.Saturday:
		r.PriceSaturday, r.HalfDayPriceSaturday = fullDay, halfDay
	}
}

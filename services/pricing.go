package services

import (
	"errors"
	"math"
	"time"

	"wezo-host-server/models"
)

// DateLayout is the ISO day format every calendar feed and endpoint uses.
const DateLayout = "2006-01-02"

// halfDayRatio is the documented fallback used when an override carries no
// half-day price of its own.
const halfDayRatio = 0.6

var (
	ErrPastDate         = errors.New("past dates are immutable")
	ErrHalfAboveFull    = errors.New("half-day price cannot exceed full-day price")
	ErrNegativePrice    = errors.New("prices cannot be negative")
	ErrNoReconstruction = errors.New("override value cannot be reconstructed for this rate plan")
)

// CalendarEntry is one date's slice of the public pricing feed, keyed by
// ISO date string. IsAvailable is a pointer because the feed may carry no
// availability signal at all, which reads as available.
type CalendarEntry struct {
	FullDayPrice float64
	HalfDayPrice float64
	IsOverride   bool
	IsAvailable  *bool
	Reason       string
}

// EffectivePrice is the authoritative per-date price after resolving
// override-vs-weekly-rate, before any rate plan is applied. Nil prices mean
// "no price set" and must never be rendered as zero.
type EffectivePrice struct {
	FullDay     *float64
	HalfDay     *float64
	IsOverride  bool
	IsAvailable bool
	Reason      string
}

// PriceLineItem is one displayable price result for a date and an optional
// rate plan. Overridden/unavailable state belongs to the day, not the plan,
// so every line item of a date carries the same flags.
type PriceLineItem struct {
	RatePlanID    *uint    `json:"ratePlanID,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	HalfDayAmount *float64 `json:"halfDayAmount,omitempty"`
	IsBasePricing bool     `json:"isBasePricing"`
	IsOverride    bool     `json:"isOverride"`
	IsAvailable   bool     `json:"isAvailable"`
	Reason        string   `json:"reason,omitempty"`
}

// DayPricing is the calendar endpoint's unit of output: every line item for
// one date, in rate-plan selection order.
type DayPricing struct {
	Date      string          `json:"date"`
	LineItems []PriceLineItem `json:"lineItems"`
}

// BuildCalendarFeed indexes override rows by ISO date so resolution is a
// map lookup per day.
func BuildCalendarFeed(overrides []models.PriceOverride) map[string]CalendarEntry {
	feed := make(map[string]CalendarEntry, len(overrides))
	for _, o := range overrides {
		feed[o.Date.Format(DateLayout)] = CalendarEntry{
			FullDayPrice: o.FullDayPrice,
			HalfDayPrice: o.HalfDayPrice,
			IsOverride:   true,
			IsAvailable:  o.IsAvailable,
			Reason:       o.Reason,
		}
	}
	return feed
}

// ResolveEffectivePrice returns the single authoritative base price for a
// date. A feed entry wins outright when present; otherwise the weekly rate
// for the date's weekday applies. A non-positive price at either tier is
// treated as unset, not as a free night.
func ResolveEffectivePrice(date time.Time, weekly *models.WeeklyRate, feed map[string]CalendarEntry) EffectivePrice {
	if entry, ok := feed[date.Format(DateLayout)]; ok {
		effective := EffectivePrice{
			IsOverride:  entry.IsOverride,
			IsAvailable: true,
			Reason:      entry.Reason,
		}
		if entry.IsAvailable != nil {
			effective.IsAvailable = *entry.IsAvailable
		}
		effective.FullDay = positivePrice(entry.FullDayPrice)
		effective.HalfDay = positivePrice(entry.HalfDayPrice)
		return effective
	}

	effective := EffectivePrice{IsAvailable: true}
	if weekly != nil {
		fullDay, halfDay := weekly.PricesFor(date.Weekday())
		effective.FullDay = positivePrice(fullDay)
		effective.HalfDay = positivePrice(halfDay)
	}
	return effective
}

// BuildLineItems produces one line item per selected rate plan, in the
// order the plans were selected. With no plans selected it emits a single
// base line item carrying the effective price directly.
func BuildLineItems(effective EffectivePrice, plans []models.RatePlan) []PriceLineItem {
	if len(plans) == 0 {
		return []PriceLineItem{{
			Amount:        roundPrice(effective.FullDay),
			HalfDayAmount: roundPrice(effective.HalfDay),
			IsBasePricing: true,
			IsOverride:    effective.IsOverride,
			IsAvailable:   effective.IsAvailable,
			Reason:        effective.Reason,
		}}
	}

	items := make([]PriceLineItem, 0, len(plans))
	for i := range plans {
		items = append(items, applyRatePlan(effective, &plans[i]))
	}
	return items
}

// ResolveRange walks [start, end] a day at a time and resolves every date
// against the same weekly rate, feed and plan selection.
func ResolveRange(start, end time.Time, weekly *models.WeeklyRate, feed map[string]CalendarEntry, plans []models.RatePlan) []DayPricing {
	var days []DayPricing
	currentDate := start
	for currentDate.Before(end) || currentDate.Equal(end) {
		effective := ResolveEffectivePrice(currentDate, weekly, feed)
		days = append(days, DayPricing{
			Date:      currentDate.Format(DateLayout),
			LineItems: BuildLineItems(effective, plans),
		})
		currentDate = currentDate.AddDate(0, 0, 1)
	}
	return days
}

func applyRatePlan(effective EffectivePrice, plan *models.RatePlan) PriceLineItem {
	item := PriceLineItem{
		RatePlanID:  &plan.ID,
		IsOverride:  effective.IsOverride,
		IsAvailable: effective.IsAvailable,
		Reason:      effective.Reason,
	}

	switch plan.ModifierType {
	case models.ModifierPercentage:
		multiplier := 1 + plan.ModifierValue/100
		if effective.FullDay != nil {
			item.Amount = roundedPtr(*effective.FullDay * multiplier)
		}
		if effective.HalfDay != nil {
			item.HalfDayAmount = roundedPtr(*effective.HalfDay * multiplier)
		}
	case models.ModifierFixedAmount:
		if effective.FullDay != nil {
			item.Amount = roundedPtr(*effective.FullDay + plan.ModifierValue)
		}
		// Fixed-amount plans shift the full-day price only; the half-day
		// price is carried through unchanged.
		item.HalfDayAmount = roundPrice(effective.HalfDay)
	default:
		item.Amount = roundPrice(effective.FullDay)
		item.HalfDayAmount = roundPrice(effective.HalfDay)
	}

	return item
}

// ReconstructOverridePrice recovers the pre-modifier override values from a
// displayed line item so an edit form can pre-fill without a second source
// of truth. A nil plan means the displayed amounts are base pricing and
// pass through untouched. The half-day price falls back to halfDayRatio of
// the full-day price when the display carried none.
func ReconstructOverridePrice(displayed float64, halfDisplayed *float64, plan *models.RatePlan) (fullDay, halfDay float64, err error) {
	switch {
	case plan == nil:
		fullDay = displayed
		halfDay = halfDayFrom(halfDisplayed, fullDay)
	case plan.ModifierType == models.ModifierPercentage:
		divisor := 1 + plan.ModifierValue/100
		if divisor <= 0 {
			return 0, 0, ErrNoReconstruction
		}
		fullDay = displayed / divisor
		if halfDisplayed != nil {
			halfDay = *halfDisplayed / divisor
		} else {
			halfDay = halfDayRatio * fullDay
		}
	case plan.ModifierType == models.ModifierFixedAmount:
		fullDay = displayed - plan.ModifierValue
		halfDay = halfDayFrom(halfDisplayed, fullDay)
	default:
		return 0, 0, ErrNoReconstruction
	}

	return math.Round(fullDay), math.Round(halfDay), nil
}

// ValidateOverrideInput enforces the write-side rules shared by every
// override save: past dates are immutable, prices are non-negative, and
// the half-day price never exceeds the full-day price. It runs before any
// database access.
func ValidateOverrideInput(date time.Time, fullDay, halfDay float64, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return ErrPastDate
	}
	if fullDay < 0 || halfDay < 0 {
		return ErrNegativePrice
	}
	if halfDay > fullDay {
		return ErrHalfAboveFull
	}
	return nil
}

// ValidateWeeklyRates applies the same price rules to all seven weekday
// pairs of a weekly rate submission.
func ValidateWeeklyRates(rate *models.WeeklyRate) error {
	for day := time.Sunday; day <= time.Saturday; day++ {
		fullDay, halfDay := rate.PricesFor(day)
		if fullDay < 0 || halfDay < 0 {
			return ErrNegativePrice
		}
		if halfDay > fullDay {
			return ErrHalfAboveFull
		}
	}
	return nil
}

func halfDayFrom(halfDisplayed *float64, fullDay float64) float64 {
	if halfDisplayed != nil {
		return *halfDisplayed
	}
	return halfDayRatio * fullDay
}

func positivePrice(price float64) *float64 {
	if price <= 0 {
		return nil
	}
	return &price
}

func roundPrice(price *float64) *float64 {
	if price == nil {
		return nil
	}
	return roundedPtr(*price)
}

func roundedPtr(price float64) *float64 {
	rounded := math.Round(price)
	return &rounded
}

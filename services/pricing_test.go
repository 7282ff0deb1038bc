package services

import (
	"testing"
	"time"

	"wezo-host-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-01-05 is a Monday.
var monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func mondayWeeklyRate() *models.WeeklyRate {
	return &models.WeeklyRate{
		Currency:            "AED",
		PriceMonday:         500,
		HalfDayPriceMonday:  300,
		PriceTuesday:        450,
		HalfDayPriceTuesday: 250,
	}
}

func overrideFeed(fullDay, halfDay float64, reason string) map[string]CalendarEntry {
	return map[string]CalendarEntry{
		monday.Format(DateLayout): {
			FullDayPrice: fullDay,
			HalfDayPrice: halfDay,
			IsOverride:   true,
			Reason:       reason,
		},
	}
}

func TestResolveEffectivePriceWeeklyFallback(t *testing.T) {
	effective := ResolveEffectivePrice(monday, mondayWeeklyRate(), nil)

	require.NotNil(t, effective.FullDay)
	require.NotNil(t, effective.HalfDay)
	assert.Equal(t, 500.0, *effective.FullDay)
	assert.Equal(t, 300.0, *effective.HalfDay)
	assert.False(t, effective.IsOverride)
	assert.True(t, effective.IsAvailable)
}

func TestResolveEffectivePriceOverrideWins(t *testing.T) {
	feed := overrideFeed(650, 400, "Holiday")
	effective := ResolveEffectivePrice(monday, mondayWeeklyRate(), feed)

	require.NotNil(t, effective.FullDay)
	require.NotNil(t, effective.HalfDay)
	assert.Equal(t, 650.0, *effective.FullDay)
	assert.Equal(t, 400.0, *effective.HalfDay)
	assert.True(t, effective.IsOverride)
	assert.Equal(t, "Holiday", effective.Reason)
}

func TestResolveEffectivePriceZeroMeansUnset(t *testing.T) {
	// Zero from the feed
	feed := overrideFeed(0, 0, "")
	effective := ResolveEffectivePrice(monday, mondayWeeklyRate(), feed)
	assert.Nil(t, effective.FullDay)
	assert.Nil(t, effective.HalfDay)

	// Zero from the weekly rate
	effective = ResolveEffectivePrice(monday, &models.WeeklyRate{}, nil)
	assert.Nil(t, effective.FullDay)
	assert.Nil(t, effective.HalfDay)

	// No weekly rate at all
	effective = ResolveEffectivePrice(monday, nil, nil)
	assert.Nil(t, effective.FullDay)
	assert.True(t, effective.IsAvailable)
}

func TestResolveEffectivePriceUnavailableDay(t *testing.T) {
	unavailable := false
	feed := map[string]CalendarEntry{
		monday.Format(DateLayout): {
			FullDayPrice: 650,
			IsOverride:   true,
			IsAvailable:  &unavailable,
		},
	}

	effective := ResolveEffectivePrice(monday, mondayWeeklyRate(), feed)
	assert.False(t, effective.IsAvailable)
}

func TestBuildLineItemsBasePricing(t *testing.T) {
	effective := ResolveEffectivePrice(monday, mondayWeeklyRate(), nil)
	items := BuildLineItems(effective, nil)

	require.Len(t, items, 1)
	item := items[0]
	assert.True(t, item.IsBasePricing)
	assert.False(t, item.IsOverride)
	assert.Nil(t, item.RatePlanID)
	require.NotNil(t, item.Amount)
	require.NotNil(t, item.HalfDayAmount)
	assert.Equal(t, 500.0, *item.Amount)
	assert.Equal(t, 300.0, *item.HalfDayAmount)
}

func TestBuildLineItemsOneItemPerPlan(t *testing.T) {
	effective := ResolveEffectivePrice(monday, mondayWeeklyRate(), nil)
	plans := []models.RatePlan{
		{Name: "Summer", ModifierType: models.ModifierPercentage, ModifierValue: 10},
		{Name: "Direct", ModifierType: models.ModifierFixedAmount, ModifierValue: -25},
		{Name: "Partner", ModifierType: models.ModifierPercentage, ModifierValue: -5},
	}
	plans[0].ID = 1
	plans[1].ID = 2
	plans[2].ID = 3

	items := BuildLineItems(effective, plans)

	require.Len(t, items, 3)
	// Selection order preserved
	assert.Equal(t, uint(1), *items[0].RatePlanID)
	assert.Equal(t, uint(2), *items[1].RatePlanID)
	assert.Equal(t, uint(3), *items[2].RatePlanID)
	assert.Equal(t, 550.0, *items[0].Amount)
	assert.Equal(t, 475.0, *items[1].Amount)
	assert.Equal(t, 475.0, *items[2].Amount)
	for _, item := range items {
		assert.False(t, item.IsBasePricing)
	}
}

func TestPercentagePlanScalesBothTiers(t *testing.T) {
	feed := overrideFeed(650, 400, "Holiday")
	effective := ResolveEffectivePrice(monday, mondayWeeklyRate(), feed)

	plan := models.RatePlan{ModifierType: models.ModifierPercentage, ModifierValue: 10}
	plan.ID = 7

	items := BuildLineItems(effective, []models.RatePlan{plan})

	require.Len(t, items, 1)
	assert.Equal(t, 715.0, *items[0].Amount)
	assert.Equal(t, 440.0, *items[0].HalfDayAmount)
	assert.True(t, items[0].IsOverride)
	assert.Equal(t, "Holiday", items[0].Reason)
}

func TestFixedAmountPlanLeavesHalfDayUnchanged(t *testing.T) {
	feed := overrideFeed(650, 400, "")
	effective := ResolveEffectivePrice(monday, mondayWeeklyRate(), feed)

	plan := models.RatePlan{ModifierType: models.ModifierFixedAmount, ModifierValue: 50}

	items := BuildLineItems(effective, []models.RatePlan{plan})

	require.Len(t, items, 1)
	assert.Equal(t, 700.0, *items[0].Amount)
	// The half-day price must come through untouched.
	assert.Equal(t, 400.0, *items[0].HalfDayAmount)
}

func TestApplyPlanWithNoPriceSet(t *testing.T) {
	effective := ResolveEffectivePrice(monday, nil, nil)

	plan := models.RatePlan{ModifierType: models.ModifierFixedAmount, ModifierValue: 50}
	items := BuildLineItems(effective, []models.RatePlan{plan})

	require.Len(t, items, 1)
	assert.Nil(t, items[0].Amount, "an unset price must not become the modifier value")
}

func TestPercentageRoundTrip(t *testing.T) {
	plan := &models.RatePlan{ModifierType: models.ModifierPercentage, ModifierValue: 10}

	fullDay, _, err := ReconstructOverridePrice(715, nil, plan)
	require.NoError(t, err)
	assert.Equal(t, 650.0, fullDay)

	for _, pct := range []float64{-50, -10, 5, 25, 120} {
		plan := &models.RatePlan{ModifierType: models.ModifierPercentage, ModifierValue: pct}
		base := 800.0
		displayed := base * (1 + pct/100)
		got, _, err := ReconstructOverridePrice(displayed, nil, plan)
		require.NoError(t, err)
		assert.InDelta(t, base, got, 1.0, "pct=%v", pct)
	}
}

func TestFixedAmountRoundTrip(t *testing.T) {
	plan := &models.RatePlan{ModifierType: models.ModifierFixedAmount, ModifierValue: 50}

	fullDay, halfDay, err := ReconstructOverridePrice(700, f64(400), plan)
	require.NoError(t, err)
	assert.Equal(t, 650.0, fullDay)
	assert.Equal(t, 400.0, halfDay)
}

func TestReconstructHalfDayFallback(t *testing.T) {
	fullDay, halfDay, err := ReconstructOverridePrice(650, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 650.0, fullDay)
	assert.Equal(t, 390.0, halfDay) // 0.6 × 650
}

func TestReconstructRefusesDegeneratePercentage(t *testing.T) {
	for _, pct := range []float64{-100, -150} {
		plan := &models.RatePlan{ModifierType: models.ModifierPercentage, ModifierValue: pct}
		_, _, err := ReconstructOverridePrice(500, nil, plan)
		assert.ErrorIs(t, err, ErrNoReconstruction, "pct=%v", pct)
	}
}

func TestValidateOverrideInput(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	yesterday := now.AddDate(0, 0, -1)
	assert.ErrorIs(t, ValidateOverrideInput(yesterday, 500, 300, now), ErrPastDate)

	// Same day is allowed even later in the day
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, ValidateOverrideInput(today, 500, 300, now))

	tomorrow := now.AddDate(0, 0, 1)
	assert.ErrorIs(t, ValidateOverrideInput(tomorrow, 300, 500, now), ErrHalfAboveFull)
	assert.ErrorIs(t, ValidateOverrideInput(tomorrow, -1, 0, now), ErrNegativePrice)
	assert.NoError(t, ValidateOverrideInput(tomorrow, 500, 300, now))
}

func TestValidateWeeklyRates(t *testing.T) {
	rate := mondayWeeklyRate()
	assert.NoError(t, ValidateWeeklyRates(rate))

	rate.HalfDayPriceMonday = 600
	assert.ErrorIs(t, ValidateWeeklyRates(rate), ErrHalfAboveFull)
}

func TestBuildCalendarFeed(t *testing.T) {
	overrides := []models.PriceOverride{
		{PropertyID: 1, Date: monday, FullDayPrice: 650, HalfDayPrice: 400, Reason: "Holiday"},
	}

	feed := BuildCalendarFeed(overrides)

	entry, ok := feed["2026-01-05"]
	require.True(t, ok)
	assert.Equal(t, 650.0, entry.FullDayPrice)
	assert.True(t, entry.IsOverride)
}

func TestResolveRangeWalksEveryDay(t *testing.T) {
	start := monday
	end := monday.AddDate(0, 0, 6)
	feed := overrideFeed(650, 400, "Holiday")

	days := ResolveRange(start, end, mondayWeeklyRate(), feed, nil)

	require.Len(t, days, 7)
	assert.Equal(t, "2026-01-05", days[0].Date)
	assert.Equal(t, "2026-01-11", days[6].Date)

	// Monday carries the override, Tuesday the weekly rate, Wednesday nothing
	require.Len(t, days[0].LineItems, 1)
	assert.Equal(t, 650.0, *days[0].LineItems[0].Amount)
	assert.True(t, days[0].LineItems[0].IsOverride)

	assert.Equal(t, 450.0, *days[1].LineItems[0].Amount)
	assert.False(t, days[1].LineItems[0].IsOverride)

	assert.Nil(t, days[2].LineItems[0].Amount)
}

func f64(v float64) *float64 { return &v }

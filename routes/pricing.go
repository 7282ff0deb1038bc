package routes

import (
	"fmt"
	"strconv"
	"time"

	"wezo-host-server/models"
	"wezo-host-server/services"
	"wezo-host-server/storage"
	"wezo-host-server/utils"

	"github.com/kataras/iris/v12"
)

// Pricing Management Routes

type WeeklyRateInput struct {
	PropertyID uint   `json:"propertyID" validate:"required"`
	Currency   string `json:"currency"`

	PriceSunday    float64 `json:"priceSunday" validate:"min=0"`
	PriceMonday    float64 `json:"priceMonday" validate:"min=0"`
	PriceTuesday   float64 `json:"priceTuesday" validate:"min=0"`
	PriceWednesday float64 `json:"priceWednesday" validate:"min=0"`
	PriceThursday  float64 `json:"priceThursday" validate:"min=0"`
	PriceFriday    float64 `json:"priceFriday" validate:"min=0"`
	PriceSaturday  float64 `json:"priceSaturday" validate:"min=0"`

	HalfDayPriceSunday    float64 `json:"halfDayPriceSunday" validate:"min=0"`
	HalfDayPriceMonday    float64 `json:"halfDayPriceMonday" validate:"min=0"`
	HalfDayPriceTuesday   float64 `json:"halfDayPriceTuesday" validate:"min=0"`
	HalfDayPriceWednesday float64 `json:"halfDayPriceWednesday" validate:"min=0"`
	HalfDayPriceThursday  float64 `json:"halfDayPriceThursday" validate:"min=0"`
	HalfDayPriceFriday    float64 `json:"halfDayPriceFriday" validate:"min=0"`
	HalfDayPriceSaturday  float64 `json:"halfDayPriceSaturday" validate:"min=0"`
}

type PriceOverrideInput struct {
	PropertyID   uint      `json:"propertyID" validate:"required"`
	Date         time.Time `json:"date" validate:"required"`
	FullDayPrice float64   `json:"fullDayPrice" validate:"min=0"`
	HalfDayPrice float64   `json:"halfDayPrice" validate:"min=0"`
	Reason       string    `json:"reason"`
	IsAvailable  *bool     `json:"isAvailable"`
}

type BulkPriceOverrideInput struct {
	PropertyID   uint        `json:"propertyID" validate:"required"`
	Dates        []time.Time `json:"dates" validate:"required,min=1"`
	FullDayPrice float64     `json:"fullDayPrice" validate:"min=0"`
	HalfDayPrice float64     `json:"halfDayPrice" validate:"min=0"`
	Reason       string      `json:"reason"`
}

type DeletePriceOverridesInput struct {
	PropertyID uint        `json:"propertyID" validate:"required"`
	Dates      []time.Time `json:"dates" validate:"required,min=1"`
}

// Get the weekly base rate for a property
func GetWeeklyRate(ctx iris.Context) {
	propertyIDStr := ctx.Params().Get("propertyID")
	propertyID, err := strconv.ParseUint(propertyIDStr, 10, 32)
	if err != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid property ID"})
		return
	}

	var rate models.WeeklyRate
	result := storage.DB.Where("property_id = ?", propertyID).First(&rate)

	if result.Error != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"message": "Weekly rate not found"})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    rate,
	})
}

// Create or update the weekly base rate
func SetWeeklyRate(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	var input WeeklyRateInput

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	submitted := weeklyRateFromInput(&input)
	if err := services.ValidateWeeklyRates(submitted); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}

	// Verify property ownership
	var property models.Property
	if err := storage.DB.Where("id = ? AND host_id = ?", input.PropertyID, userID).First(&property).Error; err != nil {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"message": "Property not found or access denied"})
		return
	}

	var existingRate models.WeeklyRate
	result := storage.DB.Where("property_id = ?", input.PropertyID).First(&existingRate)

	if result.Error == nil {
		before := existingRate
		for day := time.Sunday; day <= time.Saturday; day++ {
			fullDay, halfDay := submitted.PricesFor(day)
			existingRate.SetPricesFor(day, fullDay, halfDay)
		}
		if input.Currency != "" {
			existingRate.Currency = input.Currency
		}

		if err := storage.DB.Save(&existingRate).Error; err != nil {
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(iris.Map{"message": "Failed to update weekly rate"})
			return
		}

		storage.BumpCalendarGeneration(input.PropertyID)
		utils.Audit(ctx, "weekly_rate.update", "weekly_rate", existingRate.ID, before, existingRate)

		ctx.JSON(iris.Map{
			"success": true,
			"message": "Weekly rate updated successfully",
			"data":    existingRate,
		})
	} else {
		rate := *submitted
		rate.PropertyID = input.PropertyID
		if input.Currency != "" {
			rate.Currency = input.Currency
		}

		if err := storage.DB.Create(&rate).Error; err != nil {
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(iris.Map{"message": "Failed to create weekly rate"})
			return
		}

		storage.BumpCalendarGeneration(input.PropertyID)
		utils.Audit(ctx, "weekly_rate.create", "weekly_rate", rate.ID, nil, rate)

		ctx.JSON(iris.Map{
			"success": true,
			"message": "Weekly rate created successfully",
			"data":    rate,
		})
	}
}

// Get price overrides for a date range
func GetPriceOverrides(ctx iris.Context) {
	propertyIDStr := ctx.Params().Get("propertyID")
	propertyID, err := strconv.ParseUint(propertyIDStr, 10, 32)
	if err != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid property ID"})
		return
	}

	startDate, endDate, rangeErr := parseDateRange(ctx)
	if rangeErr != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": rangeErr.Error()})
		return
	}

	var overrides []models.PriceOverride
	result := storage.DB.Where("property_id = ? AND date >= ? AND date <= ?",
		propertyID, startDate, endDate).Order("date ASC").Find(&overrides)

	if result.Error != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to fetch price overrides"})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    overrides,
	})
}

// Create or update a single date override
func SetPriceOverride(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	var input PriceOverrideInput

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := services.ValidateOverrideInput(input.Date, input.FullDayPrice, input.HalfDayPrice, time.Now()); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}

	// Verify property ownership
	var property models.Property
	if err := storage.DB.Where("id = ? AND host_id = ?", input.PropertyID, userID).First(&property).Error; err != nil {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"message": "Property not found or access denied"})
		return
	}

	date := normalizeDate(input.Date)

	var existingOverride models.PriceOverride
	result := storage.DB.Where("property_id = ? AND date = ?", input.PropertyID, date).First(&existingOverride)

	if result.Error == nil {
		before := existingOverride
		existingOverride.FullDayPrice = input.FullDayPrice
		existingOverride.HalfDayPrice = input.HalfDayPrice
		existingOverride.Reason = input.Reason
		if input.IsAvailable != nil {
			existingOverride.IsAvailable = input.IsAvailable
		}

		if err := storage.DB.Save(&existingOverride).Error; err != nil {
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(iris.Map{"message": "Failed to update price override"})
			return
		}

		storage.BumpCalendarGeneration(input.PropertyID)
		utils.Audit(ctx, "price_override.update", "price_override", existingOverride.ID, before, existingOverride)

		ctx.JSON(iris.Map{
			"success": true,
			"message": "Price override updated successfully",
			"data":    existingOverride,
		})
	} else {
		override := models.PriceOverride{
			PropertyID:   input.PropertyID,
			Date:         date,
			FullDayPrice: input.FullDayPrice,
			HalfDayPrice: input.HalfDayPrice,
			Reason:       input.Reason,
			IsAvailable:  input.IsAvailable,
		}

		if err := storage.DB.Create(&override).Error; err != nil {
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(iris.Map{"message": "Failed to create price override"})
			return
		}

		storage.BumpCalendarGeneration(input.PropertyID)
		utils.Audit(ctx, "price_override.create", "price_override", override.ID, nil, override)

		ctx.JSON(iris.Map{
			"success": true,
			"message": "Price override created successfully",
			"data":    override,
		})
	}
}

// Apply the same {price, halfDayPrice, reason} triple to every submitted
// date in one transaction. Any invalid date rejects the whole batch before
// a single write is issued.
func SetBulkPriceOverrides(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	var input BulkPriceOverrideInput

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	now := time.Now()
	for _, date := range input.Dates {
		if err := services.ValidateOverrideInput(date, input.FullDayPrice, input.HalfDayPrice, now); err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				fmt.Sprintf("%s: %s", date.Format(services.DateLayout), err.Error()), ctx)
			return
		}
	}

	// Verify property ownership
	var property models.Property
	if err := storage.DB.Where("id = ? AND host_id = ?", input.PropertyID, userID).First(&property).Error; err != nil {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"message": "Property not found or access denied"})
		return
	}

	dates := normalizeDates(input.Dates)
	overrides := make([]models.PriceOverride, 0, len(dates))
	for _, date := range dates {
		overrides = append(overrides, models.PriceOverride{
			PropertyID:   input.PropertyID,
			Date:         date,
			FullDayPrice: input.FullDayPrice,
			HalfDayPrice: input.HalfDayPrice,
			Reason:       input.Reason,
		})
	}

	// One transaction: either every date is overridden or none is
	tx := storage.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Hard delete: a soft-deleted row would still hold the
	// (property, date) unique index and block the re-create below.
	if err := tx.Unscoped().Where("property_id = ? AND date IN ?", input.PropertyID, dates).
		Delete(&models.PriceOverride{}).Error; err != nil {
		tx.Rollback()
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to clear existing overrides"})
		return
	}

	if err := tx.Create(&overrides).Error; err != nil {
		tx.Rollback()
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to create bulk overrides"})
		return
	}

	tx.Commit()

	storage.BumpCalendarGeneration(input.PropertyID)
	utils.Audit(ctx, "price_override.bulk_set", "property", input.PropertyID, nil, overrides)

	ctx.JSON(iris.Map{
		"success": true,
		"message": fmt.Sprintf("Price override set for %d days", len(overrides)),
		"data":    overrides,
	})
}

// Delete overrides for the given dates, reverting them to the weekly rate
func DeletePriceOverrides(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	var input DeletePriceOverridesInput

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	now := time.Now()
	for _, date := range input.Dates {
		if err := services.ValidateOverrideInput(date, 0, 0, now); err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				fmt.Sprintf("%s: %s", date.Format(services.DateLayout), err.Error()), ctx)
			return
		}
	}

	// Verify property ownership
	var property models.Property
	if err := storage.DB.Where("id = ? AND host_id = ?", input.PropertyID, userID).First(&property).Error; err != nil {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"message": "Property not found or access denied"})
		return
	}

	dates := normalizeDates(input.Dates)
	// Hard delete so a later save for the same date can re-insert.
	result := storage.DB.Unscoped().Where("property_id = ? AND date IN ?", input.PropertyID, dates).
		Delete(&models.PriceOverride{})

	if result.Error != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to delete price overrides"})
		return
	}

	storage.BumpCalendarGeneration(input.PropertyID)
	utils.Audit(ctx, "price_override.delete", "property", input.PropertyID, dates, nil)

	ctx.JSON(iris.Map{
		"success": true,
		"message": fmt.Sprintf("Removed overrides for %d days", result.RowsAffected),
	})
}

func weeklyRateFromInput(input *WeeklyRateInput) *models.WeeklyRate {
	return &models.WeeklyRate{
		Currency:              input.Currency,
		PriceSunday:           input.PriceSunday,
		PriceMonday:           input.PriceMonday,
		PriceTuesday:          input.PriceTuesday,
		PriceWednesday:        input.PriceWednesday,
		PriceThursday:         input.PriceThursday,
		PriceFriday:           input.PriceFriday,
		PriceSaturday:         input.PriceSaturday,
		HalfDayPriceSunday:    input.HalfDayPriceSunday,
		HalfDayPriceMonday:    input.HalfDayPriceMonday,
		HalfDayPriceTuesday:   input.HalfDayPriceTuesday,
		HalfDayPriceWednesday: input.HalfDayPriceWednesday,
		HalfDayPriceThursday:  input.HalfDayPriceThursday,
		HalfDayPriceFriday:    input.HalfDayPriceFriday,
		HalfDayPriceSaturday:  input.HalfDayPriceSaturday,
	}
}

func normalizeDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

func normalizeDates(dates []time.Time) []time.Time {
	normalized := make([]time.Time, 0, len(dates))
	for _, date := range dates {
		normalized = append(normalized, normalizeDate(date))
	}
	return normalized
}

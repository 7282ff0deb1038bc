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

// Rate Plan Management Routes

type RatePlanInput struct {
	PropertyID    uint    `json:"propertyID" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	ModifierType  string  `json:"modifierType" validate:"required,oneof=Percentage FixedAmount"`
	ModifierValue float64 `json:"modifierValue"`
	IsActive      *bool   `json:"isActive"`
	IsDefault     bool    `json:"isDefault"`
	Priority      int     `json:"priority"`
}

type UpdateRatePlanInput struct {
	Name          string  `json:"name" validate:"required"`
	ModifierType  string  `json:"modifierType" validate:"required,oneof=Percentage FixedAmount"`
	ModifierValue float64 `json:"modifierValue"`
	IsActive      *bool   `json:"isActive"`
	IsDefault     bool    `json:"isDefault"`
	Priority      int     `json:"priority"`
}

type BulkPlanPriceEntry struct {
	Date   time.Time `json:"date" validate:"required"`
	Amount float64   `json:"amount" validate:"required,min=0"`
}

type BulkPlanPriceInput struct {
	RatePlanID uint                 `json:"ratePlanID" validate:"required"`
	Entries    []BulkPlanPriceEntry `json:"entries" validate:"required,min=1,dive"`
}

// Get all rate plans for a property
func GetRatePlans(ctx iris.Context) {
	propertyIDStr := ctx.Params().Get("propertyID")
	propertyID, err := strconv.ParseUint(propertyIDStr, 10, 32)
	if err != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid property ID"})
		return
	}

	var plans []models.RatePlan
	result := storage.DB.Where("property_id = ?", propertyID).
		Order("priority ASC, created_at ASC").Find(&plans)

	if result.Error != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to fetch rate plans"})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    plans,
	})
}

// Create a rate plan
func CreateRatePlan(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	var input RatePlanInput

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Verify property ownership
	var property models.Property
	if err := storage.DB.Where("id = ? AND host_id = ?", input.PropertyID, userID).First(&property).Error; err != nil {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"message": "Property not found or access denied"})
		return
	}

	plan := models.RatePlan{
		PropertyID:    input.PropertyID,
		Name:          input.Name,
		ModifierType:  input.ModifierType,
		ModifierValue: input.ModifierValue,
		IsActive:      input.IsActive,
		IsDefault:     input.IsDefault,
		Priority:      input.Priority,
	}

	if err := storage.DB.Create(&plan).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to create rate plan"})
		return
	}

	storage.BumpCalendarGeneration(input.PropertyID)
	utils.Audit(ctx, "rate_plan.create", "rate_plan", plan.ID, nil, plan)

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Rate plan created successfully",
		"data":    plan,
	})
}

// Update a rate plan
func UpdateRatePlan(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	planIDStr := ctx.Params().Get("id")
	planID, err := strconv.ParseUint(planIDStr, 10, 32)
	if err != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid rate plan ID"})
		return
	}

	var input UpdateRatePlanInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	plan := getOwnedRatePlan(uint(planID), userID, ctx)
	if plan == nil {
		return
	}

	before := *plan
	plan.Name = input.Name
	plan.ModifierType = input.ModifierType
	plan.ModifierValue = input.ModifierValue
	if input.IsActive != nil {
		plan.IsActive = input.IsActive
	}
	plan.IsDefault = input.IsDefault
	plan.Priority = input.Priority

	if err := storage.DB.Save(plan).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to update rate plan"})
		return
	}

	storage.BumpCalendarGeneration(plan.PropertyID)
	utils.Audit(ctx, "rate_plan.update", "rate_plan", plan.ID, before, plan)

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Rate plan updated successfully",
		"data":    plan,
	})
}

// Delete a rate plan
func DeleteRatePlan(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	planIDStr := ctx.Params().Get("id")
	planID, err := strconv.ParseUint(planIDStr, 10, 32)
	if err != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid rate plan ID"})
		return
	}

	plan := getOwnedRatePlan(uint(planID), userID, ctx)
	if plan == nil {
		return
	}

	if err := storage.DB.Delete(&models.RatePlan{}, plan.ID).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to delete rate plan"})
		return
	}

	storage.BumpCalendarGeneration(plan.PropertyID)
	utils.Audit(ctx, "rate_plan.delete", "rate_plan", plan.ID, plan, nil)

	ctx.StatusCode(iris.StatusNoContent)
}

// Accept displayed per-plan amounts and store the underlying overrides.
// Each displayed amount is run backwards through the plan's modifier so
// the override table keeps pre-modifier values; the whole batch is one
// transaction.
func BulkSetRatePlanPrices(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	var input BulkPlanPriceInput

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	now := time.Now()
	for _, entry := range input.Entries {
		if err := services.ValidateOverrideInput(entry.Date, entry.Amount, 0, now); err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				fmt.Sprintf("%s: %s", entry.Date.Format(services.DateLayout), err.Error()), ctx)
			return
		}
	}

	plan := getOwnedRatePlan(input.RatePlanID, userID, ctx)
	if plan == nil {
		return
	}

	overrides := make([]models.PriceOverride, 0, len(input.Entries))
	dates := make([]time.Time, 0, len(input.Entries))
	for _, entry := range input.Entries {
		fullDay, halfDay, reconstructErr := services.ReconstructOverridePrice(entry.Amount, nil, plan)
		if reconstructErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				fmt.Sprintf("%s: %s", entry.Date.Format(services.DateLayout), reconstructErr.Error()), ctx)
			return
		}
		// The reconstructed pair is what gets stored, so it is what gets
		// checked.
		if err := services.ValidateOverrideInput(entry.Date, fullDay, halfDay, now); err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				fmt.Sprintf("%s: %s", entry.Date.Format(services.DateLayout), err.Error()), ctx)
			return
		}
		if fullDay <= 0 {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				fmt.Sprintf("%s: amount does not yield a positive base price", entry.Date.Format(services.DateLayout)), ctx)
			return
		}

		date := normalizeDate(entry.Date)
		dates = append(dates, date)
		overrides = append(overrides, models.PriceOverride{
			PropertyID:   plan.PropertyID,
			Date:         date,
			FullDayPrice: fullDay,
			HalfDayPrice: halfDay,
			Reason:       fmt.Sprintf("Set via rate plan %q", plan.Name),
		})
	}

	tx := storage.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Hard delete: a soft-deleted row would still hold the
	// (property, date) unique index and block the re-create below.
	if err := tx.Unscoped().Where("property_id = ? AND date IN ?", plan.PropertyID, dates).
		Delete(&models.PriceOverride{}).Error; err != nil {
		tx.Rollback()
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to clear existing overrides"})
		return
	}

	if err := tx.Create(&overrides).Error; err != nil {
		tx.Rollback()
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to store reconstructed overrides"})
		return
	}

	tx.Commit()

	storage.BumpCalendarGeneration(plan.PropertyID)
	utils.Audit(ctx, "rate_plan.bulk_price", "rate_plan", plan.ID, nil, overrides)

	ctx.JSON(iris.Map{
		"success": true,
		"message": fmt.Sprintf("Stored overrides for %d days", len(overrides)),
		"data":    overrides,
	})
}

func getOwnedRatePlan(planID, userID uint, ctx iris.Context) *models.RatePlan {
	var plan models.RatePlan
	if err := storage.DB.First(&plan, planID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil
	}

	var property models.Property
	if err := storage.DB.Where("id = ? AND host_id = ?", plan.PropertyID, userID).First(&property).Error; err != nil {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"message": "Property not found or access denied"})
		return nil
	}

	return &plan
}

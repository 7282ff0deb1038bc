package routes

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"wezo-host-server/models"
	"wezo-host-server/services"
	"wezo-host-server/storage"
	"wezo-host-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Pricing Calendar Routes

const maxCalendarRangeDays = 366

type ReconstructOverrideInput struct {
	DisplayedPrice        float64  `json:"displayedPrice" validate:"required,min=0"`
	DisplayedHalfDayPrice *float64 `json:"displayedHalfDayPrice"`
	IsBasePricing         bool     `json:"isBasePricing"`
	ModifierType          string   `json:"modifierType" validate:"omitempty,oneof=Percentage FixedAmount"`
	ModifierValue         float64  `json:"modifierValue"`
}

// Resolve the effective price line items for every date in the range.
// ratePlanIDs selects which plans to price; their query order is the
// selection order. Responses are cached per property generation.
func GetPropertyCalendar(ctx iris.Context) {
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

	planIDs, planErr := parseRatePlanIDs(ctx.URLParam("ratePlanIDs"))
	if planErr != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": planErr.Error()})
		return
	}

	generation := storage.CalendarGeneration(uint(propertyID))
	cacheKey := storage.CalendarCacheKey(uint(propertyID), generation,
		startDate.Format(services.DateLayout), endDate.Format(services.DateLayout), planIDs)

	if payload, ok := storage.GetCachedCalendar(cacheKey); ok {
		ctx.ContentType("application/json")
		ctx.WriteString(payload)
		return
	}

	// A missing weekly rate is a legitimate state; any other error must
	// not resolve (and cache) the range as price-less.
	var weekly models.WeeklyRate
	var weeklyPtr *models.WeeklyRate
	switch err := storage.DB.Where("property_id = ?", propertyID).First(&weekly).Error; {
	case err == nil:
		weeklyPtr = &weekly
	case !errors.Is(err, gorm.ErrRecordNotFound):
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to fetch weekly rate"})
		return
	}

	var overrides []models.PriceOverride
	if err := storage.DB.Where("property_id = ? AND date >= ? AND date <= ?",
		propertyID, startDate, endDate).Order("date ASC").Find(&overrides).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to fetch price overrides"})
		return
	}

	plans, plansErr := selectedRatePlans(uint(propertyID), planIDs)
	if plansErr != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to fetch rate plans"})
		return
	}

	feed := services.BuildCalendarFeed(overrides)
	days := services.ResolveRange(startDate, endDate, weeklyPtr, feed, plans)

	response := iris.Map{
		"success": true,
		"data":    days,
	}

	if payload, marshalErr := json.Marshal(response); marshalErr == nil {
		storage.SetCachedCalendar(cacheKey, string(payload))
	}

	ctx.JSON(response)
}

// Recover the pre-modifier override values behind a displayed line item so
// the edit dialog can pre-fill. Pure computation, nothing is written.
func ReconstructOverride(ctx iris.Context) {
	var input ReconstructOverrideInput

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var plan *models.RatePlan
	if !input.IsBasePricing {
		if input.ModifierType == "" {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"modifierType is required unless isBasePricing is set", ctx)
			return
		}
		plan = &models.RatePlan{
			ModifierType:  input.ModifierType,
			ModifierValue: input.ModifierValue,
		}
	}

	fullDay, halfDay, err := services.ReconstructOverridePrice(input.DisplayedPrice, input.DisplayedHalfDayPrice, plan)
	if err != nil {
		utils.CreateError(iris.StatusUnprocessableEntity, "Reconstruction Error", err.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"fullDayPrice": fullDay,
			"halfDayPrice": halfDay,
		},
	})
}

func parseDateRange(ctx iris.Context) (time.Time, time.Time, error) {
	startDateStr := ctx.URLParam("startDate")
	endDateStr := ctx.URLParam("endDate")

	if startDateStr == "" || endDateStr == "" {
		return time.Time{}, time.Time{}, errors.New("Start date and end date are required")
	}

	startDate, err := time.Parse(services.DateLayout, startDateStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("Invalid start date format")
	}

	endDate, err := time.Parse(services.DateLayout, endDateStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("Invalid end date format")
	}

	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, errors.New("End date must not precede start date")
	}

	if int(endDate.Sub(startDate).Hours()/24) > maxCalendarRangeDays {
		return time.Time{}, time.Time{}, errors.New("Date range too large")
	}

	return startDate, endDate, nil
}

func parseRatePlanIDs(raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, errors.New("Invalid rate plan ID list")
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// selectedRatePlans loads the requested plans and returns the active ones
// in the order they were requested. Unknown or inactive IDs are skipped,
// matching what a stale client selection should do.
func selectedRatePlans(propertyID uint, planIDs []uint) ([]models.RatePlan, error) {
	if len(planIDs) == 0 {
		return nil, nil
	}

	var fetched []models.RatePlan
	if err := storage.DB.Where("property_id = ? AND id IN ?", propertyID, planIDs).
		Find(&fetched).Error; err != nil {
		return nil, err
	}

	plans := make([]models.RatePlan, 0, len(planIDs))
	for _, id := range planIDs {
		idx := slices.IndexFunc(fetched, func(p models.RatePlan) bool { return p.ID == id })
		if idx == -1 {
			continue
		}
		plan := fetched[idx]
		if plan.IsActive != nil && !*plan.IsActive {
			continue
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

package routes

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"wezo-host-server/models"
	"wezo-host-server/storage"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// openTestDB wires a fresh in-memory database into the storage package.
// Each test gets its own named memory DB so state never bleeds between
// tests.
func openTestDB(t *testing.T, migrate ...interface{}) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(migrate...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	storage.DB = db
	return db
}

func seedOwnedProperty(t *testing.T, db *gorm.DB) models.Property {
	t.Helper()
	property := models.Property{HostID: 1, Title: "Marina flat", City: "Dubai"}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("failed to seed property: %v", err)
	}
	return property
}

func buildLifecycleTestApp() *iris.Application {
	app := iris.New()
	app.Validator = validator.New()

	pricing := app.Party("/api/pricing", stubUserMiddleware)
	{
		pricing.Post("/override", SetPriceOverride)
		pricing.Post("/override/bulk", SetBulkPriceOverrides)
		pricing.Delete("/override", DeletePriceOverrides)
	}

	ratePlan := app.Party("/api/rateplan", stubUserMiddleware)
	{
		ratePlan.Post("/bulk-price", BulkSetRatePlanPrices)
	}
	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

func TestOverrideDeleteThenRecreate(t *testing.T) {
	db := openTestDB(t, &models.User{}, &models.Property{}, &models.PriceOverride{}, &models.AuditLog{})
	seedOwnedProperty(t, db)
	app := buildLifecycleTestApp()

	body := `{"propertyID": 1, "date": "2099-06-01T00:00:00Z", "fullDayPrice": 650, "halfDayPrice": 400}`
	resp := postJSON(t, app, http.MethodPost, "/api/pricing/override", body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 creating override, got %d: %s", resp.Code, resp.Body.String())
	}

	deleteBody := `{"propertyID": 1, "dates": ["2099-06-01T00:00:00Z"]}`
	resp = postJSON(t, app, http.MethodDelete, "/api/pricing/override", deleteBody)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting override, got %d: %s", resp.Code, resp.Body.String())
	}

	// A new save for the same date must not collide with the deleted row.
	resp = postJSON(t, app, http.MethodPost, "/api/pricing/override", body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 recreating override after delete, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.PriceOverride{}).Where("property_id = ?", 1).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one override row, got %d", count)
	}
}

func TestBulkOverrideOverwritesExistingDate(t *testing.T) {
	db := openTestDB(t, &models.User{}, &models.Property{}, &models.PriceOverride{}, &models.AuditLog{})
	seedOwnedProperty(t, db)
	app := buildLifecycleTestApp()

	body := `{"propertyID": 1, "date": "2099-06-01T00:00:00Z", "fullDayPrice": 650, "halfDayPrice": 400}`
	resp := postJSON(t, app, http.MethodPost, "/api/pricing/override", body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 creating override, got %d: %s", resp.Code, resp.Body.String())
	}

	bulkBody := `{"propertyID": 1, "dates": ["2099-06-01T00:00:00Z", "2099-06-02T00:00:00Z"], "fullDayPrice": 500, "halfDayPrice": 300, "reason": "Season"}`
	resp = postJSON(t, app, http.MethodPost, "/api/pricing/override/bulk", bulkBody)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 bulk-overwriting an existing date, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.PriceOverride{}).Where("property_id = ?", 1).Count(&count)
	if count != 2 {
		t.Fatalf("expected two override rows, got %d", count)
	}

	var row models.PriceOverride
	date := normalizeDate(time.Date(2099, 6, 1, 0, 0, 0, 0, time.UTC))
	if err := db.Where("property_id = ? AND date = ?", 1, date).First(&row).Error; err != nil {
		t.Fatalf("failed to load overwritten override: %v", err)
	}
	if row.FullDayPrice != 500 {
		t.Fatalf("expected overwritten full-day price 500, got %v", row.FullDayPrice)
	}
}

func TestRatePlanBulkPriceOverwritesExistingDate(t *testing.T) {
	db := openTestDB(t, &models.User{}, &models.Property{}, &models.PriceOverride{}, &models.RatePlan{}, &models.AuditLog{})
	seedOwnedProperty(t, db)
	if err := db.Create(&models.RatePlan{PropertyID: 1, Name: "Direct", ModifierType: models.ModifierPercentage, ModifierValue: 10}).Error; err != nil {
		t.Fatalf("failed to seed rate plan: %v", err)
	}
	app := buildLifecycleTestApp()

	body := `{"propertyID": 1, "date": "2099-06-01T00:00:00Z", "fullDayPrice": 600, "halfDayPrice": 360}`
	resp := postJSON(t, app, http.MethodPost, "/api/pricing/override", body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 creating override, got %d: %s", resp.Code, resp.Body.String())
	}

	bulkBody := `{"ratePlanID": 1, "entries": [{"date": "2099-06-01T00:00:00Z", "amount": 715}]}`
	resp = postJSON(t, app, http.MethodPost, "/api/rateplan/bulk-price", bulkBody)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 overwriting via rate plan, got %d: %s", resp.Code, resp.Body.String())
	}

	var row models.PriceOverride
	date := normalizeDate(time.Date(2099, 6, 1, 0, 0, 0, 0, time.UTC))
	if err := db.Where("property_id = ? AND date = ?", 1, date).First(&row).Error; err != nil {
		t.Fatalf("failed to load reconstructed override: %v", err)
	}
	if row.FullDayPrice != 650 { // 715 back through the +10% modifier
		t.Fatalf("expected reconstructed full-day price 650, got %v", row.FullDayPrice)
	}
}

func TestRatePlanBulkPriceRejectsNegativeReconstruction(t *testing.T) {
	db := openTestDB(t, &models.User{}, &models.Property{}, &models.PriceOverride{}, &models.RatePlan{}, &models.AuditLog{})
	seedOwnedProperty(t, db)
	if err := db.Create(&models.RatePlan{PropertyID: 1, Name: "Walk-in", ModifierType: models.ModifierFixedAmount, ModifierValue: 600}).Error; err != nil {
		t.Fatalf("failed to seed rate plan: %v", err)
	}
	app := buildLifecycleTestApp()

	// 500 displayed minus the 600 modifier reconstructs below zero.
	bulkBody := `{"ratePlanID": 1, "entries": [{"date": "2099-06-01T00:00:00Z", "amount": 500}]}`
	resp := postJSON(t, app, http.MethodPost, "/api/rateplan/bulk-price", bulkBody)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a negative reconstructed price, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.PriceOverride{}).Where("property_id = ?", 1).Count(&count)
	if count != 0 {
		t.Fatalf("expected no override rows after rejection, got %d", count)
	}
}

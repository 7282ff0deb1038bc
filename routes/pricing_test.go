package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// buildPricingTestApp wires the pricing write routes with a stub auth
// middleware, so the pre-database validation paths can be exercised
// directly.
func buildPricingTestApp() *iris.Application {
	app := iris.New()
	app.Validator = validator.New()

	pricing := app.Party("/api/pricing", stubUserMiddleware)
	{
		pricing.Post("/weekly", SetWeeklyRate)
		pricing.Post("/override", SetPriceOverride)
		pricing.Post("/override/bulk", SetBulkPriceOverrides)
		pricing.Delete("/override", DeletePriceOverrides)
	}
	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

func stubUserMiddleware(ctx iris.Context) {
	ctx.Values().Set("userID", uint(1))
	ctx.Next()
}

func postJSON(t *testing.T, app *iris.Application, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestSetPriceOverrideRejectsPastDate(t *testing.T) {
	app := buildPricingTestApp()

	body := `{"propertyID": 1, "date": "2020-01-01T00:00:00Z", "fullDayPrice": 500, "halfDayPrice": 300}`
	resp := postJSON(t, app, http.MethodPost, "/api/pricing/override", body)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for past date, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "past dates are immutable") {
		t.Fatalf("expected past-date message, got %s", resp.Body.String())
	}
}

func TestSetPriceOverrideRejectsHalfAboveFull(t *testing.T) {
	app := buildPricingTestApp()

	body := `{"propertyID": 1, "date": "2099-06-01T00:00:00Z", "fullDayPrice": 300, "halfDayPrice": 500}`
	resp := postJSON(t, app, http.MethodPost, "/api/pricing/override", body)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for half above full, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestBulkOverrideRejectsWholeBatchOnOnePastDate(t *testing.T) {
	app := buildPricingTestApp()

	body := `{"propertyID": 1, "dates": ["2099-06-01T00:00:00Z", "2020-01-01T00:00:00Z"], "fullDayPrice": 500, "halfDayPrice": 300, "reason": "Season"}`
	resp := postJSON(t, app, http.MethodPost, "/api/pricing/override/bulk", body)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when any date is in the past, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "2020-01-01") {
		t.Fatalf("expected offending date in message, got %s", resp.Body.String())
	}
}

func TestDeleteOverridesRejectsPastDate(t *testing.T) {
	app := buildPricingTestApp()

	body := `{"propertyID": 1, "dates": ["2020-01-01T00:00:00Z"]}`
	resp := postJSON(t, app, http.MethodDelete, "/api/pricing/override", body)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for past date delete, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSetWeeklyRateRejectsHalfAboveFull(t *testing.T) {
	app := buildPricingTestApp()

	body := `{"propertyID": 1, "priceMonday": 500, "halfDayPriceMonday": 600}`
	resp := postJSON(t, app, http.MethodPost, "/api/pricing/weekly", body)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for half above full, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSetPriceOverrideRejectsMissingFields(t *testing.T) {
	app := buildPricingTestApp()

	resp := postJSON(t, app, http.MethodPost, "/api/pricing/override", `{"fullDayPrice": 500}`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing propertyID/date, got %d: %s", resp.Code, resp.Body.String())
	}
}

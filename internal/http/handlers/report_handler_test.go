package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"goldbot/internal/http/handlers"
	"goldbot/internal/repos"
	"goldbot/internal/services"
)

const reportKey = "test-report-key"

func newReportApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sets := repos.NewGoldSetRepo(db)
	access := repos.NewAccessRepo(db)
	analytics := services.NewAnalyticsService(sets, access, nil)

	id, err := sets.Create("@chan", 1, 2.0, "bracelet")
	if err != nil {
		t.Fatal(err)
	}
	if err := sets.LogPriceCheck(100, id, time.Now()); err != nil {
		t.Fatal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reportKey), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	h := &handlers.ReportHandler{Analytics: analytics, KeyHash: string(hash)}

	app := fiber.New()
	app.Get("/api/v1/report", h.RequireKey, h.TopViewed)
	return app
}

func get(t *testing.T, app *fiber.App, url, key string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	if key != "" {
		req.Header.Set("X-Report-Key", key)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestReportRequiresKey(t *testing.T) {
	app := newReportApp(t)

	if resp := get(t, app, "/api/v1/report?channel=@chan", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no key: %d", resp.StatusCode)
	}
	if resp := get(t, app, "/api/v1/report?channel=@chan", "wrong"); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong key: %d", resp.StatusCode)
	}
}

func TestReportDisabledWithoutHash(t *testing.T) {
	app := fiber.New()
	h := &handlers.ReportHandler{KeyHash: ""}
	app.Get("/api/v1/report", h.RequireKey, h.TopViewed)

	if resp := get(t, app, "/api/v1/report?channel=@chan", reportKey); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("disabled endpoint: %d", resp.StatusCode)
	}
}

func TestReportTopViewed(t *testing.T) {
	app := newReportApp(t)

	resp := get(t, app, "/api/v1/report?channel=@chan&days=7&limit=5", reportKey)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	var out struct {
		Channel string `json:"channel"`
		Days    int    `json:"days"`
		Sets    []struct {
			SetID   int64  `json:"set_id"`
			Caption string `json:"caption"`
			Views   int    `json:"views"`
		} `json:"sets"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v\n%s", err, body)
	}
	if out.Channel != "@chan" || out.Days != 7 {
		t.Fatalf("envelope %+v", out)
	}
	if len(out.Sets) != 1 || out.Sets[0].Caption != "bracelet" || out.Sets[0].Views != 1 {
		t.Fatalf("sets %+v", out.Sets)
	}
}

func TestReportValidatesParams(t *testing.T) {
	app := newReportApp(t)

	for _, url := range []string{
		"/api/v1/report",
		"/api/v1/report?channel=@chan&days=0",
		"/api/v1/report?channel=@chan&days=9999",
		"/api/v1/report?channel=@chan&limit=0",
		"/api/v1/report?channel=@chan&limit=500",
	} {
		if resp := get(t, app, url, reportKey); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status %d", url, resp.StatusCode)
		}
	}
}

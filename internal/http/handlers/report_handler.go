package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	applog "goldbot/internal/log"
	"goldbot/internal/services"
)

// ReportHandler exposes view analytics over HTTP for external dashboards.
// Access is guarded by a pre-shared key checked against a bcrypt hash.
type ReportHandler struct {
	Analytics *services.AnalyticsService
	KeyHash   string
}

// RequireKey rejects requests whose X-Report-Key header does not match the
// configured hash. No hash configured means the endpoint is disabled.
func (h *ReportHandler) RequireKey(c *fiber.Ctx) error {
	if h.KeyHash == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	key := c.Get("X-Report-Key")
	if err := bcrypt.CompareHashAndPassword([]byte(h.KeyHash), []byte(key)); err != nil {
		applog.HTTPError(c, "report.auth.fail", nil, nil)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid key"})
	}
	return c.Next()
}

// TopViewed answers the most viewed sets of one channel over the last N days.
func (h *ReportHandler) TopViewed(c *fiber.Ctx) error {
	channel := strings.TrimSpace(c.Query("channel"))
	if channel == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing channel"})
	}
	days := c.QueryInt("days", 7)
	if days < 1 || days > 365 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "days must be 1-365"})
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be 1-100"})
	}

	to := time.Now()
	top, err := h.Analytics.TopViewed(channel, to.AddDate(0, 0, -days), to, limit)
	if err != nil {
		applog.HTTPError(c, "report.query", err, map[string]any{"channel": channel})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "query failed"})
	}
	return c.JSON(fiber.Map{
		"channel": channel,
		"days":    days,
		"sets":    top,
	})
}

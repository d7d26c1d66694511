package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"goldbot/internal/bot"
	"goldbot/internal/config"
	"goldbot/internal/http/handlers"
	applog "goldbot/internal/log"
	"goldbot/internal/repos"
	"goldbot/internal/services"
	"goldbot/internal/telegram"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is required")
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tg, err := telegram.New(ctx, cfg.BotToken)
	if err != nil {
		log.Fatal(err)
	}
	applog.Info(0, "bot.connected", map[string]any{"username": tg.Username()})

	// Repos
	configRepo := repos.NewConfigRepo(db)
	setRepo := repos.NewGoldSetRepo(db)
	sampleRepo := repos.NewSampleRepo(db)
	accessRepo := repos.NewAccessRepo(db)
	tokenRepo := repos.NewTokenRepo(db)

	// Services
	sessions := services.NewMemorySessionStore()
	workflow := services.NewWorkflowService(sessions)
	pricing := services.NewPricingService(configRepo)
	spot := services.NewSpotPriceService(sampleRepo, cfg.SpotFeedURL, cfg.SpotCacheTTL, cfg.SpotKeepLast)
	publish := services.NewPublishService(workflow, setRepo, bot.NewChannelPoster(tg))
	broadcast := services.NewBroadcastService(accessRepo, bot.NewMessageCopier(tg))
	analytics := services.NewAnalyticsService(setRepo, accessRepo, bot.NewReportSender(tg))
	tokens := services.NewTokenService(tokenRepo, cfg.TokenExpiry)

	router := &bot.Router{
		T:         tg,
		Sessions:  sessions,
		Workflow:  workflow,
		Publish:   publish,
		Pricing:   pricing,
		Spot:      spot,
		Broadcast: broadcast,
		Analytics: analytics,
		Tokens:    tokens,
		Access:    accessRepo,
		Sets:      setRepo,
	}

	analytics.Start(ctx)

	// HTTP surface: health plus the keyed report API.
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.HTTPError(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		},
	})
	app.Use(requestid.New())
	app.Use(logger.New())

	reportH := &handlers.ReportHandler{Analytics: analytics, KeyHash: cfg.ReportKeyHash}
	api := app.Group("/api/v1")
	api.Get("/report", limiter.New(limiter.Config{Max: 30, Expiration: time.Minute}), reportH.RequireKey, reportH.TopViewed)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal(err)
		}
	}()

	// Updates are handled one at a time; per-user session state needs no
	// further serialization.
	for u := range tg.Updates(ctx) {
		router.Dispatch(ctx, u)
	}

	applog.Info(0, "bot.stopping", nil)
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("[warn] http shutdown: %v", err)
	}
}

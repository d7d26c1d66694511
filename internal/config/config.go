package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	BotToken      string
	DBDSN         string
	SpotFeedURL   string
	SpotCacheTTL  time.Duration
	SpotKeepLast  int
	TokenExpiry   time.Duration // admin invite token lifetime
	Port          string
	ReportKeyHash string // bcrypt hash guarding the HTTP report endpoint
	LogFile       string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8082"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "goldbot.db"
	} // sqlite file in project root
	feed := os.Getenv("SPOT_FEED_URL")
	if feed == "" {
		feed = "https://api.example.com/gold-price"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./goldbot.log"
	}

	cfg := Config{
		BotToken:      os.Getenv("BOT_TOKEN"),
		DBDSN:         dsn,
		SpotFeedURL:   feed,
		SpotCacheTTL:  time.Duration(envInt("SPOT_CACHE_TTL", 120)) * time.Second,
		SpotKeepLast:  envInt("SPOT_KEEP_LAST", 10),
		TokenExpiry:   time.Duration(envInt("INVITE_TOKEN_EXPIRY_DAYS", 7)) * 24 * time.Hour,
		Port:          port,
		ReportKeyHash: os.Getenv("REPORT_KEY_HASH"),
		LogFile:       logFile,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s SPOT_FEED_URL=%s SPOT_CACHE_TTL=%s KEEP_LAST=%d",
		cfg.Port, cfg.DBDSN, cfg.SpotFeedURL, cfg.SpotCacheTTL, cfg.SpotKeepLast)
	return cfg
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] bad %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"trend-scannerv1/internal/universe"
)

// Config holds all application configuration loaded from environment variables.
// Strategy parameters are constants of the design with env overrides for
// experimentation; they are read once at startup and never mutated.
type Config struct {
	// Strategy parameters
	MALength     int     // long moving-average window (bars)
	SmoothWindow int     // smoothing window applied to the long MA
	EntryBuffer  float64 // fraction above the long MA defining the entry level
	ExitBuffer   float64 // fraction below the long MA defining the exit level
	HardStopPct  float64 // loss fraction from entry that forces an exit
	SlopeFilter  float64 // minimum slope in dollars for entry candidates

	// Portfolio parameters
	InitialCapital  float64
	MaxPositions    int
	PositionSizePct float64

	// Scan parameters
	LookbackDays int // calendar days of history to request
	ScanWorkers  int // parallel per-instrument workers
	Universe     string

	// Infrastructure
	SQLitePath    string
	RedisAddr     string // empty disables the bar cache
	RedisPassword string
	BarCacheTTL   time.Duration
	MetricsAddr   string // empty disables the metrics listener
	WebhookURL    string // empty falls back to the log notifier
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		MALength:     getInt("MA_LENGTH", 150),
		SmoothWindow: getInt("SMOOTH_WINDOW", 5),
		EntryBuffer:  getFloat("ENTRY_BUFFER", 0.01),
		ExitBuffer:   getFloat("EXIT_BUFFER", 0.01),
		HardStopPct:  getFloat("HARD_STOP_PCT", 0.15),
		SlopeFilter:  getFloat("SLOPE_FILTER", 0.01),

		InitialCapital:  getFloat("INITIAL_CAPITAL", 100000),
		MaxPositions:    getInt("MAX_POSITIONS", 20),
		PositionSizePct: getFloat("POSITION_SIZE_PCT", 0.05),

		// 300 calendar days guarantees enough bars for MA150 + smoothing.
		LookbackDays: getInt("LOOKBACK_DAYS", 300),
		ScanWorkers:  getInt("SCAN_WORKERS", 8),
		Universe:     getEnv("UNIVERSE", ""),

		SQLitePath:    getEnv("SQLITE_PATH", "data/portfolio.db"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		BarCacheTTL:   getDuration("BAR_CACHE_TTL", 12*time.Hour),
		MetricsAddr:   getEnv("METRICS_ADDR", ""),
		WebhookURL:    getEnv("WEBHOOK_URL", ""),
	}
}

// ParseUniverse returns the symbols to scan.
func (c *Config) ParseUniverse() []string {
	return universe.Parse(c.Universe)
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %g", key, v, fallback)
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

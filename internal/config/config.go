package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port string
	Env  string // "development", "production"

	// CORS
	AllowedOrigins []string

	// Catalog
	CatalogPath string // YAML override of the built-in profiles; empty = built-in

	// Generation
	GeneratorSeed          int64 // 0 = seeded from the clock on every run
	InstitutionsPerProfile int
	GenerationWorkers      int
	GenerationTimeout      time.Duration

	// Export
	OutputDir     string
	DownloadDelay time.Duration // Stagger between saved files

	// Scheduled refresh
	RefreshEnabled  bool
	RefreshSchedule string // Cron expression (e.g., "0 0 * * *" for daily)
}

func Load() *Config {
	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// CORS
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),

		// Catalog
		CatalogPath: os.Getenv("CATALOG_PATH"),

		// Generation
		GeneratorSeed:          getInt64Env("GENERATOR_SEED", 0),
		InstitutionsPerProfile: getIntEnv("INSTITUTIONS_PER_PROFILE", 10),
		GenerationWorkers:      getIntEnv("GENERATION_WORKERS", runtime.NumCPU()),
		GenerationTimeout:      getDurationEnv("GENERATION_TIMEOUT", 2*time.Minute),

		// Export
		OutputDir:     getEnv("OUTPUT_DIR", "./loan-tapes"),
		DownloadDelay: getDurationEnv("DOWNLOAD_DELAY", 500*time.Millisecond),

		// Scheduled refresh
		RefreshEnabled:  getBoolEnv("TAPE_REFRESH_ENABLED", false),
		RefreshSchedule: getEnv("TAPE_REFRESH_SCHEDULE", "0 0 * * *"), // Default: daily at midnight
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

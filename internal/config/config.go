// Package config loads server settings from the environment. A .env file in
// the working directory is read first when present; real environment
// variables win over it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	Port           string
	DataDir        string
	IndexCacheSize int
	EarthRadius    float64
	AllowedOrigins []string // Empty means all origins.

	RedisHost      string // Empty disables the result cache.
	RedisPort      string
	RedisPass      string
	RedisDB        int
	ResultCacheTTL time.Duration
}

// Load reads the configuration.
func Load() (Config, error) {
	// Missing .env is the normal case in production.
	_ = godotenv.Load(".env")

	cfg := Config{
		Port:      getEnv("PORT", "8080"),
		DataDir:   getEnv("DATA_DIR", "./data"),
		RedisHost: os.Getenv("REDIS_HOST"),
		RedisPort: getEnv("REDIS_PORT", "6379"),
		RedisPass: os.Getenv("REDIS_PASS"),
	}

	var err error
	if cfg.IndexCacheSize, err = strconv.Atoi(getEnv("INDEX_CACHE_SIZE", "32")); err != nil || cfg.IndexCacheSize < 0 {
		return Config{}, fmt.Errorf("invalid INDEX_CACHE_SIZE %q", os.Getenv("INDEX_CACHE_SIZE"))
	}
	if cfg.EarthRadius, err = strconv.ParseFloat(getEnv("EARTH_RADIUS", "1"), 64); err != nil || cfg.EarthRadius <= 0 {
		return Config{}, fmt.Errorf("invalid EARTH_RADIUS %q", os.Getenv("EARTH_RADIUS"))
	}
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil || cfg.RedisDB < 0 {
		return Config{}, fmt.Errorf("invalid REDIS_DB %q", os.Getenv("REDIS_DB"))
	}
	if cfg.ResultCacheTTL, err = time.ParseDuration(getEnv("RESULT_CACHE_TTL", "10m")); err != nil {
		return Config{}, fmt.Errorf("invalid RESULT_CACHE_TTL: %w", err)
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

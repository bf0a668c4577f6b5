// Package config reads runtime settings from the environment.
//
// Storage selection (GIFT_STORAGE_BACKEND and friends) is read by
// storage.GetStorageBackend; this package covers everything else.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JamesPrial/gift-tracker/internal/gift"
	"github.com/JamesPrial/gift-tracker/internal/logging"
)

const (
	DefaultHTTPAddr           = "127.0.0.1:8787"
	DefaultRateLimitPerMinute = 120
)

// HTTP configures the JSON API server.
type HTTP struct {
	Addr               string
	AllowedOrigins     []string
	RateLimitPerMinute int
	GinMode            string
}

// Config is the process configuration read from the environment.
type Config struct {
	// DataDir holds file-based state (JSON, SQLite). Custom storage paths
	// must resolve inside it.
	DataDir string
	// Seed selects first-run data: "demo" or "blank".
	Seed string
	Log  logging.Config
	HTTP HTTP
}

// Load reads GIFT_* environment variables and applies defaults.
func Load() (Config, error) {
	cfg := Config{
		DataDir: strings.TrimSpace(os.Getenv("GIFT_DATA_DIR")),
		Seed:    strings.ToLower(getEnv("GIFT_SEED", "demo")),
		Log: logging.Config{
			Level: getEnv("GIFT_LOG_LEVEL", "info"),
			File:  strings.TrimSpace(os.Getenv("GIFT_LOG_FILE")),
		},
		HTTP: HTTP{
			Addr:           getEnv("GIFT_HTTP_ADDR", DefaultHTTPAddr),
			AllowedOrigins: splitList(os.Getenv("GIFT_ALLOWED_ORIGINS")),
			GinMode:        getEnv("GIFT_GIN_MODE", "release"),
		},
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("cannot determine home directory, set GIFT_DATA_DIR: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".gift")
	}

	switch cfg.Seed {
	case "demo", "blank":
	default:
		return Config{}, fmt.Errorf("invalid GIFT_SEED %q: expected 'demo' or 'blank'", cfg.Seed)
	}

	var err error
	if cfg.Log.MaxSizeMB, err = getInt("GIFT_LOG_MAX_SIZE_MB", 0); err != nil {
		return Config{}, err
	}
	if cfg.Log.MaxBackups, err = getInt("GIFT_LOG_MAX_BACKUPS", 0); err != nil {
		return Config{}, err
	}
	if cfg.Log.MaxAgeDays, err = getInt("GIFT_LOG_MAX_AGE_DAYS", 0); err != nil {
		return Config{}, err
	}
	if cfg.HTTP.RateLimitPerMinute, err = getInt("GIFT_RATE_LIMIT_PER_MINUTE", DefaultRateLimitPerMinute); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Seeder returns the first-run seeder selected by Seed.
func (c Config) Seeder() gift.Seeder {
	if c.Seed == "blank" {
		return gift.BlankSeeder{}
	}
	return gift.NewDemoSeeder(nil)
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

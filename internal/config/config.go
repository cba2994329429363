package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Generator kinds accepted by PHOTOTAGS_GENERATOR.
const (
	GeneratorBuiltin = "builtin"
	GeneratorCommand = "command"
)

type Config struct {
	Addr             string
	AdminPassword    string
	AdminCookie      string
	DBPath           string
	UploadDir        string
	LogLevel         slog.Level
	Generator        string
	GeneratorCommand string
	ThumbSize        int
	PreviewSize      int
	MaxUploadBytes   int64
	GenerateTimeout  time.Duration
}

// Load reads the configuration from the environment, after applying any
// .env file found in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:             getString("PHOTOTAGS_ADDR", ":8080"),
		AdminPassword:    strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")),
		AdminCookie:      getString("PHOTOTAGS_ADMIN_COOKIE", "phototags_admin"),
		DBPath:           getString("PHOTOTAGS_DB_PATH", "data/phototags.db"),
		UploadDir:        getString("PHOTOTAGS_UPLOAD_DIR", "public/images/uploads"),
		LogLevel:         getLogLevel("PHOTOTAGS_LOG_LEVEL", slog.LevelInfo),
		Generator:        strings.ToLower(getString("PHOTOTAGS_GENERATOR", GeneratorBuiltin)),
		GeneratorCommand: getString("PHOTOTAGS_GENERATOR_COMMAND", "epg-prep"),
		ThumbSize:        getInt("PHOTOTAGS_THUMB_SIZE", 200),
		PreviewSize:      getInt("PHOTOTAGS_PREVIEW_SIZE", 1200),
		MaxUploadBytes:   int64(getInt("PHOTOTAGS_MAX_UPLOAD_BYTES", 32<<20)),
		GenerateTimeout:  getDuration("PHOTOTAGS_GENERATE_TIMEOUT", 2*time.Minute),
	}

	switch cfg.Generator {
	case GeneratorBuiltin, GeneratorCommand:
	default:
		return nil, fmt.Errorf("PHOTOTAGS_GENERATOR must be %q or %q, got %q", GeneratorBuiltin, GeneratorCommand, cfg.Generator)
	}

	if cfg.ThumbSize <= 0 || cfg.PreviewSize <= 0 {
		return nil, fmt.Errorf("thumbnail and preview sizes must be positive")
	}

	if cfg.GenerateTimeout <= 0 {
		return nil, fmt.Errorf("PHOTOTAGS_GENERATE_TIMEOUT must be positive")
	}

	return cfg, nil
}

// RequireAdmin reports an error when no admin password is configured. Only the
// HTTP server needs one; the operator commands run without it.
func (c *Config) RequireAdmin() error {
	if c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD must be set")
	}
	return nil
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func getLogLevel(key string, fallback slog.Level) slog.Level {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "":
		return fallback
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort           = 8080
	defaultRunTTL         = time.Hour
	defaultRenderDPI      = 150
	defaultMaxUploadMB    = 256
	defaultRequestTimeout = 5 * time.Minute
	defaultLogLevel       = "info"
)

// Config holds environment-driven settings for the section viewer.
type Config struct {
	// DatabaseURL enables the run log when set.
	DatabaseURL    string
	Port           int
	BearerToken    string
	WorkspaceDir   string
	RunTTL         time.Duration
	RenderDPI      int
	MaxUploadMB    int64
	RequestTimeout time.Duration
	LogLevel       string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:           defaultPort,
		RunTTL:         defaultRunTTL,
		RenderDPI:      defaultRenderDPI,
		MaxUploadMB:    defaultMaxUploadMB,
		RequestTimeout: defaultRequestTimeout,
		LogLevel:       defaultLogLevel,
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	cfg.WorkspaceDir = strings.TrimSpace(os.Getenv("WORKSPACE_DIR"))
	if cfg.WorkspaceDir == "" {
		cfg.WorkspaceDir = os.TempDir()
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if v := strings.TrimSpace(os.Getenv("RUN_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid RUN_TTL: %s", v)
		}
		cfg.RunTTL = d
	}

	if v := strings.TrimSpace(os.Getenv("REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid REQUEST_TIMEOUT: %s", v)
		}
		cfg.RequestTimeout = d
	}

	if v := strings.TrimSpace(os.Getenv("RENDER_DPI")); v != "" {
		if dpi, err := strconv.Atoi(v); err == nil && dpi > 0 && dpi <= 600 {
			cfg.RenderDPI = dpi
		} else {
			return cfg, fmt.Errorf("invalid RENDER_DPI: %s", v)
		}
	}

	if v := strings.TrimSpace(os.Getenv("MAX_UPLOAD_MB")); v != "" {
		if mb, err := strconv.ParseInt(v, 10, 64); err == nil && mb > 0 {
			cfg.MaxUploadMB = mb
		} else {
			return cfg, fmt.Errorf("invalid MAX_UPLOAD_MB: %s", v)
		}
	}

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// MaxUploadBytes is the request body limit for uploads.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

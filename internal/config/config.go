package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port     string
	LogLevel string

	// Upstream fitness API
	UpstreamBaseURL   string
	UpstreamBasicUser string
	UpstreamBasicPass string
	UpstreamAPIKey    string
	UpstreamSecretKey string
	UpstreamAppKey    string
	UpstreamTimeout   time.Duration

	// CORS: empty = no cross-origin access, "*" = everyone, else exact list
	CORSAllowOrigins string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Response cache
	CacheTTL        time.Duration
	CacheMaxEntries int

	// Include upstream status/body/URL in 502 responses
	DebugUpstreamErrors bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		UpstreamBaseURL:   os.Getenv("UPSTREAM_BASE_URL"),
		UpstreamBasicUser: os.Getenv("UPSTREAM_BASIC_USER"),
		UpstreamBasicPass: os.Getenv("UPSTREAM_BASIC_PASS"),
		UpstreamAPIKey:    os.Getenv("UPSTREAM_API_KEY"),
		UpstreamSecretKey: os.Getenv("UPSTREAM_SECRET_KEY"),
		UpstreamAppKey:    os.Getenv("UPSTREAM_APP_KEY"),
		UpstreamTimeout:   time.Duration(mustAtoi(getEnv("UPSTREAM_TIMEOUT_SECONDS", "15"), 15)) * time.Second,

		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", ""),

		RateLimitRequests: mustAtoi(getEnv("RATE_LIMIT_REQUESTS", "60"), 60),
		RateLimitWindow:   time.Duration(mustAtoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"), 60)) * time.Second,

		CacheTTL:        time.Duration(mustAtoi(getEnv("CACHE_TTL_SECONDS", "30"), 30)) * time.Second,
		CacheMaxEntries: mustAtoi(getEnv("CACHE_MAX_ENTRIES", "256"), 256),

		DebugUpstreamErrors: getEnv("DEBUG_UPSTREAM_ERRORS", "false") == "true",
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate ensures all required upstream credentials are present at startup
func (cfg *Config) validate() error {
	missing := []string{}
	if cfg.UpstreamBaseURL == "" {
		missing = append(missing, "UPSTREAM_BASE_URL")
	}
	if cfg.UpstreamBasicUser == "" {
		missing = append(missing, "UPSTREAM_BASIC_USER")
	}
	if cfg.UpstreamBasicPass == "" {
		missing = append(missing, "UPSTREAM_BASIC_PASS")
	}
	if cfg.UpstreamAPIKey == "" {
		missing = append(missing, "UPSTREAM_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// CORSOrigins returns the allowed cross-origin domains. An empty slice means
// no cross-origin access; a single "*" entry means everyone.
func (cfg *Config) CORSOrigins() []string {
	raw := strings.TrimSpace(cfg.CORSAllowOrigins)
	if raw == "" {
		return nil
	}
	if raw == "*" {
		return []string{"*"}
	}
	origins := []string{}
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func mustAtoi(s string, fallback int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return i
}

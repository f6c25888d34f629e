package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPort is used when PORT is unset or not a valid port number.
	DefaultPort = 8000

	// DefaultUpstreamURL is the SerpApi search endpoint.
	DefaultUpstreamURL = "https://serpapi.com/search.json"
)

// Config holds process-wide settings, read once at startup.
type Config struct {
	Port            int
	APIKey          string
	UpstreamURL     string
	UpstreamTimeout time.Duration
	LogLevel        slog.Level
}

// Load builds a Config from environment variables.
func Load() Config {
	return Config{
		Port:            getEnvAsPort("PORT", DefaultPort),
		APIKey:          os.Getenv("SERPAPI_KEY"),
		UpstreamURL:     getEnv("SERPAPI_URL", DefaultUpstreamURL),
		UpstreamTimeout: getEnvAsDuration("SERPAPI_TIMEOUT", 0),
		LogLevel:        parseLevel(os.Getenv("LOG_LEVEL")),
	}
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// getEnv gets an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsPort(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return defaultValue
	}
	return port
}

// getEnvAsDuration accepts Go durations ("5s") or a plain number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Package config loads the resolver's configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dualsubstrate/web4r-go/internal/client"
)

// Config holds all configuration values.
type Config struct {
	// Backend API
	APIBase string
	Timeout time.Duration

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables. The default API base
// is the production resolver.
func Load() Config {
	return Config{
		APIBase: getEnv("W4R_API_BASE", client.DefaultBaseURL),
		Timeout: parseDuration(getEnv("W4R_TIMEOUT", "30s")),

		LogFile:  getEnv("W4R_LOG_FILE", "/tmp/web4r.log"),
		LogLevel: parseLogLevel(getEnv("W4R_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseDuration(s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

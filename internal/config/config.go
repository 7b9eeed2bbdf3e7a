// Package config loads API server configuration from environment variables
// with sensible defaults.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
)

// Config holds all API server settings.
type Config struct {
	// Port the HTTP server listens on (PORT, default 8080).
	Port int

	// DBPath is the SQLite run-history database file (PIPELINE_DB, default pipeline.db).
	DBPath string

	// InputDir is the default directory holding input extracts (PIPELINE_INPUT_DIR, default data).
	InputDir string

	// OutputBaseDir is the base directory for per-run outputs (PIPELINE_OUTPUT_DIR, default output).
	OutputBaseDir string

	// LogLevel and LogFormat configure the structured logger
	// (LOG_LEVEL default info, LOG_FORMAT default text).
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment.
func Load() Config {
	return Config{
		Port:          cast.ToInt(envOr("PORT", "8080")),
		DBPath:        envOr("PIPELINE_DB", "pipeline.db"),
		InputDir:      envOr("PIPELINE_INPUT_DIR", "data"),
		OutputBaseDir: envOr("PIPELINE_OUTPUT_DIR", "output"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		LogFormat:     envOr("LOG_FORMAT", "text"),
	}
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

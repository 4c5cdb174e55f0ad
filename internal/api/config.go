package api

import (
	"os"
	"strconv"
	"strings"
)

// Config holds connection settings for the progress server.
type Config struct {
	BaseURL    string
	Token      string
	TimeoutMs  int
	MaxRetries int
	LogCalls   bool
}

// DefaultConfig targets a local development server. No token is set.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:5000",
		TimeoutMs:  5000,
		MaxRetries: 1,
	}
}

// LoadConfig reads WAYPOINT_API_* variables over DefaultConfig.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("WAYPOINT_API_URL"); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("WAYPOINT_API_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("WAYPOINT_API_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("WAYPOINT_API_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("WAYPOINT_API_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	return cfg
}

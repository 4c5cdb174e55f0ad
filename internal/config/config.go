// Package config loads runtime settings from an optional .env file and
// WAYPOINT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/waypoint/internal/api"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/joho/godotenv"
)

// Backend names where the snapshot is stored.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

type Config struct {
	Backend      Backend
	DBPath       string
	StateDir     string
	HistoryLimit int
	LogLevel     slog.Level
	LogFormat    string
	MetricsFile  string
	API          api.Config
}

// DefaultConfig keeps everything under ~/.waypoint. home may be empty when
// the home directory is unknown, in which case paths are relative.
func DefaultConfig(home string) Config {
	base := filepath.Join(home, ".waypoint")
	return Config{
		Backend:      BackendSQLite,
		DBPath:       filepath.Join(base, "waypoint.db"),
		StateDir:     filepath.Join(base, "state"),
		HistoryLimit: domain.DefaultHistoryLimit,
		LogLevel:     slog.LevelWarn,
		LogFormat:    "text",
		API:          api.DefaultConfig(),
	}
}

// Load reads envFiles (default ".env") into the process environment without
// overriding variables that are already set, then applies WAYPOINT_*
// variables over DefaultConfig. Missing env files are ignored.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading %s: %w", f, err)
		}
	}

	home, _ := os.UserHomeDir()
	cfg := DefaultConfig(home)

	if v := os.Getenv("WAYPOINT_BACKEND"); v != "" {
		switch b := Backend(strings.ToLower(v)); b {
		case BackendSQLite, BackendFile, BackendMemory:
			cfg.Backend = b
		default:
			return Config{}, fmt.Errorf("WAYPOINT_BACKEND: unknown backend %q (want sqlite, file or memory)", v)
		}
	}
	if v := os.Getenv("WAYPOINT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("WAYPOINT_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("WAYPOINT_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HistoryLimit = n
		}
	}
	if v := os.Getenv("WAYPOINT_LOG_LEVEL"); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("WAYPOINT_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}
	if v := os.Getenv("WAYPOINT_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := os.Getenv("WAYPOINT_METRICS_FILE"); v != "" {
		cfg.MetricsFile = v
	}
	cfg.API = api.LoadConfig()

	return cfg, nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/waypoint/internal/api"
	"github.com/alexanderramin/waypoint/internal/cli"
	"github.com/alexanderramin/waypoint/internal/config"
	"github.com/alexanderramin/waypoint/internal/db"
	"github.com/alexanderramin/waypoint/internal/metrics"
	"github.com/alexanderramin/waypoint/internal/service"
	"github.com/alexanderramin/waypoint/internal/storage"
	"github.com/alexanderramin/waypoint/internal/store"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := config.NewLogger(cfg, os.Stderr)

	// Metrics are only collected when something will read them.
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if cfg.MetricsFile != "" {
		prom = metrics.NewPrometheusRecorder(prometheus.NewRegistry())
		recorder = prom
	}

	// Open the snapshot slot for the configured backend.
	var (
		slot       storage.Slot
		watchPaths []string
	)
	switch cfg.Backend {
	case config.BackendMemory:
		slot = storage.NewMemorySlot()
	case config.BackendFile:
		fileSlot, err := storage.NewFileSlot(cfg.StateDir)
		if err != nil {
			return fmt.Errorf("opening state directory: %w", err)
		}
		slot = fileSlot
		watchPaths = []string{fileSlot.Path(storage.StateKey)}
	default:
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		slot = storage.NewSQLiteSlotWithUoW(database, db.NewSQLiteUnitOfWork(database))
		watchPaths = []string{cfg.DBPath}
	}

	backend := storage.NewSnapshotStore(slot,
		storage.WithLogger(logger),
		storage.WithRecorder(recorder),
	)
	manager := store.New(backend,
		store.WithHistoryLimit(cfg.HistoryLimit),
		store.WithLogger(logger),
		store.WithRecorder(recorder),
	)

	// Wire the progress server client.
	observers := api.MultiObserver{api.NewMetricsObserver(recorder)}
	if cfg.API.LogCalls {
		observers = append(observers, api.NewLogObserver(logger))
	}
	client := api.NewHTTPClient(cfg.API, observers)

	useCases := service.NewLogUseCaseObserver(logger)
	app := &cli.App{
		Store:          manager,
		Roadmaps:       service.NewRoadmapService(manager, useCases),
		Sync:           service.NewSyncService(client, manager, useCases),
		ClearPersisted: backend.Clear,
		WatchPaths:     watchPaths,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	runErr := cli.NewRootCmd(app).ExecuteContext(context.Background())

	if prom != nil {
		if err := prom.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("metrics_textfile_failed", "path", cfg.MetricsFile, "error", err)
		}
	}
	return runErr
}

package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/waypoint/internal/service"
	"github.com/alexanderramin/waypoint/internal/store"
	"github.com/spf13/cobra"
)

// App holds the store and services used by CLI commands.
type App struct {
	Store    *store.Manager
	Roadmaps service.RoadmapService
	Sync     service.SyncService

	// ClearPersisted deletes the stored snapshot. Nil when the backend
	// keeps nothing between runs.
	ClearPersisted func(ctx context.Context) error

	// WatchPaths are the files the dashboard watches for writes by other
	// processes. Empty disables live reload.
	WatchPaths []string

	// IsInteractive reports whether stdin is a terminal. Nil means false.
	IsInteractive func() bool

	// Now defaults to time.Now.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "waypoint" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "waypoint",
		Short:         "Track progress through a learning roadmap",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newStatusCmd(app),
		newRoadmapCmd(app),
		newMilestoneCmd(app),
		newStatsCmd(app),
		newHistoryCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newThemeCmd(app),
		newViewCmd(app),
		newSyncCmd(app),
		newReportCmd(app),
		newDumpCmd(app),
		newResetCmd(app),
		newDashboardCmd(app),
	)

	return root
}

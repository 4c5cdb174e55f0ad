package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show or override progress statistics",
	}

	cmd.AddCommand(newStatsShowCmd(app), newStatsSetCmd(app))

	return cmd
}

func newStatsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print completed, total and percentage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.Store.State().ProgressStats
			fmt.Fprintf(cmd.OutOrStdout(), "completed=%d total=%d percentage=%d\n", s.Completed, s.Total, s.Percentage)
			return nil
		},
	}
}

// newStatsSetCmd overrides stats without recomputing them from the
// milestones; the next milestone change recomputes.
func newStatsSetCmd(app *App) *cobra.Command {
	var completed, total, percentage int

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Override progress statistics (e.g. with server values)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.StatsPatch
			if cmd.Flags().Changed("completed") {
				patch.Completed = &completed
			}
			if cmd.Flags().Changed("total") {
				patch.Total = &total
			}
			if cmd.Flags().Changed("percentage") {
				patch.Percentage = &percentage
			}
			if patch.IsEmpty() {
				return errors.New("nothing to set: pass --completed, --total or --percentage")
			}

			app.Store.UpdateProgressStats(patch)

			s := app.Store.State().ProgressStats
			fmt.Fprintf(cmd.OutOrStdout(), "completed=%d total=%d percentage=%d\n", s.Completed, s.Total, s.Percentage)
			return nil
		},
	}

	cmd.Flags().IntVar(&completed, "completed", 0, "Completed milestone count")
	cmd.Flags().IntVar(&total, "total", 0, "Total milestone count")
	cmd.Flags().IntVar(&percentage, "percentage", 0, "Completion percentage")

	return cmd
}

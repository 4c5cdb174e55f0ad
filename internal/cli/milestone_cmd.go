package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/waypoint/internal/cli/formatter"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newMilestoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "milestone",
		Aliases: []string{"ms"},
		Short:   "List and update milestones",
	}

	cmd.AddCommand(
		newMilestoneListCmd(app),
		newMilestoneAddCmd(app),
		newMilestoneProgressCmd(app),
		newMilestoneToggleCmd(app),
	)

	return cmd
}

func newMilestoneListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List milestones of the current roadmap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ms := app.Store.State().Milestones
			if len(ms) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No milestones."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMilestoneTable(ms))
			return nil
		},
	}
}

func newMilestoneAddCmd(app *App) *cobra.Command {
	var (
		id, title, description, status string
		progress                       int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a milestone, replacing any with the same id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return fmt.Errorf("--title is required")
			}
			if status != "" && !domain.ValidMilestoneStatuses[status] {
				return fmt.Errorf("invalid status %q (valid: locked, in_progress, completed)", status)
			}
			if id == "" {
				id = uuid.New().String()
			}
			m := domain.Milestone{
				ID:          id,
				Title:       title,
				Description: description,
				Status:      domain.MilestoneStatus(status),
				Progress:    progress,
			}
			if status == "" {
				m.Status = domain.StatusForProgress(domain.ClampProgress(progress))
			}
			app.Store.AddMilestone(m)

			added, _ := app.Store.State().Milestone(id)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s\n",
				formatter.Bold(added.Title), formatter.Dim(added.ID), formatter.StatusIndicator(added.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Milestone id (default random UUID)")
	cmd.Flags().StringVar(&title, "title", "", "Milestone title")
	cmd.Flags().StringVar(&description, "description", "", "Milestone description")
	cmd.Flags().StringVar(&status, "status", "", "locked, in_progress or completed (default derived from progress)")
	cmd.Flags().IntVar(&progress, "progress", 0, "Initial progress 0-100")

	return cmd
}

func newMilestoneProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress ID PERCENT",
		Short: "Set a milestone's progress (clamped to 0-100)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			pct, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid percent %q: %w", args[1], err)
			}
			before, ok := app.Store.State().Milestone(id)
			if !ok {
				return fmt.Errorf("%w: %s", service.ErrMilestoneNotFound, id)
			}

			app.Store.UpdateMilestoneProgress(id, pct)

			return printMilestoneChange(cmd, app, before)
		},
	}
}

func newMilestoneToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Mark a milestone completed, or back to not started",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, ok := app.Store.State().Milestone(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", service.ErrMilestoneNotFound, args[0])
			}

			app.Store.ToggleMilestoneCompletion(args[0])

			return printMilestoneChange(cmd, app, before)
		},
	}
}

func printMilestoneChange(cmd *cobra.Command, app *App, before domain.Milestone) error {
	snap := app.Store.State()
	after, _ := snap.Milestone(before.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %d%% → %d%% (%s)  %s\n",
		formatter.Bold(after.Title),
		before.Progress, after.Progress,
		formatter.Delta(before.Progress, after.Progress),
		formatter.StatusIndicator(after.Status))
	fmt.Fprintf(cmd.OutOrStdout(), "Overall %s\n", formatter.RenderProgress(snap.ProgressStats.Percentage, 20))
	return nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/waypoint/internal/cli/formatter"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Exchange progress with the progress server",
	}

	cmd.AddCommand(
		newSyncHealthCmd(app),
		newSyncSignInCmd(app),
		newSyncPushCmd(app),
		newSyncPullCmd(app),
		newSyncHistoryCmd(app),
		newSyncAnalyticsCmd(app),
		newSyncExportCmd(app),
		newSyncCreateCmd(app),
	)

	return cmd
}

func newSyncHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server and database health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := app.Sync.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHealth(h))
			return nil
		},
	}
}

func newSyncSignInCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signin",
		Short: "Sign in with the profile of the configured API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.Sync.SignIn(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", formatter.Bold(u.Name), u.Role)
			return nil
		},
	}
}

func newSyncPushCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "push [ID...]",
		Short: "Send milestone progress to the server (all milestones by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Sync.PushProgress(cmd.Context(), args...)
			if err != nil {
				if n > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d milestone(s) before failing.\n", n)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d milestone(s).\n", n)
			return nil
		},
	}
}

func newSyncPullCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Replace local progress statistics with the server's",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Sync.PullStats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Server stats: %d/%d %s\n",
				s.Completed, s.Total, formatter.RenderProgress(s.Percentage, 20))
			return nil
		},
	}
}

func newSyncHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the server's progress history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := app.Sync.PullHistory(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(history, app.Store.State().Milestones, limit, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")

	return cmd
}

func newSyncAnalyticsCmd(app *App) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Compute progress analytics locally, or fetch them with --remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Sync.Analytics(cmd.Context(), remote)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAnalytics(a))
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Fetch analytics from the server")

	return cmd
}

func newSyncExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the server's progress export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := app.Sync.Export(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(exp.Body)
				return err
			}
			if err := os.WriteFile(out, exp.Body, 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Export (%s, %d bytes) written to %s\n", exp.ContentType, len(exp.Body), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")

	return cmd
}

func newSyncCreateCmd(app *App) *cobra.Command {
	var id, title, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a milestone on the server and add it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return fmt.Errorf("--title is required")
			}
			if id == "" {
				id = uuid.New().String()
			}
			m, err := app.Sync.CreateMilestone(cmd.Context(), domain.Milestone{
				ID:          id,
				Title:       title,
				Description: description,
				Status:      domain.MilestoneLocked,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s\n", formatter.Bold(m.Title), formatter.Dim(m.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Milestone id (default random UUID)")
	cmd.Flags().StringVar(&title, "title", "", "Milestone title")
	cmd.Flags().StringVar(&description, "description", "", "Milestone description")

	return cmd
}

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/waypoint/internal/cli/formatter"
	"github.com/alexanderramin/waypoint/internal/importer"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRoadmapCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roadmap",
		Short: "Load, export or clear the current roadmap",
	}

	cmd.AddCommand(
		newRoadmapLoadCmd(app),
		newRoadmapExportCmd(app),
		newRoadmapClearCmd(app),
	)

	return cmd
}

func newRoadmapLoadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE",
		Short: "Replace the current roadmap with a YAML or JSON definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Roadmaps.LoadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Loaded %s (%d/%d milestones completed)\n",
				formatter.StyleGreen.Render("✔"),
				formatter.Bold(result.Roadmap.Title),
				result.Completed, result.Total)
			return nil
		},
	}
}

func newRoadmapExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current roadmap as a YAML definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rm := app.Store.State().CurrentRoadmap
			if rm == nil {
				return errors.New("no roadmap loaded")
			}
			data, err := yaml.Marshal(importer.FromRoadmap(rm))
			if err != nil {
				return fmt.Errorf("encoding roadmap: %w", err)
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("writing roadmap file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Roadmap written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")

	return cmd
}

func newRoadmapClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the current roadmap and its milestones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Roadmaps.Clear(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Roadmap cleared. Progress history was kept.")
			return nil
		},
	}
}

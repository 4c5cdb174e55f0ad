package cli

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/waypoint/internal/report"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newReportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "report FILE.pdf",
		Short: "Write a PDF progress report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := report.WritePDFFile(args[0], app.Store.State(), app.now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", args[0])
			return nil
		},
	}
}

func newDumpCmd(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the full state snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := app.Store.State()
			switch format {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(snap); err != nil {
					return fmt.Errorf("encoding snapshot: %w", err)
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			default:
				return fmt.Errorf("unknown format %q (valid: yaml, json)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "yaml or json")

	return cmd
}

func newResetCmd(app *App) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Return to the default state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Store.Reset()
			if purge && app.ClearPersisted != nil {
				if err := app.ClearPersisted(cmd.Context()); err != nil {
					return fmt.Errorf("clearing stored state: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "State reset.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "Also delete the stored record")

	return cmd
}

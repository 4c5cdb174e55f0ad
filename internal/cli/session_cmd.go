package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/waypoint/internal/cli/formatter"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var (
		id     string
		fields loginFields
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a local profile (see `sync signin` for the server)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fields.Name == "" {
				if !app.interactive() {
					return errors.New("--name is required when not running in a terminal")
				}
				if err := loginForm(&fields).Run(); err != nil {
					return err
				}
			}
			if err := validateRequired(fields.Name); err != nil {
				return fmt.Errorf("name %w", err)
			}
			if err := validateOptionalEmail(fields.Email); err != nil {
				return fmt.Errorf("email: %w", err)
			}
			switch domain.Role(fields.Role) {
			case "", domain.RoleMember, domain.RoleAdmin:
			default:
				return fmt.Errorf("invalid role %q (valid: member, admin)", fields.Role)
			}
			if id == "" {
				id = uuid.New().String()
			}

			app.Store.Login(fields.user(id))

			u := app.Store.State().CurrentUser
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", formatter.Bold(u.Name), u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "User id (default random UUID)")
	cmd.Flags().StringVar(&fields.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&fields.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&fields.Role, "role", "", "member or admin (default member)")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and drop cached analytics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Store.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newThemeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "theme",
		Short: "Toggle between light and dark theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Store.ToggleTheme()
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", app.Store.State().Theme)
			return nil
		},
	}
}

func newViewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "view [NAME]",
		Short: "Show or change the current view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), app.Store.State().CurrentView)
				return nil
			}
			if !domain.ValidViews[args[0]] {
				return fmt.Errorf("unknown view %q (valid: %s)", args[0], strings.Join(viewNames(), ", "))
			}
			app.Store.SetCurrentView(domain.View(args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "View: %s\n", args[0])
			return nil
		},
	}
}

func viewNames() []string {
	names := make([]string, 0, len(domain.ValidViews))
	for v := range domain.ValidViews {
		names = append(names, v)
	}
	sort.Strings(names)
	return names
}

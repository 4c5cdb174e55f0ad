package cli

import (
	"errors"
	"strings"

	"github.com/alexanderramin/waypoint/internal/cli/formatter"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// waypointHuhTheme returns a huh theme using the formatter palette.
func waypointHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// loginFields collects the values edited by loginForm.
type loginFields struct {
	Name  string
	Email string
	Role  string
}

func (f loginFields) user(id string) domain.User {
	return domain.User{
		ID:    id,
		Name:  strings.TrimSpace(f.Name),
		Email: strings.TrimSpace(f.Email),
		Role:  domain.Role(f.Role),
	}
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validateOptionalEmail(s string) error {
	s = strings.TrimSpace(s)
	if s != "" && !strings.Contains(s, "@") {
		return errors.New("not an email address")
	}
	return nil
}

// loginForm prompts for a local profile.
func loginForm(f *loginFields) *huh.Form {
	if f.Role == "" {
		f.Role = string(domain.RoleMember)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&f.Name).
				Validate(validateRequired),
			huh.NewInput().
				Title("Email").
				Placeholder("optional").
				Value(&f.Email).
				Validate(validateOptionalEmail),
			huh.NewSelect[string]().
				Title("Role").
				Options(
					huh.NewOption("Member", string(domain.RoleMember)),
					huh.NewOption("Admin", string(domain.RoleAdmin)),
				).
				Value(&f.Role),
		),
	).WithTheme(waypointHuhTheme()).WithShowHelp(false)
}

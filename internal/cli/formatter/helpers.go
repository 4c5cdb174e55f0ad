package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title == "" {
		return box.Render(content)
	}
	return box.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
}

// RelativeTimeFrom describes t relative to now ("Just now", "5m ago",
// "3h ago", "2d ago"). Times older than two weeks, or in the future, are
// shown as a date.
func RelativeTimeFrom(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.UTC().Format("Jan 2, 2006")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 14*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.UTC().Format("Jan 2, 2006")
	}
}

// HumanTimestamp renders a stored history timestamp relative to now,
// falling back to the raw string when it does not parse.
func HumanTimestamp(ts string, now time.Time) string {
	t, err := time.Parse(domain.TimestampLayout, ts)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, ts); err != nil {
			return ts
		}
	}
	return RelativeTimeFrom(t, now)
}

// Delta renders a signed progress change, green when it grows.
func Delta(previous, next int) string {
	d := next - previous
	switch {
	case d > 0:
		return StyleGreen.Render(fmt.Sprintf("+%d", d))
	case d < 0:
		return StyleRed.Render(fmt.Sprintf("%d", d))
	default:
		return Dim("0")
	}
}

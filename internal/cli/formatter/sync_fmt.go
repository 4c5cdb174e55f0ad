package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/waypoint/internal/api"
	"github.com/alexanderramin/waypoint/internal/domain"
)

// FormatHealth renders the server health probe.
func FormatHealth(h api.Health) string {
	style := StyleGreen
	if h.Status != "healthy" {
		style = StyleRed
	}
	line := fmt.Sprintf("server: %s", style.Render(h.Status))
	if h.Database != "" {
		db := StyleGreen
		if h.Database != "healthy" {
			db = StyleRed
		}
		line += fmt.Sprintf("  database: %s", db.Render(h.Database))
	}
	if h.Timestamp != "" {
		line += Dim("  at " + h.Timestamp)
	}
	return line + "\n"
}

// FormatAnalytics renders a ProgressAnalytics summary.
func FormatAnalytics(a domain.ProgressAnalytics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "average progress  %s\n", RenderProgress(int(a.AverageProgress+0.5), 20))
	fmt.Fprintf(&b, "completed         %s\n", StyleGreen.Render(fmt.Sprint(a.Completed)))
	fmt.Fprintf(&b, "in progress       %s\n", StyleYellow.Render(fmt.Sprint(a.InProgress)))
	fmt.Fprintf(&b, "locked            %s\n", Dim(fmt.Sprint(a.Locked)))
	fmt.Fprintf(&b, "history events    %d\n", a.HistoryEvents)
	if a.LastActivity != "" {
		fmt.Fprintf(&b, "last activity     %s\n", a.LastActivity)
	}
	b.WriteString(Dim(fmt.Sprintf("source: %s, fetched %s", a.Source, a.FetchedAt)))
	return RenderBox("Analytics", b.String()) + "\n"
}

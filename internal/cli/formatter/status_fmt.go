package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/waypoint/internal/domain"
)

const statusProgressBarWidth = 20

// FormatStatus renders the roadmap overview: owner, overall progress and
// the completed and pending milestone lists.
func FormatStatus(snap domain.Snapshot) string {
	var b strings.Builder

	if snap.CurrentRoadmap != nil {
		b.WriteString(Bold(snap.CurrentRoadmap.Title) + "\n")
		if snap.CurrentRoadmap.Description != "" {
			b.WriteString(Dim(snap.CurrentRoadmap.Description) + "\n")
		}
	} else {
		b.WriteString(Dim("No roadmap loaded. Run `waypoint roadmap load <file>`.") + "\n")
	}
	b.WriteString(formatUserLine(snap) + "\n\n")

	stats := snap.ProgressStats
	b.WriteString(fmt.Sprintf("%s  %d/%d milestones\n",
		RenderProgress(stats.Percentage, statusProgressBarWidth), stats.Completed, stats.Total))

	completed, pending := domain.SplitByCompletion(snap.Milestones)
	if len(pending) > 0 {
		b.WriteString("\n" + Header("Pending") + "\n")
		b.WriteString(FormatMilestoneTable(pending))
	}
	if len(completed) > 0 {
		b.WriteString("\n" + Header("Completed") + "\n")
		for _, m := range completed {
			b.WriteString(fmt.Sprintf("  %s %s\n", StyleGreen.Render("✔"), m.Title))
		}
	}

	return RenderBox("Status", b.String())
}

// FormatMilestoneTable lists milestones with id, title, status and progress.
func FormatMilestoneTable(ms []domain.Milestone) string {
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, []string{
			Dim(m.ID),
			m.Title,
			StatusIndicator(m.Status),
			RenderProgress(m.Progress, 10),
		})
	}
	return RenderTable([]string{"ID", "TITLE", "STATUS", "PROGRESS"}, rows)
}

func formatUserLine(snap domain.Snapshot) string {
	if !snap.IsAuthenticated || snap.CurrentUser == nil {
		return Dim("Signed out") + Dim(fmt.Sprintf(" · %s theme · %s view", snap.Theme, snap.CurrentView))
	}
	role := string(snap.CurrentUser.Role)
	if snap.CurrentUser.IsAdmin() {
		role = StyleYellow.Render(role)
	}
	return fmt.Sprintf("%s (%s)", StyleBlue.Render(snap.CurrentUser.Name), role) +
		Dim(fmt.Sprintf(" · %s theme · %s view", snap.Theme, snap.CurrentView))
}

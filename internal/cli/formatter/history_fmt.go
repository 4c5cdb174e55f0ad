package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
)

// FormatHistory renders the last limit entries, newest first. Milestone
// titles are resolved from ms when the id is still known.
func FormatHistory(history []domain.ProgressHistoryEntry, ms []domain.Milestone, limit int, now time.Time) string {
	if len(history) == 0 {
		return Dim("No progress recorded yet.") + "\n"
	}
	if limit <= 0 || limit > len(history) {
		limit = len(history)
	}

	titles := make(map[string]string, len(ms))
	for _, m := range ms {
		titles[m.ID] = m.Title
	}

	rows := make([][]string, 0, limit)
	for i := len(history) - 1; i >= len(history)-limit; i-- {
		e := history[i]
		name := e.MilestoneID
		if title, ok := titles[e.MilestoneID]; ok && title != "" {
			name = title
		}
		rows = append(rows, []string{
			Dim(HumanTimestamp(e.Timestamp, now)),
			name,
			fmt.Sprintf("%d%% → %d%%", e.PreviousProgress, e.NewProgress),
			Delta(e.PreviousProgress, e.NewProgress),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable([]string{"WHEN", "MILESTONE", "CHANGE", "Δ"}, rows))
	if limit < len(history) {
		b.WriteString(Dim(fmt.Sprintf("… %d older entries", len(history)-limit)) + "\n")
	}
	return b.String()
}

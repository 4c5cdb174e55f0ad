package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/waypoint/internal/api"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func seededSnapshot() domain.Snapshot {
	ms := []domain.Milestone{
		testutil.CompletedMilestone("a"),
		testutil.InProgressMilestone("b", 40),
		testutil.NewTestMilestone("c"),
	}
	ms[0].Title = "Foundations"
	ms[1].Title = "Tooling"
	ms[2].Title = "Deployment"
	return testutil.NewTestSnapshot(
		testutil.WithRoadmap(testutil.NewTestRoadmap("r1", ms...)),
		testutil.WithUser(testutil.NewTestUser("ada", domain.RoleAdmin)),
	)
}

func TestFormatStatus_ListsCompletedAndPending(t *testing.T) {
	snap := seededSnapshot()
	snap.CurrentRoadmap.Title = "Backend Path"

	out := FormatStatus(snap)

	assert.Contains(t, out, "Backend Path")
	assert.Contains(t, out, "ada")
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "1/3 milestones")
	assert.Contains(t, out, "PENDING")
	assert.Contains(t, out, "Tooling")
	assert.Contains(t, out, "Deployment")
	assert.Contains(t, out, "COMPLETED")
	assert.Contains(t, out, "Foundations")
}

func TestFormatStatus_NoRoadmap(t *testing.T) {
	out := FormatStatus(domain.DefaultSnapshot())

	assert.Contains(t, out, "No roadmap loaded")
	assert.Contains(t, out, "Signed out")
	assert.Contains(t, out, "0/0 milestones")
	assert.NotContains(t, out, "PENDING")
}

func TestFormatHistory_NewestFirstWithLimit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	history := []domain.ProgressHistoryEntry{
		domain.NewHistoryEntry("a", 0, 50, now.Add(-3*time.Hour)),
		domain.NewHistoryEntry("b", 10, 40, now.Add(-2*time.Hour)),
		domain.NewHistoryEntry("gone", 40, 0, now.Add(-time.Hour)),
	}
	ms := []domain.Milestone{{ID: "a", Title: "Foundations"}, {ID: "b", Title: "Tooling"}}

	out := FormatHistory(history, ms, 2, now)

	assert.Contains(t, out, "gone")
	assert.Contains(t, out, "Tooling")
	assert.NotContains(t, out, "Foundations")
	assert.Contains(t, out, "1 older entries")
	assert.Less(t, strings.Index(out, "gone"), strings.Index(out, "Tooling"))
}

func TestFormatHistory_Empty(t *testing.T) {
	assert.Contains(t, FormatHistory(nil, nil, 10, time.Now()), "No progress recorded yet.")
}

func TestFormatHealth(t *testing.T) {
	out := FormatHealth(api.Health{Status: "healthy", Database: "unhealthy: timeout"})
	assert.Contains(t, out, "server: healthy")
	assert.Contains(t, out, "database: unhealthy: timeout")
}

func TestFormatAnalytics(t *testing.T) {
	out := FormatAnalytics(domain.ProgressAnalytics{
		AverageProgress: 46.7,
		Completed:       1,
		InProgress:      1,
		Locked:          1,
		Source:          domain.AnalyticsSourceLocal,
	})
	assert.Contains(t, out, " 47%")
	assert.Contains(t, out, "source: local")
}

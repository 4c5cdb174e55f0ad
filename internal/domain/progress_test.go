package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestPercentage(t *testing.T) {
	cases := []struct {
		part, total, want int
	}{
		{0, 0, 0},
		{1, 2, 50},
		{2, 2, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{0, 5, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Percentage(tc.part, tc.total), "%d/%d", tc.part, tc.total)
	}
}

func TestComputeStats(t *testing.T) {
	ms := []Milestone{
		{ID: "1", Status: MilestoneCompleted, Progress: 100},
		{ID: "2", Status: MilestoneInProgress, Progress: 60},
	}
	assert.Equal(t, ProgressStats{Completed: 1, Total: 2, Percentage: 50}, ComputeStats(ms))
	assert.Equal(t, ProgressStats{}, ComputeStats(nil))
}

func TestStatsPatch_Apply(t *testing.T) {
	seven := 7
	s := StatsPatch{Total: &seven}.Apply(ProgressStats{Completed: 1, Total: 2, Percentage: 50})
	assert.Equal(t, ProgressStats{Completed: 1, Total: 7, Percentage: 50}, s)
	assert.True(t, StatsPatch{}.IsEmpty())
}

func TestAppendHistory_FIFOCap(t *testing.T) {
	var h []ProgressHistoryEntry
	for i := 0; i < 7; i++ {
		h = AppendHistory(h, NewHistoryEntry(fmt.Sprint(i), i, i+1, testNow.Add(time.Duration(i)*time.Second)), 5)
	}
	require.Len(t, h, 5)
	for i, e := range h {
		assert.Equal(t, fmt.Sprint(i+2), e.MilestoneID)
	}
}

func TestAppendHistory_DoesNotMutateInput(t *testing.T) {
	base := make([]ProgressHistoryEntry, 2, 10)
	base[0].MilestoneID = "a"
	base[1].MilestoneID = "b"
	out := AppendHistory(base, ProgressHistoryEntry{MilestoneID: "c"}, 2)
	assert.Equal(t, "a", base[0].MilestoneID)
	assert.Equal(t, []string{"b", "c"}, []string{out[0].MilestoneID, out[1].MilestoneID})
}

func TestTrimHistory(t *testing.T) {
	h := []ProgressHistoryEntry{{MilestoneID: "1"}, {MilestoneID: "2"}, {MilestoneID: "3"}}
	assert.Len(t, TrimHistory(h, 0), 3)
	trimmed := TrimHistory(h, 2)
	assert.Equal(t, "2", trimmed[0].MilestoneID)
	assert.Equal(t, "3", trimmed[1].MilestoneID)
}

func TestFormatTimestamp(t *testing.T) {
	ts := FormatTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.FixedZone("X", 3600)))
	assert.Equal(t, "2025-01-02T02:04:05.006Z", ts)
}

func TestSnapshotClone_IsDeep(t *testing.T) {
	s := DefaultSnapshot()
	s.CurrentRoadmap = &Roadmap{ID: "r", Milestones: []Milestone{{ID: "1"}}}
	s.Milestones = []Milestone{{ID: "1", Progress: 10}}
	s.ProgressHistory = []ProgressHistoryEntry{{MilestoneID: "1"}}
	s.CurrentUser = &User{ID: "u", Name: "Ada"}
	s.Analytics = &ProgressAnalytics{Completed: 1}

	c := s.Clone()
	if diff := cmp.Diff(s, c); diff != "" {
		t.Fatalf("clone differs (-want +got):\n%s", diff)
	}

	c.CurrentRoadmap.Milestones[0].ID = "x"
	c.Milestones[0].Progress = 99
	c.ProgressHistory[0].MilestoneID = "x"
	c.CurrentUser.Name = "x"
	c.Analytics.Completed = 9

	assert.Equal(t, "1", s.CurrentRoadmap.Milestones[0].ID)
	assert.Equal(t, 10, s.Milestones[0].Progress)
	assert.Equal(t, "1", s.ProgressHistory[0].MilestoneID)
	assert.Equal(t, "Ada", s.CurrentUser.Name)
	assert.Equal(t, 1, s.Analytics.Completed)
}

func TestAnalyze(t *testing.T) {
	ms := []Milestone{
		{ID: "1", Status: MilestoneCompleted, Progress: 100},
		{ID: "2", Status: MilestoneInProgress, Progress: 50},
		{ID: "3", Status: MilestoneLocked, Progress: 0},
	}
	h := []ProgressHistoryEntry{{MilestoneID: "2", Timestamp: "2025-06-14T09:00:00.000Z"}}
	a := Analyze(ms, h, testNow)
	assert.Equal(t, 50.0, a.AverageProgress)
	assert.Equal(t, 1, a.Completed)
	assert.Equal(t, 1, a.InProgress)
	assert.Equal(t, 1, a.Locked)
	assert.Equal(t, 1, a.HistoryEvents)
	assert.Equal(t, "2025-06-14T09:00:00.000Z", a.LastActivity)
	assert.Equal(t, AnalyticsSourceLocal, a.Source)
}

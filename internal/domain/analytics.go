package domain

import "time"

// ProgressAnalytics summarizes progress activity. It is cached on the
// snapshot for the current session only.
type ProgressAnalytics struct {
	AverageProgress float64 `json:"averageProgress" yaml:"average_progress"`
	Completed       int     `json:"completed" yaml:"completed"`
	InProgress      int     `json:"inProgress" yaml:"in_progress"`
	Locked          int     `json:"locked" yaml:"locked"`
	HistoryEvents   int     `json:"historyEvents" yaml:"history_events"`
	LastActivity    string  `json:"lastActivity,omitempty" yaml:"last_activity,omitempty"`
	Source          string  `json:"source" yaml:"source"`
	FetchedAt       string  `json:"fetchedAt" yaml:"fetched_at"`
}

const (
	AnalyticsSourceLocal  = "local"
	AnalyticsSourceRemote = "remote"
)

// Clone returns a copy of a, or nil.
func (a *ProgressAnalytics) Clone() *ProgressAnalytics {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// Analyze computes analytics from the milestone list and history.
func Analyze(ms []Milestone, history []ProgressHistoryEntry, now time.Time) ProgressAnalytics {
	a := ProgressAnalytics{
		HistoryEvents: len(history),
		Source:        AnalyticsSourceLocal,
		FetchedAt:     FormatTimestamp(now),
	}
	sum := 0
	for i := range ms {
		sum += ms[i].Progress
		switch ms[i].Status {
		case MilestoneCompleted:
			a.Completed++
		case MilestoneInProgress:
			a.InProgress++
		default:
			a.Locked++
		}
	}
	if len(ms) > 0 {
		a.AverageProgress = float64(sum) / float64(len(ms))
	}
	if len(history) > 0 {
		a.LastActivity = history[len(history)-1].Timestamp
	}
	return a
}

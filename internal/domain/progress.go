package domain

import "time"

// DefaultHistoryLimit caps retained progress history entries.
const DefaultHistoryLimit = 100

// TimestampLayout is the ISO-8601 layout used for history timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type ProgressStats struct {
	Completed  int `json:"completed" yaml:"completed"`
	Total      int `json:"total" yaml:"total"`
	Percentage int `json:"percentage" yaml:"percentage"`
}

// StatsPatch carries a partial override of ProgressStats. Nil fields are
// left untouched by Apply.
type StatsPatch struct {
	Completed  *int
	Total      *int
	Percentage *int
}

// Apply merges the non-nil fields of p into s.
func (p StatsPatch) Apply(s ProgressStats) ProgressStats {
	if p.Completed != nil {
		s.Completed = *p.Completed
	}
	if p.Total != nil {
		s.Total = *p.Total
	}
	if p.Percentage != nil {
		s.Percentage = *p.Percentage
	}
	return s
}

// IsEmpty reports whether the patch changes nothing.
func (p StatsPatch) IsEmpty() bool {
	return p.Completed == nil && p.Total == nil && p.Percentage == nil
}

// ComputeStats derives progress stats from milestone statuses.
func ComputeStats(ms []Milestone) ProgressStats {
	completed := 0
	for i := range ms {
		if ms[i].IsCompleted() {
			completed++
		}
	}
	return ProgressStats{
		Completed:  completed,
		Total:      len(ms),
		Percentage: Percentage(completed, len(ms)),
	}
}

// Percentage returns round(part/total*100) with halves rounded up, or 0
// when total is not positive.
func Percentage(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	return (part*200 + total) / (2 * total)
}

type ProgressHistoryEntry struct {
	MilestoneID      string `json:"milestoneId" yaml:"milestone_id"`
	PreviousProgress int    `json:"previousProgress" yaml:"previous_progress"`
	NewProgress      int    `json:"newProgress" yaml:"new_progress"`
	Timestamp        string `json:"timestamp" yaml:"timestamp"`
}

// NewHistoryEntry builds an entry stamped with at in UTC.
func NewHistoryEntry(milestoneID string, previous, next int, at time.Time) ProgressHistoryEntry {
	return ProgressHistoryEntry{
		MilestoneID:      milestoneID,
		PreviousProgress: previous,
		NewProgress:      next,
		Timestamp:        FormatTimestamp(at),
	}
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// AppendHistory appends e and evicts the oldest entries so that at most
// limit remain. A non-positive limit disables the cap. The input slice is
// never modified in place.
func AppendHistory(history []ProgressHistoryEntry, e ProgressHistoryEntry, limit int) []ProgressHistoryEntry {
	n := len(history) + 1
	start := 0
	if limit > 0 && n > limit {
		start = n - limit
	}
	out := make([]ProgressHistoryEntry, 0, n-start)
	if start < len(history) {
		out = append(out, history[start:]...)
	}
	return append(out, e)
}

// TrimHistory keeps the newest limit entries.
func TrimHistory(history []ProgressHistoryEntry, limit int) []ProgressHistoryEntry {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	out := make([]ProgressHistoryEntry, limit)
	copy(out, history[len(history)-limit:])
	return out
}

package domain

const (
	MinProgress = 0
	MaxProgress = 100
)

type Milestone struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description" yaml:"description"`
	Status      MilestoneStatus `json:"status" yaml:"status"`
	Progress    int             `json:"progress" yaml:"progress"`
}

// ClampProgress bounds p to [0, 100].
func ClampProgress(p int) int {
	if p < MinProgress {
		return MinProgress
	}
	if p > MaxProgress {
		return MaxProgress
	}
	return p
}

// StatusForProgress derives a status from a progress value:
// 100 is completed, 0 is locked, anything else is in progress.
func StatusForProgress(p int) MilestoneStatus {
	switch {
	case p >= MaxProgress:
		return MilestoneCompleted
	case p <= MinProgress:
		return MilestoneLocked
	default:
		return MilestoneInProgress
	}
}

func (m *Milestone) IsCompleted() bool {
	return m.Status == MilestoneCompleted
}

// Normalize makes status and progress agree. Progress is clamped, a missing
// status is derived from progress, completed forces 100 and locked forces 0.
func (m *Milestone) Normalize() {
	m.Progress = ClampProgress(m.Progress)
	switch m.Status {
	case MilestoneCompleted:
		m.Progress = MaxProgress
	case MilestoneLocked:
		m.Progress = MinProgress
	case MilestoneInProgress:
	default:
		m.Status = StatusForProgress(m.Progress)
	}
}

// SetProgress clamps p, stores it, and re-derives the status from the
// stored value. A completed milestone set below 100 becomes in progress
// (or locked at 0); there is no sticky completion. Returns the previous
// progress.
func (m *Milestone) SetProgress(p int) (previous int) {
	previous = m.Progress
	m.Progress = ClampProgress(p)
	m.Status = StatusForProgress(m.Progress)
	return previous
}

// ToggleCompletion flips between completed and not completed. Completing
// sets progress to 100; un-completing sets in_progress with progress 0 and
// does not restore the prior value. Returns the previous progress.
func (m *Milestone) ToggleCompletion() (previous int) {
	previous = m.Progress
	if m.IsCompleted() {
		m.Status = MilestoneInProgress
		m.Progress = MinProgress
		return previous
	}
	m.Status = MilestoneCompleted
	m.Progress = MaxProgress
	return previous
}

// NormalizeMilestones returns a normalized copy of ms. A nil input yields
// an empty, non-nil slice.
func NormalizeMilestones(ms []Milestone) []Milestone {
	out := make([]Milestone, len(ms))
	copy(out, ms)
	for i := range out {
		out[i].Normalize()
	}
	return out
}

// IndexOfMilestone returns the position of id in ms, or -1.
func IndexOfMilestone(ms []Milestone, id string) int {
	for i := range ms {
		if ms[i].ID == id {
			return i
		}
	}
	return -1
}

// SplitByCompletion partitions milestones into completed and pending lists,
// preserving order.
func SplitByCompletion(ms []Milestone) (completed, pending []Milestone) {
	for _, m := range ms {
		if m.IsCompleted() {
			completed = append(completed, m)
		} else {
			pending = append(pending, m)
		}
	}
	return completed, pending
}

// UpsertMilestone appends m, or replaces the existing entry with the same
// id in place (last write wins). The input slice is not modified.
func UpsertMilestone(ms []Milestone, m Milestone) []Milestone {
	out := make([]Milestone, len(ms), len(ms)+1)
	copy(out, ms)
	if i := IndexOfMilestone(out, m.ID); i >= 0 {
		out[i] = m
		return out
	}
	return append(out, m)
}

// DedupeMilestones collapses repeated ids: each id keeps the position of
// its first occurrence and the value of its last.
func DedupeMilestones(ms []Milestone) []Milestone {
	out := make([]Milestone, 0, len(ms))
	for _, m := range ms {
		out = UpsertMilestone(out, m)
	}
	return out
}

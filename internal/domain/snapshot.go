package domain

// Snapshot is the complete application state. It is persisted as a single
// record and handed to listeners by value; Clone must be used whenever a
// snapshot crosses the store boundary.
type Snapshot struct {
	CurrentView     View                   `json:"currentView" yaml:"current_view"`
	CurrentRoadmap  *Roadmap               `json:"currentRoadmap" yaml:"current_roadmap"`
	Milestones      []Milestone            `json:"milestones" yaml:"milestones"`
	ProgressStats   ProgressStats          `json:"progressStats" yaml:"progress_stats"`
	ProgressHistory []ProgressHistoryEntry `json:"progressHistory" yaml:"progress_history"`
	IsAuthenticated bool                   `json:"isAuthenticated" yaml:"is_authenticated"`
	CurrentUser     *User                  `json:"currentUser" yaml:"current_user"`
	Theme           Theme                  `json:"theme" yaml:"theme"`
	Analytics       *ProgressAnalytics     `json:"analytics,omitempty" yaml:"analytics,omitempty"`
}

// DefaultSnapshot is the state used when nothing has been persisted.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		CurrentView:     ViewDashboard,
		Milestones:      []Milestone{},
		ProgressStats:   ProgressStats{},
		ProgressHistory: []ProgressHistoryEntry{},
		Theme:           ThemeLight,
	}
}

// Clone returns a deep copy sharing no mutable memory with s.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.CurrentRoadmap = s.CurrentRoadmap.Clone()
	c.Milestones = cloneMilestones(s.Milestones)
	if s.ProgressHistory != nil {
		c.ProgressHistory = make([]ProgressHistoryEntry, len(s.ProgressHistory))
		copy(c.ProgressHistory, s.ProgressHistory)
	}
	c.CurrentUser = s.CurrentUser.Clone()
	c.Analytics = s.Analytics.Clone()
	return c
}

// Milestone returns a copy of the milestone with the given id.
func (s Snapshot) Milestone(id string) (Milestone, bool) {
	if i := IndexOfMilestone(s.Milestones, id); i >= 0 {
		return s.Milestones[i], true
	}
	return Milestone{}, false
}

// StatsConsistent reports whether ProgressStats matches the milestones.
func (s Snapshot) StatsConsistent() bool {
	return s.ProgressStats == ComputeStats(s.Milestones)
}

package testutil

import (
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/google/uuid"
)

// Milestone options
type MilestoneOption func(*domain.Milestone)

func WithStatus(s domain.MilestoneStatus) MilestoneOption {
	return func(m *domain.Milestone) {
		m.Status = s
	}
}

func WithProgress(p int) MilestoneOption {
	return func(m *domain.Milestone) {
		m.Progress = p
	}
}

func WithDescription(d string) MilestoneOption {
	return func(m *domain.Milestone) {
		m.Description = d
	}
}

// NewTestMilestone returns a locked milestone with zero progress. An empty
// id gets a random UUID.
func NewTestMilestone(id string, opts ...MilestoneOption) domain.Milestone {
	if id == "" {
		id = uuid.New().String()
	}
	m := domain.Milestone{
		ID:     id,
		Title:  "Milestone " + id,
		Status: domain.MilestoneLocked,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// CompletedMilestone is shorthand for a completed milestone at 100%.
func CompletedMilestone(id string) domain.Milestone {
	return NewTestMilestone(id, WithStatus(domain.MilestoneCompleted), WithProgress(100))
}

// InProgressMilestone is shorthand for an in-progress milestone at p%.
func InProgressMilestone(id string, p int) domain.Milestone {
	return NewTestMilestone(id, WithStatus(domain.MilestoneInProgress), WithProgress(p))
}

func NewTestRoadmap(id string, milestones ...domain.Milestone) *domain.Roadmap {
	return &domain.Roadmap{
		ID:          id,
		Title:       "Roadmap " + id,
		Description: "test roadmap",
		Milestones:  milestones,
	}
}

func NewTestUser(name string, role domain.Role) domain.User {
	return domain.User{
		ID:    uuid.New().String(),
		Name:  name,
		Email: name + "@example.com",
		Role:  role,
	}
}

// Snapshot options
type SnapshotOption func(*domain.Snapshot)

func WithRoadmap(r *domain.Roadmap) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.CurrentRoadmap = r
		if r != nil {
			s.Milestones = append([]domain.Milestone{}, r.Milestones...)
			s.ProgressStats = domain.ComputeStats(s.Milestones)
		}
	}
}

func WithUser(u domain.User) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.IsAuthenticated = true
		s.CurrentUser = &u
	}
}

func WithHistory(entries ...domain.ProgressHistoryEntry) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.ProgressHistory = append(s.ProgressHistory, entries...)
	}
}

func WithTheme(t domain.Theme) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.Theme = t
	}
}

// NewTestSnapshot starts from the default snapshot and applies opts.
func NewTestSnapshot(opts ...SnapshotOption) domain.Snapshot {
	s := domain.DefaultSnapshot()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

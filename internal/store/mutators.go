package store

import (
	"context"

	"github.com/alexanderramin/waypoint/internal/domain"
)

// SetCurrentRoadmap replaces the roadmap and, with it, the milestone list.
// A nil roadmap clears both. History is untouched.
func (m *Manager) SetCurrentRoadmap(r *domain.Roadmap) {
	rm := r.Clone()
	m.run(mutation{name: "set_current_roadmap", persist: true, apply: func(s *domain.Snapshot) bool {
		if rm == nil {
			s.CurrentRoadmap = nil
			s.Milestones = []domain.Milestone{}
		} else {
			s.Milestones = domain.NormalizeMilestones(domain.DedupeMilestones(rm.Milestones))
			s.CurrentRoadmap = rm
		}
		recompute(s)
		return true
	}})
}

// SetMilestones replaces the milestone list wholesale.
func (m *Manager) SetMilestones(ms []domain.Milestone) {
	incoming := domain.NormalizeMilestones(domain.DedupeMilestones(ms))
	m.run(mutation{name: "set_milestones", persist: true, apply: func(s *domain.Snapshot) bool {
		s.Milestones = incoming
		recompute(s)
		return true
	}})
}

// UpdateMilestoneProgress sets the clamped progress of milestone id and
// records the change in history. Unknown ids are ignored.
func (m *Manager) UpdateMilestoneProgress(id string, progress int) {
	m.run(mutation{name: "update_milestone_progress", persist: true, apply: func(s *domain.Snapshot) bool {
		i := domain.IndexOfMilestone(s.Milestones, id)
		if i < 0 {
			return false
		}
		prev := s.Milestones[i].SetProgress(progress)
		m.appendHistory(s, id, prev, s.Milestones[i].Progress)
		recompute(s)
		return true
	}})
}

// ToggleMilestoneCompletion flips milestone id between completed and in
// progress. Unknown ids are ignored.
func (m *Manager) ToggleMilestoneCompletion(id string) {
	m.run(mutation{name: "toggle_milestone_completion", persist: true, apply: func(s *domain.Snapshot) bool {
		i := domain.IndexOfMilestone(s.Milestones, id)
		if i < 0 {
			return false
		}
		prev := s.Milestones[i].ToggleCompletion()
		m.appendHistory(s, id, prev, s.Milestones[i].Progress)
		recompute(s)
		return true
	}})
}

// UpdateProgressStats merges an explicit override into the stats without
// recomputing them. Counts are floored at zero and the percentage clamped.
func (m *Manager) UpdateProgressStats(patch domain.StatsPatch) {
	m.run(mutation{name: "update_progress_stats", persist: true, apply: func(s *domain.Snapshot) bool {
		stats := patch.Apply(s.ProgressStats)
		stats.Completed = max(stats.Completed, 0)
		stats.Total = max(stats.Total, 0)
		stats.Percentage = domain.ClampProgress(stats.Percentage)
		s.ProgressStats = stats
		return true
	}})
}

// AddMilestone appends ms, replacing in place any milestone with the same
// id.
func (m *Manager) AddMilestone(ms domain.Milestone) {
	ms.Normalize()
	m.run(mutation{name: "add_milestone", persist: true, apply: func(s *domain.Snapshot) bool {
		s.Milestones = domain.UpsertMilestone(s.Milestones, ms)
		recompute(s)
		return true
	}})
}

func (m *Manager) Login(u domain.User) {
	if u.Role == "" {
		u.Role = domain.RoleMember
	}
	m.run(mutation{name: "login", persist: true, apply: func(s *domain.Snapshot) bool {
		s.IsAuthenticated = true
		s.CurrentUser = u.Clone()
		return true
	}})
}

// Logout ends the session and drops cached analytics. Progress history is
// kept.
func (m *Manager) Logout() {
	m.run(mutation{name: "logout", persist: true, apply: func(s *domain.Snapshot) bool {
		s.IsAuthenticated = false
		s.CurrentUser = nil
		s.Analytics = nil
		return true
	}})
}

func (m *Manager) ToggleTheme() {
	m.run(mutation{name: "toggle_theme", persist: true, apply: func(s *domain.Snapshot) bool {
		s.Theme = s.Theme.Toggled()
		return true
	}})
}

// SetCurrentView records the active view. An empty view means dashboard.
func (m *Manager) SetCurrentView(v domain.View) {
	if v == "" {
		v = domain.ViewDashboard
	}
	m.run(mutation{name: "set_current_view", persist: true, apply: func(s *domain.Snapshot) bool {
		s.CurrentView = v
		return true
	}})
}

// SetAnalytics caches analytics for the current session. Nil clears the
// cache.
func (m *Manager) SetAnalytics(a *domain.ProgressAnalytics) {
	cached := a.Clone()
	m.run(mutation{name: "set_analytics", persist: true, apply: func(s *domain.Snapshot) bool {
		s.Analytics = cached
		return true
	}})
}

// ClearRoadmap drops the roadmap and its milestones. History is kept.
func (m *Manager) ClearRoadmap() {
	m.run(mutation{name: "clear_roadmap", persist: true, apply: func(s *domain.Snapshot) bool {
		s.CurrentRoadmap = nil
		s.Milestones = []domain.Milestone{}
		recompute(s)
		return true
	}})
}

// Reset returns to the default snapshot and persists it.
func (m *Manager) Reset() {
	m.run(mutation{name: "reset", persist: true, apply: func(s *domain.Snapshot) bool {
		*s = domain.DefaultSnapshot()
		return true
	}})
}

// Reload replaces the in-memory snapshot with what the backend holds and
// notifies without writing back. Returns false when the backend had
// nothing usable, in which case state is unchanged.
func (m *Manager) Reload(ctx context.Context) bool {
	loaded := m.backend.Load(ctx)
	if loaded == nil {
		m.logger.Debug("store_reload_empty")
		m.recorder.IncMutation("reload", false)
		return false
	}
	fresh := m.ingest(*loaded)
	m.run(mutation{name: "reload", apply: func(s *domain.Snapshot) bool {
		*s = fresh
		return true
	}})
	return true
}

func (m *Manager) appendHistory(s *domain.Snapshot, id string, prev, next int) {
	e := domain.NewHistoryEntry(id, prev, next, m.clock())
	s.ProgressHistory = domain.AppendHistory(s.ProgressHistory, e, m.historyLimit)
}

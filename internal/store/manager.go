// Package store holds the single in-memory application snapshot, applies
// typed mutations to it, persists every effective change through a Backend
// and then notifies subscribers with copies.
package store

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/metrics"
)

// Backend is where snapshots are kept between runs. Load returns nil when
// nothing usable is stored. Save never reports failure to the caller.
type Backend interface {
	Load(ctx context.Context) *domain.Snapshot
	Save(ctx context.Context, snap domain.Snapshot)
}

// Listener receives the snapshot produced by each effective mutation.
type Listener func(domain.Snapshot)

type subscription struct {
	id uint64
	fn Listener
}

// mutation edits a working copy of the snapshot and reports whether
// anything should be persisted and announced.
type mutation struct {
	name    string
	persist bool
	apply   func(s *domain.Snapshot) bool
}

type Manager struct {
	backend      Backend
	logger       *slog.Logger
	recorder     metrics.Recorder
	clock        func() time.Time
	historyLimit int

	mu        sync.Mutex
	state     domain.Snapshot
	listeners []subscription
	nextID    uint64
	queue     []mutation
	draining  bool
}

// New builds a Manager seeded from backend. A nil load yields the default
// snapshot.
func New(backend Backend, opts ...Option) *Manager {
	m := &Manager{
		backend:      backend,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder:     metrics.NoopRecorder{},
		clock:        time.Now,
		historyLimit: domain.DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.state = domain.DefaultSnapshot()
	if loaded := backend.Load(context.Background()); loaded != nil {
		m.state = m.ingest(*loaded)
		m.logger.Debug("store_restored",
			"milestones", len(m.state.Milestones),
			"history", len(m.state.ProgressHistory))
	}
	m.recorder.SetHistoryLength(len(m.state.ProgressHistory))
	return m
}

// State returns a deep copy of the current snapshot.
func (m *Manager) State() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

func (m *Manager) HistoryLimit() int {
	return m.historyLimit
}

// Subscribe registers fn. Listeners run synchronously in registration order
// after each persisted mutation. The returned func removes this
// registration only and may be called any number of times.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, subscription{id: id, fn: fn})
	count := len(m.listeners)
	m.mu.Unlock()
	m.recorder.SetListeners(count)

	var once sync.Once
	return func() {
		once.Do(func() { m.unsubscribe(id) })
	}
}

func (m *Manager) unsubscribe(id uint64) {
	m.mu.Lock()
	kept := make([]subscription, 0, len(m.listeners))
	for _, s := range m.listeners {
		if s.id != id {
			kept = append(kept, s)
		}
	}
	m.listeners = kept
	count := len(kept)
	m.mu.Unlock()
	m.recorder.SetListeners(count)
}

// run enqueues mu and, unless a drain is already in progress, drains the
// queue: apply, persist, notify, one mutation at a time.
func (m *Manager) run(mu mutation) {
	m.mu.Lock()
	m.queue = append(m.queue, mu)
	if m.draining {
		m.mu.Unlock()
		return
	}
	m.draining = true

	for len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]

		working := m.state.Clone()
		applied := next.apply(&working)
		m.recorder.IncMutation(next.name, applied)
		if !applied {
			m.logger.Debug("store_mutation_skipped", "mutation", next.name)
			continue
		}
		m.state = working
		snap := working.Clone()
		listeners := append([]subscription(nil), m.listeners...)
		m.mu.Unlock()

		m.recorder.SetHistoryLength(len(snap.ProgressHistory))
		if next.persist {
			m.backend.Save(context.Background(), snap)
		}
		m.notify(next.name, listeners, snap)

		m.mu.Lock()
	}

	m.draining = false
	m.mu.Unlock()
}

func (m *Manager) notify(name string, listeners []subscription, snap domain.Snapshot) {
	for _, s := range listeners {
		m.invokeListenerSafe(name, s.fn, snap.Clone())
	}
}

func (m *Manager) invokeListenerSafe(name string, fn Listener, snap domain.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("store_listener_panic", "mutation", name, "panic", r)
		}
	}()
	fn(snap)
}

// ingest normalizes a snapshot read from the backend. Persisted stats are
// kept as stored since they may carry an explicit override.
func (m *Manager) ingest(s domain.Snapshot) domain.Snapshot {
	s = s.Clone()
	if s.CurrentView == "" {
		s.CurrentView = domain.ViewDashboard
	}
	if s.Theme != domain.ThemeDark {
		s.Theme = domain.ThemeLight
	}
	s.Milestones = domain.NormalizeMilestones(domain.DedupeMilestones(s.Milestones))
	if s.ProgressHistory == nil {
		s.ProgressHistory = []domain.ProgressHistoryEntry{}
	}
	s.ProgressHistory = domain.TrimHistory(s.ProgressHistory, m.historyLimit)
	if s.CurrentUser == nil {
		s.IsAuthenticated = false
	}
	mirrorRoadmap(&s)
	return s
}

// recompute derives stats from the canonical milestone list and mirrors it
// into the current roadmap.
func recompute(s *domain.Snapshot) {
	s.ProgressStats = domain.ComputeStats(s.Milestones)
	mirrorRoadmap(s)
}

func mirrorRoadmap(s *domain.Snapshot) {
	if s.CurrentRoadmap == nil {
		return
	}
	ms := make([]domain.Milestone, len(s.Milestones))
	copy(ms, s.Milestones)
	s.CurrentRoadmap.Milestones = ms
}

package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/metrics"
)

// spyBackend records saves and an ordered event log shared with listeners.
type spyBackend struct {
	mu     sync.Mutex
	load   *domain.Snapshot
	saves  []domain.Snapshot
	events []string
}

func (b *spyBackend) Load(context.Context) *domain.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.load == nil {
		return nil
	}
	c := b.load.Clone()
	return &c
}

func (b *spyBackend) Save(_ context.Context, snap domain.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saves = append(b.saves, snap)
	b.events = append(b.events, "save")
}

func (b *spyBackend) record(event string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *spyBackend) saveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.saves)
}

func (b *spyBackend) lastSave() domain.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves[len(b.saves)-1]
}

func (b *spyBackend) eventLog() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestManager(t *testing.T, opts ...Option) (*Manager, *spyBackend) {
	t.Helper()
	backend := &spyBackend{}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(backend, opts...), backend
}

// collect subscribes a listener that appends every snapshot it receives.
func collect(m *Manager) (*[]domain.Snapshot, func()) {
	var got []domain.Snapshot
	unsub := m.Subscribe(func(s domain.Snapshot) { got = append(got, s) })
	return &got, unsub
}

// countingRecorder is a metrics.Recorder that keeps plain counts.
type countingRecorder struct {
	metrics.NoopRecorder
	mu        sync.Mutex
	mutations map[string]int
	persists  []metrics.ResultLabel
	listeners int
	history   int
}

func (r *countingRecorder) IncMutation(name string, applied bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mutations == nil {
		r.mutations = map[string]int{}
	}
	key := name + "/false"
	if applied {
		key = name + "/true"
	}
	r.mutations[key]++
}

func (r *countingRecorder) IncPersist(res metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persists = append(r.persists, res)
}

func (r *countingRecorder) SetListeners(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = n
}

func (r *countingRecorder) SetHistoryLength(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = n
}

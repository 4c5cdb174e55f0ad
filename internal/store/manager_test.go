package store

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/metrics"
	"github.com/alexanderramin/waypoint/internal/storage"
	"github.com/alexanderramin/waypoint/internal/testutil"
	"github.com/google/go-cmp/cmp"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptyBackendYieldsDefaults(t *testing.T) {
	m, _ := newTestManager(t)

	st := m.State()
	assert.Equal(t, domain.DefaultSnapshot(), st)
	assert.False(t, st.IsAuthenticated)
	assert.NotNil(t, st.Milestones)
	assert.NotNil(t, st.ProgressHistory)
}

func TestNew_NormalizesLoadedSnapshotButKeepsStats(t *testing.T) {
	persisted := domain.Snapshot{
		CurrentRoadmap: &domain.Roadmap{ID: "r1", Title: "Go"},
		Milestones: []domain.Milestone{
			{ID: "a", Status: domain.MilestoneCompleted, Progress: 40},
			{ID: "b", Progress: 250},
		},
		ProgressStats:   domain.ProgressStats{Completed: 7, Total: 9, Percentage: 78},
		IsAuthenticated: true,
	}
	for i := 0; i < 5; i++ {
		persisted.ProgressHistory = append(persisted.ProgressHistory, domain.ProgressHistoryEntry{MilestoneID: "a", NewProgress: i})
	}

	m := New(&spyBackend{load: &persisted}, WithHistoryLimit(3))
	st := m.State()

	assert.Equal(t, domain.ViewDashboard, st.CurrentView)
	assert.Equal(t, domain.ThemeLight, st.Theme)
	assert.Equal(t, 100, st.Milestones[0].Progress)
	assert.Equal(t, domain.MilestoneCompleted, st.Milestones[1].Status)
	assert.Equal(t, persisted.ProgressStats, st.ProgressStats, "persisted stats are kept as stored")
	assert.Equal(t, st.Milestones, st.CurrentRoadmap.Milestones)
	require.Len(t, st.ProgressHistory, 3)
	assert.Equal(t, 2, st.ProgressHistory[0].NewProgress)
	assert.False(t, st.IsAuthenticated, "authenticated without a user is not a session")
}

func TestState_ReturnsIndependentCopy(t *testing.T) {
	m, _ := newTestManager(t)
	m.SetCurrentRoadmap(testutil.NewTestRoadmap("r1", testutil.InProgressMilestone("a", 10)))

	st := m.State()
	st.Milestones[0].Progress = 99
	st.CurrentRoadmap.Milestones[0].Title = "hijacked"

	fresh := m.State()
	assert.Equal(t, 10, fresh.Milestones[0].Progress)
	assert.Equal(t, "Milestone a", fresh.CurrentRoadmap.Milestones[0].Title)
}

func TestPersistBeforeNotify(t *testing.T) {
	m, backend := newTestManager(t)
	m.Subscribe(func(domain.Snapshot) { backend.record("notify") })

	m.ToggleTheme()
	m.SetCurrentView(domain.ViewProfile)

	assert.Equal(t, []string{"save", "notify", "save", "notify"}, backend.eventLog())
}

func TestPersistedSnapshotMatchesNotified(t *testing.T) {
	m, backend := newTestManager(t)
	got, _ := collect(m)

	m.SetMilestones([]domain.Milestone{testutil.InProgressMilestone("a", 10)})
	m.UpdateMilestoneProgress("a", 70)

	require.Len(t, *got, 2)
	if diff := cmp.Diff(backend.lastSave(), (*got)[1]); diff != "" {
		t.Errorf("notified snapshot differs from persisted (-saved +notified):\n%s", diff)
	}
	assert.Equal(t, m.State(), (*got)[1])
}

func TestFailedSaveStillNotifies(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	rec := &countingRecorder{}
	slot := &testutil.FailingSlot{PutErr: assert.AnError}
	backend := storage.NewSnapshotStore(slot, storage.WithLogger(logger), storage.WithRecorder(rec))

	m := New(backend, WithRecorder(rec))
	got, _ := collect(m)

	m.ToggleTheme()

	require.Len(t, *got, 1, "listener runs even though save failed")
	assert.Equal(t, domain.ThemeDark, m.State().Theme, "in-memory mutation kept")
	assert.Contains(t, logs.String(), "snapshot_save_failed")
	assert.Equal(t, 1, slot.PutCalls())
	assert.Equal(t, []metrics.ResultLabel{metrics.ResultFailure}, rec.persists)
}

func TestRoundTripThroughSnapshotStore(t *testing.T) {
	slot := storage.NewMemorySlot()
	first := New(storage.NewSnapshotStore(slot), WithClock(func() time.Time { return fixedNow }))
	first.SetCurrentRoadmap(testutil.NewTestRoadmap("r1", testutil.InProgressMilestone("a", 10), testutil.NewTestMilestone("b")))
	first.UpdateMilestoneProgress("a", 60)
	first.Login(testutil.NewTestUser("ada", domain.RoleAdmin))
	first.ToggleTheme()

	second := New(storage.NewSnapshotStore(slot))

	if diff := cmp.Diff(first.State(), second.State()); diff != "" {
		t.Errorf("restored state mismatch (-want +got):\n%s", diff)
	}
}

func TestReload(t *testing.T) {
	backend := &spyBackend{}
	m := New(backend)
	got, _ := collect(m)

	assert.False(t, m.Reload(context.Background()), "nothing stored")
	assert.Empty(t, *got)

	backend.load = &domain.Snapshot{Theme: domain.ThemeDark, Milestones: []domain.Milestone{{ID: "x", Progress: 100}}}
	assert.True(t, m.Reload(context.Background()))

	require.Len(t, *got, 1)
	st := m.State()
	assert.Equal(t, domain.ThemeDark, st.Theme)
	assert.Equal(t, domain.MilestoneCompleted, st.Milestones[0].Status)
	assert.Equal(t, 0, backend.saveCount(), "reload does not write back")
}

func TestMetricsRecorded(t *testing.T) {
	rec := &countingRecorder{}
	m, _ := newTestManager(t, WithRecorder(rec))
	unsub := m.Subscribe(func(domain.Snapshot) {})

	m.SetMilestones([]domain.Milestone{testutil.InProgressMilestone("a", 10)})
	m.UpdateMilestoneProgress("a", 20)
	m.UpdateMilestoneProgress("nope", 20)

	assert.Equal(t, 1, rec.mutations["update_milestone_progress/true"])
	assert.Equal(t, 1, rec.mutations["update_milestone_progress/false"])
	assert.Equal(t, 1, rec.listeners)
	assert.Equal(t, 1, rec.history)

	unsub()
	unsub()
	assert.Equal(t, 0, rec.listeners)
}

func TestPrometheusRecorderWiring(t *testing.T) {
	reg := prom.NewRegistry()
	m, _ := newTestManager(t, WithRecorder(metrics.NewPrometheusRecorder(reg)))
	m.ToggleTheme()

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "waypoint_store_mutations_total")
	assert.Contains(t, names, "waypoint_store_history_entries")
}

func TestConcurrentMutators(t *testing.T) {
	m, backend := newTestManager(t, WithHistoryLimit(0))
	m.SetMilestones([]domain.Milestone{testutil.InProgressMilestone("a", 1)})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			m.UpdateMilestoneProgress("a", p)
		}(i + 2)
	}
	wg.Wait()

	st := m.State()
	assert.Len(t, st.ProgressHistory, 20)
	assert.Equal(t, 21, backend.saveCount())
	assert.True(t, st.StatsConsistent())
}

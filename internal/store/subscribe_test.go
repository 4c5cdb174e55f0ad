package store

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_RegistrationOrder(t *testing.T) {
	m, _ := newTestManager(t)
	var order []string
	m.Subscribe(func(domain.Snapshot) { order = append(order, "first") })
	m.Subscribe(func(domain.Snapshot) { order = append(order, "second") })
	m.Subscribe(func(domain.Snapshot) { order = append(order, "third") })

	m.ToggleTheme()

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestSubscribe_DuplicateRegistrationsAreIndependent(t *testing.T) {
	m, _ := newTestManager(t)
	calls := 0
	fn := func(domain.Snapshot) { calls++ }
	unsubA := m.Subscribe(fn)
	m.Subscribe(fn)

	m.ToggleTheme()
	assert.Equal(t, 2, calls)

	unsubA()
	unsubA()
	m.ToggleTheme()
	assert.Equal(t, 3, calls, "only the first registration was removed")
}

func TestSubscribe_NilListenerIgnored(t *testing.T) {
	m, _ := newTestManager(t)
	unsub := m.Subscribe(nil)
	assert.NotPanics(t, func() {
		m.ToggleTheme()
		unsub()
	})
}

func TestSubscribe_ListenerReceivesCopy(t *testing.T) {
	m, _ := newTestManager(t)
	m.Subscribe(func(s domain.Snapshot) {
		if len(s.Milestones) > 0 {
			s.Milestones[0].Progress = 77
		}
	})
	var seen int
	m.Subscribe(func(s domain.Snapshot) {
		if len(s.Milestones) > 0 {
			seen = s.Milestones[0].Progress
		}
	})

	m.SetMilestones([]domain.Milestone{testutil.InProgressMilestone("a", 10)})

	assert.Equal(t, 10, seen, "earlier listener cannot affect later ones")
	ms, _ := m.State().Milestone("a")
	assert.Equal(t, 10, ms.Progress)
}

func TestSubscribe_PanickingListenerIsContained(t *testing.T) {
	var logs bytes.Buffer
	m, backend := newTestManager(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	after := 0
	m.Subscribe(func(domain.Snapshot) { panic("boom") })
	m.Subscribe(func(domain.Snapshot) { after++ })

	assert.NotPanics(t, m.ToggleTheme)
	assert.Equal(t, 1, after)
	assert.Contains(t, logs.String(), "store_listener_panic")

	m.ToggleTheme()
	assert.Equal(t, 2, after, "store keeps working after a listener panic")
	assert.Equal(t, 2, backend.saveCount())
}

func TestReentrantMutationsAreQueued(t *testing.T) {
	m, backend := newTestManager(t)
	m.SetMilestones([]domain.Milestone{testutil.InProgressMilestone("a", 10), testutil.NewTestMilestone("b")})

	var seen []int
	unlocked := false
	m.Subscribe(func(s domain.Snapshot) {
		a, _ := s.Milestone("a")
		seen = append(seen, a.Progress)
		if a.Progress == 100 && !unlocked {
			unlocked = true
			// Completing "a" unlocks "b".
			m.UpdateMilestoneProgress("b", 5)
			b, _ := m.State().Milestone("b")
			backend.record("listener-saw-b=" + string(b.Status))
		}
	})
	var secondSaw []domain.MilestoneStatus
	m.Subscribe(func(s domain.Snapshot) {
		b, _ := s.Milestone("b")
		secondSaw = append(secondSaw, b.Status)
	})

	m.ToggleMilestoneCompletion("a")

	st := m.State()
	b, _ := st.Milestone("b")
	assert.Equal(t, domain.MilestoneInProgress, b.Status, "queued mutation applied before outer call returned")
	assert.Equal(t, []int{100, 100}, seen)
	assert.Equal(t, []domain.MilestoneStatus{domain.MilestoneLocked, domain.MilestoneInProgress}, secondSaw,
		"every listener sees the first mutation before the reentrant one")

	assert.Equal(t, []string{"save", "save", "listener-saw-b=locked", "save"}, backend.eventLog(),
		"reentrant call is deferred, not applied inline")

	require.Len(t, st.ProgressHistory, 2)
	assert.Equal(t, "a", st.ProgressHistory[0].MilestoneID)
	assert.Equal(t, "b", st.ProgressHistory[1].MilestoneID)
}

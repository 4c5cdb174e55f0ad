package cli

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/metrics"
	"github.com/alexanderramin/waypoint/internal/storage"
	"github.com/alexanderramin/waypoint/internal/store"
	"github.com/alexanderramin/waypoint/internal/teatest"
	"github.com/alexanderramin/waypoint/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardDriver(t *testing.T, app *App) (*teatest.Driver, *dashboardModel) {
	t.Helper()
	m := newDashboardModel(app.Store)
	t.Cleanup(m.close)
	d := teatest.New(t, m, teatest.WithSize(100, 40))
	return d, m
}

func TestDashboard_RendersWithoutRoadmap(t *testing.T) {
	app, _ := testApp(t)
	d, _ := newDashboardDriver(t, app)

	view := d.View()

	assert.Contains(t, view, "No roadmap loaded")
	assert.Contains(t, view, "No milestones.")
	assert.Contains(t, view, "0/0")
}

func TestDashboard_ShowsRoadmap(t *testing.T) {
	app, _ := testApp(t)
	seedRoadmap(t, app)
	d, _ := newDashboardDriver(t, app)

	view := d.View()

	assert.Contains(t, view, "Backend Path")
	assert.Contains(t, view, "HTTP Basics")
	assert.Contains(t, view, "Databases")
	assert.Contains(t, view, "1/3")
}

func TestDashboard_KeysDriveMutators(t *testing.T) {
	app, _ := testApp(t)
	seedRoadmap(t, app)
	d, m := newDashboardDriver(t, app)

	d.Press(tea.KeyDown)
	d.PressKey('+')
	db, _ := app.Store.State().Milestone("db")
	assert.Equal(t, 50, db.Progress)

	d.PressKey('-')
	d.PressKey('-')
	db, _ = app.Store.State().Milestone("db")
	assert.Equal(t, 30, db.Progress)

	d.Press(tea.KeySpace)
	db, _ = app.Store.State().Milestone("db")
	assert.Equal(t, domain.MilestoneCompleted, db.Status)
	assert.Equal(t, 2, m.snap.ProgressStats.Completed)
	assert.Contains(t, d.View(), "2/3")

	d.PressKey('t')
	assert.Equal(t, domain.ThemeDark, app.Store.State().Theme)

	assert.Len(t, app.Store.State().ProgressHistory, 4)
}

func TestDashboard_CursorStaysInBounds(t *testing.T) {
	app, _ := testApp(t)
	seedRoadmap(t, app)
	d, m := newDashboardDriver(t, app)

	d.Press(tea.KeyUp)
	assert.Equal(t, 0, m.cursor)
	for range 10 {
		d.PressKey('j')
	}
	assert.Equal(t, 2, m.cursor)

	app.Roadmaps.Clear(context.Background())
	d.PressKey('k')
	assert.Equal(t, 0, m.cursor)
	d.Press(tea.KeySpace)
	assert.Empty(t, app.Store.State().Milestones)
}

func TestDashboard_ReceivesExternalChanges(t *testing.T) {
	app, _ := testApp(t)
	seedRoadmap(t, app)
	m := newDashboardModel(app.Store)
	t.Cleanup(m.close)

	app.Store.UpdateMilestoneProgress("deploy", 70)
	app.Store.UpdateMilestoneProgress("deploy", 80)

	msg := m.Init()()
	snap, ok := msg.(snapshotMsg)
	require.True(t, ok)
	dep, _ := domain.Snapshot(snap).Milestone("deploy")
	assert.Equal(t, 80, dep.Progress, "only the latest snapshot is delivered")

	_, cmd := m.Update(msg)
	assert.NotNil(t, cmd, "model keeps listening")
	assert.Contains(t, m.View(), "last change: deploy 70% → 80%")
}

func TestDashboard_QuitUnsubscribes(t *testing.T) {
	app, _ := testApp(t)
	d, m := newDashboardDriver(t, app)

	d.PressKey('q')

	assert.True(t, d.Quitting)
	assert.Empty(t, d.View())
	assert.Nil(t, m.feed.next()(), "closed feed yields no messages")

	recorder := &listenerCount{}
	st := store.New(storage.NewSnapshotStore(storage.NewMemorySlot()), store.WithRecorder(recorder))
	m2 := newDashboardModel(st)
	assert.Equal(t, 1, recorder.n)
	m2.close()
	assert.Equal(t, 0, recorder.n)
}

func TestDashboard_HelpToggle(t *testing.T) {
	app, _ := testApp(t)
	d, _ := newDashboardDriver(t, app)

	assert.NotContains(t, d.View(), "reload")
	d.PressKey('?')
	assert.Contains(t, d.View(), "reload")
}

func TestDashboardCmd_RequiresTerminal(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "dashboard")
	assert.ErrorContains(t, err, "interactive terminal")
}

func TestRunDashboard_ReloadsOnFileWrite(t *testing.T) {
	dir := t.TempDir()
	slot, err := storage.NewFileSlot(dir)
	require.NoError(t, err)
	backend := storage.NewSnapshotStore(slot)
	st := store.New(backend)
	path := slot.Path(backend.Key())

	app := &App{Store: st, WatchPaths: []string{path}}

	// Another process writes a snapshot while the dashboard runs.
	other := testutil.NewTestSnapshot(testutil.WithTheme(domain.ThemeDark))
	reloaded := make(chan struct{})
	var once sync.Once
	unsub := st.Subscribe(func(s domain.Snapshot) {
		if s.Theme == domain.ThemeDark {
			once.Do(func() { close(reloaded) })
		}
	})
	defer unsub()

	input, inputW, err := os.Pipe()
	require.NoError(t, err)
	defer input.Close()

	done := make(chan error, 1)
	go func() {
		done <- runDashboard(context.Background(), app,
			tea.WithInput(input), tea.WithOutput(&bytes.Buffer{}), tea.WithoutSignalHandler())
	}()

	time.Sleep(100 * time.Millisecond)
	writer := storage.NewSnapshotStore(mustFileSlot(t, dir))
	writer.Save(context.Background(), other)

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("store was not reloaded after an external write")
	}

	_, err = inputW.Write([]byte("q"))
	require.NoError(t, err)
	require.NoError(t, inputW.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("dashboard did not exit")
	}
	assert.Equal(t, domain.ThemeDark, st.State().Theme)
}

func mustFileSlot(t *testing.T, dir string) *storage.FileSlot {
	t.Helper()
	slot, err := storage.NewFileSlot(dir)
	require.NoError(t, err)
	return slot
}

// listenerCount records the listener gauge.
type listenerCount struct {
	metrics.NoopRecorder
	n int
}

func (l *listenerCount) SetListeners(n int) { l.n = n }

package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/waypoint/internal/cli/formatter"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/storage"
	"github.com/alexanderramin/waypoint/internal/store"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const progressStep = 10

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive roadmap dashboard with live reload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("dashboard needs an interactive terminal; use `waypoint status`")
			}
			return runDashboard(cmd.Context(), app, tea.WithAltScreen())
		},
	}
}

// runDashboard blocks until the user quits. Writes to app.WatchPaths by
// other processes are reloaded into the store and shown immediately.
func runDashboard(ctx context.Context, app *App, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	model := newDashboardModel(app.Store)
	defer model.close()

	if len(app.WatchPaths) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := storage.Watch(ctx, app.WatchPaths, storage.DefaultWatchDebounce, func() {
				app.Store.Reload(ctx)
			})
			if err != nil {
				model.feed.fail(err)
			}
		}()
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// ── messages ─────────────────────────────────────────────────────────────────

// snapshotMsg carries a snapshot published by the store.
type snapshotMsg domain.Snapshot

// watchErrMsg reports that live reload stopped.
type watchErrMsg struct{ err error }

// ── feed ─────────────────────────────────────────────────────────────────────

// snapshotFeed hands store notifications to the tea runtime. Only the
// latest undelivered snapshot is kept so a slow UI never blocks the store.
type snapshotFeed struct {
	ch   chan domain.Snapshot
	errs chan error
	done chan struct{}
	once sync.Once
}

func newSnapshotFeed() *snapshotFeed {
	return &snapshotFeed{
		ch:   make(chan domain.Snapshot, 1),
		errs: make(chan error, 1),
		done: make(chan struct{}),
	}
}

func (f *snapshotFeed) push(s domain.Snapshot) {
	for {
		select {
		case <-f.done:
			return
		case f.ch <- s:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

func (f *snapshotFeed) fail(err error) {
	select {
	case f.errs <- err:
	default:
	}
}

// next waits for the next snapshot or watcher error.
func (f *snapshotFeed) next() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-f.ch:
			return snapshotMsg(s)
		case err := <-f.errs:
			return watchErrMsg{err: err}
		case <-f.done:
			return nil
		}
	}
}

func (f *snapshotFeed) close() {
	f.once.Do(func() { close(f.done) })
}

// ── keys ─────────────────────────────────────────────────────────────────────

type dashboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Increase key.Binding
	Decrease key.Binding
	Theme    key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newDashboardKeyMap() dashboardKeyMap {
	return dashboardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle done")),
		Increase: key.NewBinding(key.WithKeys("+", "=", "l", "right"), key.WithHelp("+", fmt.Sprintf("+%d%%", progressStep))),
		Decrease: key.NewBinding(key.WithKeys("-", "h", "left"), key.WithHelp("-", fmt.Sprintf("-%d%%", progressStep))),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Increase, k.Decrease, k.Help, k.Quit}
}

func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Increase, k.Decrease},
		{k.Theme, k.Reload, k.Help, k.Quit},
	}
}

// ── model ────────────────────────────────────────────────────────────────────

// dashboardModel renders the store and drives its mutators from key
// presses. It holds a subscription until close is called.
type dashboardModel struct {
	store       *store.Manager
	feed        *snapshotFeed
	unsubscribe func()

	snap     domain.Snapshot
	cursor   int
	keys     dashboardKeyMap
	help     help.Model
	bar      progress.Model
	width    int
	notice   string
	quitting bool
}

func newDashboardModel(st *store.Manager) *dashboardModel {
	feed := newSnapshotFeed()
	m := &dashboardModel{
		store: st,
		feed:  feed,
		snap:  st.State(),
		keys:  newDashboardKeyMap(),
		help:  help.New(),
		bar:   progress.New(progress.WithSolidFill(string(formatter.ColorGreen)), progress.WithoutPercentage()),
		width: 80,
	}
	m.unsubscribe = st.Subscribe(feed.push)
	return m
}

func (m *dashboardModel) close() {
	m.unsubscribe()
	m.feed.close()
}

func (m *dashboardModel) Init() tea.Cmd {
	return m.feed.next()
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		m.setSnapshot(domain.Snapshot(msg))
		return m, m.feed.next()

	case watchErrMsg:
		m.notice = "live reload stopped: " + msg.err.Error()
		return m, m.feed.next()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Milestones)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if ms, ok := m.selected(); ok {
			m.store.ToggleMilestoneCompletion(ms.ID)
		}

	case key.Matches(msg, m.keys.Increase):
		if ms, ok := m.selected(); ok {
			m.store.UpdateMilestoneProgress(ms.ID, ms.Progress+progressStep)
		}

	case key.Matches(msg, m.keys.Decrease):
		if ms, ok := m.selected(); ok {
			m.store.UpdateMilestoneProgress(ms.ID, ms.Progress-progressStep)
		}

	case key.Matches(msg, m.keys.Theme):
		m.store.ToggleTheme()

	case key.Matches(msg, m.keys.Reload):
		if m.store.Reload(context.Background()) {
			m.notice = "reloaded"
		} else {
			m.notice = "nothing stored to reload"
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	// Mutations notify synchronously; read back rather than wait for the feed.
	m.setSnapshot(m.store.State())
	return m, nil
}

func (m *dashboardModel) setSnapshot(s domain.Snapshot) {
	m.snap = s
	if m.cursor >= len(s.Milestones) {
		m.cursor = max(len(s.Milestones)-1, 0)
	}
}

func (m *dashboardModel) selected() (domain.Milestone, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Milestones) {
		return domain.Milestone{}, false
	}
	return m.snap.Milestones[m.cursor], true
}

// ── view ─────────────────────────────────────────────────────────────────────

func (m *dashboardModel) View() string {
	if m.quitting {
		return ""
	}

	fg := formatter.StyleFg
	if m.snap.Theme == domain.ThemeLight {
		fg = lipgloss.NewStyle().Foreground(lipgloss.Color("#3c3836"))
	}

	var b strings.Builder
	title := "No roadmap loaded"
	if m.snap.CurrentRoadmap != nil {
		title = m.snap.CurrentRoadmap.Title
	}
	b.WriteString(formatter.StyleHeader.Render(title))
	if u := m.snap.CurrentUser; m.snap.IsAuthenticated && u != nil {
		b.WriteString(formatter.Dim("  · " + u.Name))
	}
	b.WriteString("\n\n")

	stats := m.snap.ProgressStats
	m.bar.Width = max(min(m.width-24, 60), 10)
	b.WriteString(fmt.Sprintf("%s %3d%%  %d/%d\n\n",
		m.bar.ViewAs(float64(stats.Percentage)/100), stats.Percentage, stats.Completed, stats.Total))

	if len(m.snap.Milestones) == 0 {
		b.WriteString(formatter.Dim("No milestones. Load one with `waypoint roadmap load <file>`.") + "\n")
	}
	for i, ms := range m.snap.Milestones {
		cursor := "  "
		style := fg
		if i == m.cursor {
			cursor = formatter.StyleHeader.Render("▸ ")
			style = style.Bold(true)
		}
		b.WriteString(fmt.Sprintf("%s%s %s  %s\n",
			cursor,
			formatter.RenderProgress(ms.Progress, 10),
			style.Render(ms.Title),
			formatter.StatusColor(ms.Status).Render(string(ms.Status))))
	}

	if n := len(m.snap.ProgressHistory); n > 0 {
		last := m.snap.ProgressHistory[n-1]
		b.WriteString("\n" + formatter.Dim(fmt.Sprintf("last change: %s %d%% → %d%%", last.MilestoneID, last.PreviousProgress, last.NewProgress)) + "\n")
	}
	if m.notice != "" {
		b.WriteString(formatter.StyleYellow.Render(m.notice) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

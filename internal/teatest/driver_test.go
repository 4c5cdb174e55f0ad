package teatest

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type bumpMsg struct{}

// counterModel counts '+' presses; 'b' emits a bumpMsg through a Cmd.
type counterModel struct {
	n, width int
}

func (m counterModel) Init() tea.Cmd {
	return func() tea.Msg { return bumpMsg{} }
}

func (m counterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case bumpMsg:
		m.n++
	case tea.KeyMsg:
		switch msg.String() {
		case "+":
			m.n++
		case "b":
			return m, tea.Batch(func() tea.Msg { return bumpMsg{} }, func() tea.Msg { return bumpMsg{} })
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m counterModel) View() string { return fmt.Sprintf("n=%d w=%d", m.n, m.width) }

func TestDriver_DrainsCommands(t *testing.T) {
	d := New(t, counterModel{}, WithSize(80, 24))
	d.DrainInit()
	assert.Equal(t, "n=1 w=80", d.View())

	d.PressKey('+')
	d.PressKey('b')
	assert.Equal(t, "n=4 w=80", d.View())
}

func TestDriver_QuitStopsUpdates(t *testing.T) {
	d := New(t, counterModel{})
	d.PressKey('q')
	assert.True(t, d.Quitting)

	d.PressKey('+')
	assert.Equal(t, "n=0 w=0", d.View())
}

func TestDriver_AbandonsBlockingCommands(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	d := New(t, counterModel{})
	d.drain(func() tea.Msg { <-block; return bumpMsg{} }, 0)

	assert.Equal(t, "n=0 w=0", d.View())
}

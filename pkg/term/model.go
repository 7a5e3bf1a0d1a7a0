package term

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-drift/fibre/pkg/event"
	"github.com/go-drift/fibre/pkg/graphics"
)

// frameMsg carries a presented frame into the bubbletea program.
type frameMsg struct {
	view string
}

// Model is the bubbletea model of a terminal host. It converts terminal
// input into events for the tree and displays the frames the tree presents.
// It never touches the tree itself: events go to send, which hands them to
// the goroutine that owns the tree.
type Model struct {
	send  func(event.Event)
	cell  graphics.Size
	view  string
	ready bool
}

// NewModel creates a model forwarding events to send. cell is the logical
// size of one terminal cell.
func NewModel(send func(event.Event), cell graphics.Size) Model {
	return Model{send: send, cell: cell}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.send(event.CloseRequested{})
			return m, tea.Quit
		}
		m.send(event.KeyPressed{Key: msg.String()})

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionMotion || msg.Action == tea.MouseActionPress {
			m.send(event.PointerMoved{
				X: (float64(msg.X) + 0.5) * m.cell.Width,
				Y: (float64(msg.Y) + 0.5) * m.cell.Height,
			})
		}

	case tea.WindowSizeMsg:
		m.ready = true
		m.send(event.Resized{
			Width:  float64(msg.Width) * m.cell.Width,
			Height: float64(msg.Height) * m.cell.Height,
		})
		m.send(event.RedrawRequested{})

	case frameMsg:
		m.view = msg.view
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}
	return m.view
}

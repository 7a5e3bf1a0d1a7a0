package term

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-drift/fibre/pkg/event"
)

// Run shows surface in the terminal until the user quits or ctx is done.
// Input is converted to events and passed to send; frames presented on the
// surface are displayed as they arrive.
func Run(ctx context.Context, surface *Surface, send func(event.Event), opts ...tea.ProgramOption) error {
	model := NewModel(send, surface.CellSize())
	opts = append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	}, opts...)
	program := tea.NewProgram(model, opts...)

	surface.SetOnPresent(func(view string) {
		program.Send(frameMsg{view: view})
	})
	defer surface.SetOnPresent(nil)

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

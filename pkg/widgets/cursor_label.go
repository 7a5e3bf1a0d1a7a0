package widgets

import (
	"github.com/go-drift/fibre/pkg/core"
	"github.com/go-drift/fibre/pkg/event"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
	"github.com/go-drift/fibre/pkg/state"
)

// CursorLabel draws Text with its baseline at the last pointer position,
// anywhere on the canvas. Nothing is drawn before the first pointer event.
type CursorLabel struct {
	core.ComponentBase
	Text  string
	Style graphics.TextStyle

	pointer *state.Cell[*graphics.Offset]
}

// NewCursorLabel creates a label that follows the pointer. redraw is called
// whenever the pointer moves.
func NewCursorLabel(text string, style graphics.TextStyle, redraw func()) *CursorLabel {
	return &CursorLabel{
		Text:  text,
		Style: style,
		pointer: state.NewWithEqual[*graphics.Offset](nil, redraw, func(a, b *graphics.Offset) bool {
			return a != nil && b != nil && *a == *b
		}),
	}
}

func (l *CursorLabel) HandleEvent(ev event.Event) {
	if moved, ok := ev.(event.PointerMoved); ok {
		l.pointer.Set(&graphics.Offset{X: moved.X, Y: moved.Y})
	}
}

func (l *CursorLabel) Draw(c graphics.Canvas, _ layout.Layout) {
	if pos, ok := l.Position(); ok {
		c.DrawText(l.Text, pos, textStyle(l.Style))
	}
}

// Position returns the last pointer position.
func (l *CursorLabel) Position() (graphics.Offset, bool) {
	p := l.pointer.Get()
	if p == nil {
		return graphics.Offset{}, false
	}
	return *p, true
}

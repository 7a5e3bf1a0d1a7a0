package widgets

import (
	"fmt"

	"github.com/go-drift/fibre/pkg/core"
	"github.com/go-drift/fibre/pkg/event"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
	"github.com/go-drift/fibre/pkg/state"
)

// Counter shows "Label: n" and changes n on key presses: "+" or "up"
// increments, "-" or "down" decrements, "0" resets.
type Counter struct {
	core.ComponentBase
	Label string
	Style graphics.TextStyle
	Count *state.Cell[int]
}

// NewCounter creates a counter starting at initial. redraw is called on
// every change.
func NewCounter(label string, initial int, redraw func()) *Counter {
	return &Counter{Label: label, Count: state.NewComparable(initial, redraw)}
}

func (c *Counter) HandleEvent(ev event.Event) {
	key, ok := ev.(event.KeyPressed)
	if !ok {
		return
	}
	switch key.Key {
	case "+", "up":
		c.Count.Update(func(n int) int { return n + 1 })
	case "-", "down":
		c.Count.Update(func(n int) int { return n - 1 })
	case "0":
		c.Count.Set(0)
	}
}

func (c *Counter) Draw(canvas graphics.Canvas, l layout.Layout) {
	style := textStyle(c.Style)
	canvas.DrawText(c.Text(), baseline(l.Rect(), 0, style.FontSize), style)
}

// Text returns the rendered text.
func (c *Counter) Text() string {
	return fmt.Sprintf("%s: %d", c.Label, c.Count.Get())
}

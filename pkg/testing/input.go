package testing

import (
	"fmt"

	"github.com/go-drift/fibre/pkg/event"
	"github.com/go-drift/fibre/pkg/graphics"
)

// MovePointer dispatches a PointerMoved event at pos.
func (t *Tester) MovePointer(pos graphics.Offset) error {
	return t.Send(event.PointerMoved{X: pos.X, Y: pos.Y})
}

// MovePointerTo dispatches a PointerMoved event at the centre of the first
// component matched by finder.
func (t *Tester) MovePointerTo(finder Finder) error {
	result := t.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("MovePointerTo: finder matched no components: %s", finder.Description())
	}
	return t.MovePointer(result.First().Rect.Center())
}

// Drag dispatches pointer moves from start to start+delta in steps
// intermediate positions, inclusive of both ends.
func (t *Tester) Drag(start, delta graphics.Offset, steps int) error {
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		pos := graphics.Offset{X: start.X + delta.X*f, Y: start.Y + delta.Y*f}
		if err := t.MovePointer(pos); err != nil {
			return err
		}
	}
	return nil
}

// PressKey dispatches a KeyPressed event.
func (t *Tester) PressKey(key string) error {
	return t.Send(event.KeyPressed{Key: key})
}

// SendCustom dispatches a Custom event.
func (t *Tester) SendCustom(name string, payload any) error {
	return t.Send(event.Custom{Name: name, Payload: payload})
}

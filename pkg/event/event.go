// Package event defines the input and window events a host delivers to the
// node tree. Every component receives every event; the tree driver itself
// reacts only to Resized and RedrawRequested.
package event

import "fmt"

// Event is a structured input or window event.
type Event interface {
	fmt.Stringer
	isEvent()
}

// PointerMoved reports a new pointer position in logical pixels.
type PointerMoved struct {
	X, Y float64
}

// Resized reports a new window size in logical pixels.
type Resized struct {
	Width, Height float64
}

// RedrawRequested asks the driver to run a frame.
type RedrawRequested struct{}

// KeyPressed reports a key press, named the way the host names keys
// ("a", "enter", "ctrl+c").
type KeyPressed struct {
	Key string
}

// CloseRequested reports that the user asked to close the window.
type CloseRequested struct{}

// Custom carries an application-defined event.
type Custom struct {
	Name    string
	Payload any
}

func (PointerMoved) isEvent() {}
func (Resized) isEvent() {}
func (RedrawRequested) isEvent() {}
func (KeyPressed) isEvent() {}
func (CloseRequested) isEvent() {}
func (Custom) isEvent() {}

func (e PointerMoved) String() string { return fmt.Sprintf("pointer(%g,%g)", e.X, e.Y) }
func (e Resized) String() string { return fmt.Sprintf("resized(%gx%g)", e.Width, e.Height) }
func (RedrawRequested) String() string { return "redraw" }
func (e KeyPressed) String() string { return "key(" + e.Key + ")" }
func (CloseRequested) String() string { return "close" }
func (e Custom) String() string { return "custom(" + e.Name + ")" }

package testing

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-drift/fibre/pkg/core"
	"github.com/go-drift/fibre/pkg/event"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
)

const (
	// DefaultTestWidth is the default logical width for the test surface.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default logical height for the test surface.
	DefaultTestHeight = 600
	// DefaultKeepFrames is how many presented frames the surface retains.
	DefaultKeepFrames = 8
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: queue did not settle")

// Tester drives a Fibre against a recording surface. It is not safe for
// concurrent use, except that components may push commands from other
// goroutines between pumps.
type Tester struct {
	fibre   *core.Fibre
	surface *graphics.RecordingSurface
	clock   *FakeClock
	size    graphics.Size
	opts    []core.Option
}

// NewTester creates a tester with the default test environment. Extra
// options are passed to core.New; logging is discarded unless one of them
// sets a logger. Call Close when done, or use NewTesterWithT instead.
func NewTester(opts ...core.Option) *Tester {
	t := &Tester{
		clock: NewFakeClock(),
		size:  graphics.Size{Width: DefaultTestWidth, Height: DefaultTestHeight},
		opts:  append([]core.Option{core.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...),
	}
	t.reset()
	return t
}

// NewTesterWithT creates a tester that closes itself via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t *testing.T, opts ...core.Option) *Tester {
	tester := NewTester(opts...)
	t.Cleanup(tester.Close)
	return tester
}

func (t *Tester) reset() {
	t.surface = graphics.NewRecordingSurface(t.size.Width, t.size.Height, DefaultKeepFrames)
	t.fibre = core.New(t.surface, t.size.Width, t.size.Height, t.opts...)
}

// Close unmounts every component.
func (t *Tester) Close() {
	t.fibre.Close()
}

// SetSize replaces the Fibre with a fresh one of the given size. Must be
// called before Mount; use Resize to resize a mounted tree.
func (t *Tester) SetSize(size graphics.Size) {
	t.fibre.Close()
	t.size = size
	t.reset()
}

// Fibre returns the driven Fibre.
func (t *Tester) Fibre() *core.Fibre {
	return t.fibre
}

// Surface returns the recording surface.
func (t *Tester) Surface() *graphics.RecordingSurface {
	return t.surface
}

// Clock returns the fake clock for components that schedule timers.
func (t *Tester) Clock() *FakeClock {
	return t.clock
}

// Mount queues c as the last child of the root and runs one frame.
func (t *Tester) Mount(c core.Component, style layout.Style) error {
	t.fibre.Append(c, style)
	return t.Pump()
}

// Pump runs a single frame: drain and apply, layout, render, present.
func (t *Tester) Pump() error {
	return t.fibre.Frame()
}

// PumpAndSettle runs frames until no commands remain queued after a frame,
// advancing the fake clock by frameDuration (16ms) between frames. Returns
// ErrSettleTimeout if the queue does not settle within timeout.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	const frameDuration = 16 * time.Millisecond
	var elapsed time.Duration
	for elapsed < timeout {
		if err := t.Pump(); err != nil {
			return err
		}
		if t.fibre.Queue().Len() == 0 {
			return nil
		}
		t.clock.Advance(frameDuration)
		elapsed += frameDuration
	}
	return ErrSettleTimeout
}

// Send dispatches ev to every component. Resized and RedrawRequested are
// handled by the Fibre as a host would.
func (t *Tester) Send(ev event.Event) error {
	return t.fibre.DispatchEvent(ev)
}

// Resize dispatches a Resized event.
func (t *Tester) Resize(size graphics.Size) error {
	return t.Send(event.Resized{Width: size.Width, Height: size.Height})
}

// LastFrame returns the display list of the last presented frame, or nil.
func (t *Tester) LastFrame() *graphics.DisplayList {
	return t.surface.Last()
}

// Frames returns the retained presented frames, oldest first.
func (t *Tester) Frames() []*graphics.DisplayList {
	return t.surface.Frames()
}

package widgets

import (
	"sync"
	"time"

	"github.com/go-drift/fibre/pkg/core"
	"github.com/go-drift/fibre/pkg/event"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
)

// DefaultToastDuration is used when Toast.Duration is zero.
const DefaultToastDuration = 3 * time.Second

// Toast shows Message on a filled box and retires its own node after
// Duration, or when "esc" is pressed. The timer runs on Clock, which
// defaults to SystemClock; retirement goes through the node's channel, so
// the toast disappears at the next frame after the timer fires.
type Toast struct {
	core.ComponentBase
	Message    string
	Duration   time.Duration
	Background graphics.Color
	Style      graphics.TextStyle
	Clock      Clock
	// OnDismiss runs on the timer's goroutine, or the event goroutine for
	// "esc", when the toast asks to be retired.
	OnDismiss func()

	mu        sync.Mutex
	ch        core.Channel
	stop      func() bool
	dismissed bool
}

func (t *Toast) Mount(h *core.NodeHandle) {
	clock := t.Clock
	if clock == nil {
		clock = SystemClock
	}
	d := t.Duration
	if d <= 0 {
		d = DefaultToastDuration
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.ch = h.Channel()
	t.dismissed = false
	t.stop = clock.AfterFunc(d, t.Dismiss)
}

func (t *Toast) Unmount() {
	t.mu.Lock()
	stop := t.stop
	t.stop = nil
	t.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (t *Toast) HandleEvent(ev event.Event) {
	if key, ok := ev.(event.KeyPressed); ok && key.Key == "esc" {
		t.Dismiss()
	}
}

// Dismiss asks for the toast to be retired. Only the first call has an
// effect.
func (t *Toast) Dismiss() {
	t.mu.Lock()
	if t.dismissed || !t.ch.Valid() {
		t.mu.Unlock()
		return
	}
	t.dismissed = true
	ch := t.ch
	t.mu.Unlock()

	ch.Retire()
	if t.OnDismiss != nil {
		t.OnDismiss()
	}
}

func (t *Toast) Draw(c graphics.Canvas, l layout.Layout) {
	rect := l.Rect()
	if t.Background.Alpha() > 0 {
		c.DrawRect(rect, graphics.Fill(t.Background))
	}
	style := textStyle(t.Style)
	c.ClipRect(rect)
	c.DrawText(t.Message, baseline(rect, 4, style.FontSize), style)
}

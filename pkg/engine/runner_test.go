package engine

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fibre/pkg/core"
	fibreerrors "github.com/go-drift/fibre/pkg/errors"
	"github.com/go-drift/fibre/pkg/event"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// box fills its layout and records the events it sees.
type box struct {
	core.ComponentBase
	color graphics.Color

	mu        sync.Mutex
	events    []string
	unmounted bool
}

func (b *box) Draw(c graphics.Canvas, l layout.Layout) {
	c.DrawRect(l.Rect(), graphics.Fill(b.color))
}

func (b *box) HandleEvent(ev event.Event) {
	b.mu.Lock()
	b.events = append(b.events, ev.String())
	b.mu.Unlock()
}

func (b *box) Unmount() {
	b.mu.Lock()
	b.unmounted = true
	b.mu.Unlock()
}

func (b *box) seen() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

func newFibre(t *testing.T) (*core.Fibre, *graphics.RecordingSurface) {
	t.Helper()
	surface := graphics.NewRecordingSurface(200, 100, 4)
	return core.New(surface, 200, 100, core.WithLogger(quiet)), surface
}

func TestRunnerRendersQueuedComponentsAndCloses(t *testing.T) {
	f, surface := newFibre(t)
	r := NewRunner(f, WithLogger(quiet), WithMaxFrames(1))

	b := &box{color: graphics.ColorRed}
	f.Append(b, layout.Sized(50, 20))

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, uint64(1), r.Frames())
	ops := surface.Last().Ops()
	require.NotEmpty(t, ops)
	assert.Equal(t, graphics.OpClear, ops[0].Kind)
	var rects []graphics.Rect
	for _, op := range ops {
		if op.Kind == graphics.OpRect {
			rects = append(rects, op.Rect)
		}
	}
	assert.Equal(t, []graphics.Rect{graphics.RectFromLTWH(0, 0, 50, 20)}, rects)

	// Reaching the frame limit closes the Fibre.
	assert.True(t, b.unmounted)
	assert.Equal(t, 0, f.Registry().Len())
	assert.True(t, f.Queue().Closed())
}

func TestRunnerCoalescesRedrawEvents(t *testing.T) {
	f, _ := newFibre(t)
	b := &box{}
	f.Append(b, layout.Sized(10, 10))
	f.DrainAndApply()

	r := NewRunner(f, WithLogger(quiet), WithMaxFrames(1))
	r.Send(event.KeyPressed{Key: "a"})
	r.Send(event.RedrawRequested{})
	r.Send(event.RedrawRequested{})

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, uint64(1), r.Frames())
	assert.Equal(t, []string{"key(a)", "redraw"}, b.seen())

	samples := r.Trace().Snapshot().Samples
	require.Len(t, samples, 1)
	assert.Equal(t, 3, samples[0].Counts.Events)
}

func TestRunnerBroadcastsRedrawAtFirstPosition(t *testing.T) {
	f, _ := newFibre(t)
	b := &box{}
	f.Append(b, layout.Sized(10, 10))
	f.DrainAndApply()

	r := NewRunner(f, WithLogger(quiet), WithMaxFrames(1))
	r.Send(event.RedrawRequested{})
	r.Send(event.KeyPressed{Key: "a"})
	r.Send(event.RedrawRequested{})
	r.Send(event.KeyPressed{Key: "b"})

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, []string{"redraw", "key(a)", "key(b)"}, b.seen())
	samples := r.Trace().Snapshot().Samples
	require.Len(t, samples, 1)
	assert.Equal(t, 4, samples[0].Counts.Events)
}

func TestRunnerStopsOnCloseRequested(t *testing.T) {
	f, _ := newFibre(t)
	b := &box{}
	f.Append(b, layout.Sized(10, 10))
	f.DrainAndApply()

	r := NewRunner(f, WithLogger(quiet))
	r.Send(event.CloseRequested{})
	r.Send(event.KeyPressed{Key: "late"})

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, []string{"close"}, b.seen())
	assert.True(t, b.unmounted)
	assert.Zero(t, r.Frames())
}

func TestRunnerDispatchRunsOnLoopInOrder(t *testing.T) {
	f, _ := newFibre(t)
	r := NewRunner(f, WithLogger(quiet), WithMaxFrames(1))

	var order []string
	first := &box{}
	r.Dispatch(func(f *core.Fibre) {
		order = append(order, "dispatch")
		f.Append(first, layout.Sized(10, 10))
	})
	r.Send(event.KeyPressed{Key: "x"})

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, []string{"dispatch"}, order)
	// The key event is dispatched before the drain mounts the component.
	assert.Empty(t, first.seen())
	assert.Equal(t, 1, f.Lifetime().Mounts)
}

func TestRunnerTracesEachFrame(t *testing.T) {
	f, _ := newFibre(t)
	r := NewRunner(f, WithLogger(quiet), WithMaxFrames(2))
	f.Append(&box{}, layout.Sized(10, 10))

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	require.Eventually(t, func() bool { return r.Frames() == 1 }, 2*time.Second, time.Millisecond)
	r.Send(event.RedrawRequested{})

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}

	samples := r.Trace().Snapshot().Samples
	require.Len(t, samples, 2)
	assert.Equal(t, uint64(1), samples[0].Frame)
	assert.Equal(t, 1, samples[0].Counts.Applied)
	assert.Equal(t, 1, samples[0].Counts.Mounts)
	assert.Equal(t, 1, samples[0].Counts.Components)
	assert.Equal(t, 2, samples[0].Counts.Nodes)
	assert.Equal(t, 0, samples[1].Counts.Applied)
	assert.Equal(t, 1, samples[1].Counts.Events)
	assert.GreaterOrEqual(t, samples[1].FrameMs, samples[1].Phases.RenderMs)
}

func TestRunnerKeepsGoingAfterFailedFrame(t *testing.T) {
	fibreerrors.SetHandler(&fibreerrors.LogHandler{Logger: quiet})
	defer fibreerrors.SetHandler(nil)

	f, surface := newFibre(t)
	surface.FailPresent = stderrors.New("device lost")
	r := NewRunner(f, WithLogger(quiet), WithMaxFrames(2))

	f.Append(&box{}, layout.Sized(10, 10))

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()
	require.Eventually(t, func() bool { return r.Frames() == 1 }, 2*time.Second, time.Millisecond)

	r.Dispatch(func(*core.Fibre) { surface.FailPresent = nil })
	r.RequestRedraw()
	require.NoError(t, <-done)

	samples := r.Trace().Snapshot().Samples
	require.Len(t, samples, 2)
	assert.True(t, samples[0].Failed)
	assert.False(t, samples[1].Failed)
	assert.NotNil(t, surface.Last())
}

func TestRunnerStopsWhenContextIsCancelled(t *testing.T) {
	f, _ := newFibre(t)
	b := &box{}
	f.Append(b, layout.Sized(10, 10))
	r := NewRunner(f, WithLogger(quiet), WithRuntimeSampling(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	r.Dispatch(func(*core.Fibre) { cancel() })

	require.NoError(t, r.Run(ctx))
	assert.True(t, b.unmounted)
	assert.NotEmpty(t, r.runtime.Snapshot())
}

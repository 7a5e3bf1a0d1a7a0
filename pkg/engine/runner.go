// Package engine drives a core.Fibre from a host: it serializes events and
// callbacks from any goroutine onto one frame loop, coalesces redraws, keeps
// a frame trace, and serves diagnostics over HTTP.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-drift/fibre/pkg/core"
	"github.com/go-drift/fibre/pkg/errors"
	"github.com/go-drift/fibre/pkg/event"
)

// Options configures a Runner.
type Options struct {
	// Logger receives frame loop records. Defaults to slog.Default().
	Logger *slog.Logger
	// TraceCapacity is the number of frame samples kept for /frames.
	TraceCapacity int
	// TraceThreshold is the frame duration above which a frame counts as dropped.
	TraceThreshold time.Duration
	// RuntimeSampleInterval enables periodic runtime sampling while Run is
	// active. Zero disables it.
	RuntimeSampleInterval time.Duration
	// MaxFrames closes the Fibre and stops Run after that many rendered
	// frames. Zero means unlimited.
	MaxFrames int
}

// Option configures a Runner.
type Option func(*Options)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithFrameTrace sets the trace capacity and dropped frame threshold.
func WithFrameTrace(capacity int, threshold time.Duration) Option {
	return func(o *Options) {
		o.TraceCapacity = capacity
		o.TraceThreshold = threshold
	}
}

// WithRuntimeSampling samples runtime memory stats every interval.
func WithRuntimeSampling(interval time.Duration) Option {
	return func(o *Options) { o.RuntimeSampleInterval = interval }
}

// WithMaxFrames stops Run after n rendered frames.
func WithMaxFrames(n int) Option {
	return func(o *Options) { o.MaxFrames = n }
}

// work is one queued unit for the frame loop: an event or a callback.
type work struct {
	ev event.Event
	fn func(*core.Fibre)
}

// Runner owns the goroutine that drives a Fibre. Send, Dispatch, and
// RequestRedraw are safe for concurrent use; everything else about the Fibre
// happens on the goroutine running Run.
type Runner struct {
	fibre   *core.Fibre
	opts    Options
	log     *slog.Logger
	trace   *FrameTraceBuffer
	runtime *RuntimeSampleBuffer

	dispatchMu sync.Mutex
	pending    []work

	wake   chan struct{}
	redraw atomic.Bool
	frames atomic.Uint64

	// frameLock serializes frame steps with debug server reads of the tree.
	frameLock sync.Mutex

	debug debugServer
}

// NewRunner creates a Runner for f. Every command pushed to f's queue
// requests a redraw.
func NewRunner(f *core.Fibre, opts ...Option) *Runner {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	r := &Runner{
		fibre: f,
		opts:  o,
		log:   o.Logger,
		trace: NewFrameTraceBuffer(o.TraceCapacity, o.TraceThreshold),
		wake:  make(chan struct{}, 1),
	}
	if o.RuntimeSampleInterval > 0 {
		r.runtime = newRuntimeSampleBuffer(o.RuntimeSampleInterval)
	}
	f.Queue().SetOnPush(r.RequestRedraw)
	return r
}

// Fibre returns the driven Fibre. It must only be touched from callbacks
// passed to Dispatch.
func (r *Runner) Fibre() *core.Fibre {
	return r.fibre
}

// Trace returns the frame trace buffer.
func (r *Runner) Trace() *FrameTraceBuffer {
	return r.trace
}

// Frames returns the number of frames rendered so far.
func (r *Runner) Frames() uint64 {
	return r.frames.Load()
}

// Send queues ev for dispatch on the frame loop. RedrawRequested events
// queued between two steps are coalesced into one frame: the first is
// broadcast at its place in the queue and later ones are dropped.
func (r *Runner) Send(ev event.Event) {
	if ev == nil {
		return
	}
	r.enqueue(work{ev: ev})
}

// Dispatch queues fn to run on the frame loop before the next frame.
func (r *Runner) Dispatch(fn func(*core.Fibre)) {
	if fn == nil {
		return
	}
	r.enqueue(work{fn: fn})
}

// RequestRedraw schedules a frame without delivering an event.
func (r *Runner) RequestRedraw() {
	r.redraw.Store(true)
	r.notify()
}

func (r *Runner) enqueue(w work) {
	r.dispatchMu.Lock()
	r.pending = append(r.pending, w)
	r.dispatchMu.Unlock()
	r.notify()
}

func (r *Runner) notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Runner) takePending() []work {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()
	pending := r.pending
	r.pending = nil
	return pending
}

// Run drives the frame loop until ctx is cancelled, a CloseRequested event
// is dispatched, or MaxFrames frames have rendered. The Fibre is closed
// before Run returns. A frame that fails to render is reported and the loop
// continues.
func (r *Runner) Run(ctx context.Context) error {
	if r.runtime != nil {
		sctx, cancel := context.WithCancel(ctx)
		defer cancel()
		r.runtime.Add(readRuntimeSample())
		go r.runtime.sample(sctx)
	}

	r.log.Info("runner started", "maxFrames", r.opts.MaxFrames)
	r.RequestRedraw()
	for {
		select {
		case <-ctx.Done():
			r.shutdown("context done")
			return nil
		case <-r.wake:
		}
		if done := r.step(); done {
			return nil
		}
	}
}

func (r *Runner) shutdown(reason string) {
	r.frameLock.Lock()
	defer r.frameLock.Unlock()
	r.fibre.Close()
	r.log.Info("runner stopped", "reason", reason, "frames", r.frames.Load())
}

// step runs queued work and, if anything asked for it, one frame. It reports
// whether the loop should stop.
func (r *Runner) step() bool {
	r.frameLock.Lock()
	closing, limit := false, false
	defer func() {
		r.frameLock.Unlock()
		switch {
		case closing:
			r.shutdown("close requested")
		case limit:
			r.shutdown("frame limit")
		}
	}()

	start := time.Now()
	redraw := r.redraw.Swap(false)
	redrawEvent := false
	events := 0

	for _, w := range r.takePending() {
		if w.fn != nil {
			w.fn(r.fibre)
			continue
		}
		events++
		switch w.ev.(type) {
		case event.RedrawRequested:
			if redrawEvent {
				continue
			}
			redrawEvent = true
			r.fibre.Broadcast(event.RedrawRequested{})
			continue
		case event.CloseRequested:
			closing = true
		}
		if err := r.fibre.DispatchEvent(w.ev); err != nil {
			r.log.Debug("dispatch failed", "event", w.ev, "err", err)
		}
		if closing {
			break
		}
	}
	if closing {
		return true
	}
	if !redraw && !redrawEvent && r.fibre.Queue().Len() == 0 {
		return false
	}
	dispatchDone := time.Now()

	stats := r.fibre.DrainAndApply()
	commandDone := time.Now()

	err := r.fibre.RenderFrame()
	renderDone := time.Now()

	frames := r.frames.Add(1)
	counts := countsFrom(stats)
	counts.Events = events
	counts.Components = r.fibre.Registry().Len()
	counts.Nodes = r.fibre.Tree().Len()
	r.trace.Add(FrameSample{
		Frame:     frames,
		Timestamp: start.UnixMilli(),
		FrameMs:   durationToMillis(renderDone.Sub(start)),
		Phases: FramePhaseTimings{
			DispatchMs: durationToMillis(dispatchDone.Sub(start)),
			CommandMs:  durationToMillis(commandDone.Sub(dispatchDone)),
			RenderMs:   durationToMillis(renderDone.Sub(commandDone)),
		},
		Counts: counts,
		Failed: err != nil,
	}, renderDone.Sub(start))

	if err != nil {
		r.log.Warn("frame failed", "frame", frames, "kind", errors.KindOf(err), "err", err)
	}
	if stats.Pending > 0 {
		r.RequestRedraw()
	}
	limit = r.opts.MaxFrames > 0 && frames >= uint64(r.opts.MaxFrames)
	return limit
}

package core

import (
	"log/slog"

	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
)

// Default caps applied when an Option leaves them unset.
const (
	DefaultMaxDrainPasses = 64
	DefaultMaxMountDepth  = 64
)

// Options configures a Fibre.
type Options struct {
	// Logger receives lifecycle and diagnostic records. Defaults to slog.Default().
	Logger *slog.Logger
	// Background is the color the surface is cleared to before each frame.
	Background graphics.Color
	// MaxDrainPasses bounds how many batches one DrainAndApply takes from the
	// queue. Commands pushed while the last batch is applied wait for the
	// next frame.
	MaxDrainPasses int
	// MaxMountDepth bounds nesting of synchronous mounts through NodeHandle.
	MaxMountDepth int
}

// Option configures a Fibre.
type Option func(*Options)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithBackground sets the clear color.
func WithBackground(c graphics.Color) Option {
	return func(o *Options) { o.Background = c }
}

// WithMaxDrainPasses sets Options.MaxDrainPasses. Non-positive values keep the default.
func WithMaxDrainPasses(n int) Option {
	return func(o *Options) { o.MaxDrainPasses = n }
}

// WithMaxMountDepth sets Options.MaxMountDepth. Non-positive values keep the default.
func WithMaxMountDepth(n int) Option {
	return func(o *Options) { o.MaxMountDepth = n }
}

type phase int

const (
	phaseIdle phase = iota
	phaseEvent
	phaseCommand
	phaseRender
	phaseResize
)

func (p phase) String() string {
	switch p {
	case phaseEvent:
		return "event"
	case phaseCommand:
		return "command"
	case phaseRender:
		return "render"
	case phaseResize:
		return "resize"
	default:
		return "idle"
	}
}

// Fibre owns the layout tree, the component registry, and the command queue,
// and runs the frame cycle over them. A Fibre is driven by one goroutine;
// only its Queue and the Channels derived from it may be used concurrently.
type Fibre struct {
	opts     Options
	log      *slog.Logger
	surface  graphics.Surface
	tree     *layout.Tree
	registry *Registry
	queue    *Queue
	root     layout.NodeID
	size     graphics.Size
	phase    phase
	closed   bool

	frame    uint64
	last     FrameStats
	current  FrameStats
	lifetime Totals
}

// New creates a Fibre drawing to surface, with a root node sized to the
// window.
func New(surface graphics.Surface, width, height float64, opts ...Option) *Fibre {
	o := Options{Background: graphics.ColorBlack}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.MaxDrainPasses <= 0 {
		o.MaxDrainPasses = DefaultMaxDrainPasses
	}
	if o.MaxMountDepth <= 0 {
		o.MaxMountDepth = DefaultMaxMountDepth
	}

	tree := layout.NewTree()
	f := &Fibre{
		opts:     o,
		log:      o.Logger,
		surface:  surface,
		tree:     tree,
		registry: NewRegistry(),
		queue:    NewQueue(),
		root:     tree.NewLeaf(layout.RootStyle(float32(width), float32(height))),
		size:     graphics.Size{Width: width, Height: height},
	}
	f.log.Debug("fibre created", "root", f.root, "width", width, "height", height)
	return f
}

// Root returns the identity of the root node.
func (f *Fibre) Root() layout.NodeID {
	return f.root
}

// Size returns the current window size.
func (f *Fibre) Size() graphics.Size {
	return f.size
}

// Tree returns the layout tree. Callers must not mutate it.
func (f *Fibre) Tree() *layout.Tree {
	return f.tree
}

// Registry returns the component registry. Callers must not mutate it.
func (f *Fibre) Registry() *Registry {
	return f.registry
}

// Queue returns the command queue.
func (f *Fibre) Queue() *Queue {
	return f.queue
}

// Options returns the effective options.
func (f *Fibre) Options() Options {
	return f.opts
}

// Channel returns a channel addressing node. Hosts use it to feed commands
// for nodes they created themselves.
func (f *Fibre) Channel(node layout.NodeID) Channel {
	return Channel{node: node, queue: f.queue}
}

// Append queues c to be mounted as the last child of the root.
func (f *Fibre) Append(c Component, style layout.Style) {
	f.queue.Push(AppendRoot{Component: c, Style: style})
}

// Close retires every child of the root, unmounting all components, and
// closes the queue. Later frames render an empty tree.
func (f *Fibre) Close() {
	if f.closed {
		return
	}
	f.enter(phaseCommand, "core.Close")
	defer f.leave()

	f.closed = true
	f.queue.Close()
	for _, child := range f.tree.Children(f.root) {
		if err := f.retire(child); err != nil {
			f.log.Debug("close: retire", "node", child, "err", err)
		}
	}
	f.log.Debug("fibre closed", "mounts", f.lifetime.Mounts, "unmounts", f.lifetime.Unmounts)
}

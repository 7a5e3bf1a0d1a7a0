package core

import (
	"github.com/go-drift/fibre/pkg/errors"
	"github.com/go-drift/fibre/pkg/event"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
)

// DispatchEvent delivers ev to every registered component in registry
// order. Handlers may push commands through their channels; nothing is
// applied until the next drain. Afterwards the driver reacts to control
// events itself: Resized restyles the root and resizes the surface, and
// RedrawRequested runs Frame.
func (f *Fibre) DispatchEvent(ev event.Event) error {
	if ev == nil {
		return nil
	}
	f.Broadcast(ev)

	switch e := ev.(type) {
	case event.Resized:
		return f.Resize(e.Width, e.Height)
	case event.RedrawRequested:
		return f.Frame()
	}
	return nil
}

// Broadcast delivers ev to every registered component in registry order
// without the driver's own reaction to control events.
func (f *Fibre) Broadcast(ev event.Event) {
	if ev == nil {
		return
	}
	f.enter(phaseEvent, "core.DispatchEvent")
	defer f.leave()
	f.registry.Each(func(_ layout.NodeID, c Component) {
		c.HandleEvent(ev)
	})
}

// Resize sets the window size. The root style is updated right away so the
// next layout uses it; the surface is then asked to reallocate.
func (f *Fibre) Resize(width, height float64) error {
	f.enter(phaseResize, "core.Resize")
	defer f.leave()

	f.size = graphics.Size{Width: width, Height: height}
	if err := f.tree.SetStyle(f.root, layout.RootStyle(float32(width), float32(height))); err != nil {
		errors.Invariant("core.Resize", "restyle root %s: %v", f.root, err)
	}
	if err := f.surface.Resize(width, height); err != nil {
		fe := errors.New("core.Resize", errors.KindBackend, err)
		errors.Report(fe)
		return fe
	}
	f.log.Debug("resized", "width", width, "height", height)
	return nil
}

// Frame runs the command phase followed by the layout and render phases.
func (f *Fibre) Frame() error {
	f.DrainAndApply()
	return f.RenderFrame()
}

// RenderFrame lays out the tree within the window size, clears the surface,
// draws every registered component in pre-order with its absolute layout,
// and presents the frame. A layout or surface failure aborts the frame and
// is returned as an *errors.FibreError; the next frame starts over.
func (f *Fibre) RenderFrame() error {
	f.enter(phaseRender, "core.RenderFrame")
	defer f.leave()

	if !f.tree.Contains(f.root) {
		errors.Invariant("core.RenderFrame", "root %s is missing from the layout tree", f.root)
	}
	if f.registry.Contains(f.root) {
		errors.Invariant("core.RenderFrame", "root %s has a component", f.root)
	}
	if err := f.tree.ComputeLayout(f.root, f.size); err != nil {
		fe := errors.New("core.RenderFrame", errors.KindLayout, err)
		fe.Node = f.root.String()
		errors.Report(fe)
		return fe
	}

	canvas := f.surface.Canvas()
	canvas.Clear(f.opts.Background)

	// origins[d] is the absolute position of the last node visited at depth d.
	origins := make([]graphics.Offset, 0, 16)
	drawn := 0
	f.tree.Walk(f.root, func(node layout.NodeID, depth int) bool {
		box, ok := f.tree.LayoutOf(node)
		if !ok {
			errors.Invariant("core.RenderFrame", "node %s has no layout", node)
		}
		if depth > 0 {
			box = box.Translate(origins[depth-1])
		}
		origins = append(origins[:depth], box.Position)

		if c, ok := f.registry.Get(node); ok {
			drawn++
			canvas.Save()
			c.Draw(canvas, box)
			canvas.Restore()
		}
		return true
	})
	if drawn != f.registry.Len() {
		errors.Invariant("core.RenderFrame", "%d components registered but %d reachable from root", f.registry.Len(), drawn)
	}

	if err := f.surface.Present(); err != nil {
		fe := errors.New("core.RenderFrame", errors.KindBackend, err)
		errors.Report(fe)
		return fe
	}
	return nil
}

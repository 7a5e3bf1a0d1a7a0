// Package core provides the node tree: components, their registry, the
// mutation command queue, and the Fibre driver that runs the frame cycle.
//
// # Components
//
// A Component is mounted on exactly one node of the layout tree. Embed
// ComponentBase to get no-op defaults and override what you need:
//
//	type badge struct {
//	    core.ComponentBase
//	    ch core.Channel
//	}
//
//	func (b *badge) Mount(h *core.NodeHandle) {
//	    b.ch = h.Channel() // keep for later, the handle expires
//	}
//
//	func (b *badge) Draw(c graphics.Canvas, box layout.Layout) {
//	    c.DrawRect(box.Rect(), graphics.Fill(graphics.ColorRed))
//	}
//
// # Mutations
//
// Mount receives a NodeHandle that mutates the tree immediately and is only
// valid until Mount returns. Anything that runs later (event handlers,
// timers, state change callbacks) uses a Channel, which queues a Command.
// Queued commands are applied in order once per frame, after every event of
// the frame has been dispatched and before layout and render. A command that
// addresses a node retired in the meantime is dropped silently.
//
// # Frame cycle
//
//	f := core.New(surface, 800, 600)
//	f.Append(myRoot, layout.Style{Grow: 1})
//	f.DispatchEvent(event.PointerMoved{X: 10, Y: 20})
//	f.DispatchEvent(event.RedrawRequested{}) // drain, layout, render, present
package core

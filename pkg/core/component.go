package core

import (
	"github.com/go-drift/fibre/pkg/event"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
)

// Component is a drawable, interactive unit mounted on one node.
type Component interface {
	// Mount is called once, after the component's node was created and
	// before the component is registered. The handle expires on return.
	Mount(h *NodeHandle)
	// Unmount is called once, before the component's node is removed.
	Unmount()
	// Draw paints the component. box is the node's freshly computed layout
	// with an absolute position.
	Draw(canvas graphics.Canvas, box layout.Layout)
	// HandleEvent receives every event dispatched to the tree.
	HandleEvent(ev event.Event)
}

// ComponentBase implements Component with no-ops. Embed it to override
// only the hooks a component needs.
type ComponentBase struct{}

func (ComponentBase) Mount(*NodeHandle) {}
func (ComponentBase) Unmount() {}
func (ComponentBase) Draw(graphics.Canvas, layout.Layout) {}
func (ComponentBase) HandleEvent(event.Event) {}

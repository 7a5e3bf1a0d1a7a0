package widgets

import (
	"github.com/go-drift/fibre/pkg/core"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
)

// Child pairs a component with the style of the node it is mounted on.
// A nil Component creates a bare layout node.
type Child struct {
	Component core.Component
	Style     layout.Style
}

// Panel paints a background and mounts its children below itself while it
// is being mounted, so the whole group appears in the same frame. Children
// added later go through Add.
type Panel struct {
	core.ComponentBase
	Color    graphics.Color
	Children []Child

	ch    core.Channel
	nodes []layout.NodeID
}

func (p *Panel) Mount(h *core.NodeHandle) {
	p.ch = h.Channel()
	for _, child := range p.Children {
		node, err := h.AppendChild(h.Node(), child.Component, child.Style)
		if err != nil {
			continue
		}
		p.nodes = append(p.nodes, node)
	}
}

func (p *Panel) Draw(c graphics.Canvas, l layout.Layout) {
	if p.Color.Alpha() > 0 {
		c.DrawRect(l.Rect(), graphics.Fill(p.Color))
	}
}

// Nodes returns the nodes of the children mounted with the panel.
func (p *Panel) Nodes() []layout.NodeID {
	return p.nodes
}

// Add queues c as the panel's last child. Before the panel is mounted it is
// a no-op; after the panel is retired the command is dropped.
func (p *Panel) Add(c core.Component, style layout.Style) {
	p.ch.AppendChild(c, style)
}

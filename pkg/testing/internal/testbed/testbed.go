// Package testbed holds small components used by the harness tests.
package testbed

import (
	"github.com/go-drift/fibre/pkg/core"
	"github.com/go-drift/fibre/pkg/event"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
)

// Swatch fills its box with Color and counts the events it receives.
type Swatch struct {
	core.ComponentBase
	Color  graphics.Color
	Events []event.Event
}

func (s *Swatch) Draw(c graphics.Canvas, l layout.Layout) {
	c.DrawRect(l.Rect(), graphics.Fill(s.Color))
}

func (s *Swatch) HandleEvent(ev event.Event) {
	s.Events = append(s.Events, ev)
}

// Child pairs a component with its style.
type Child struct {
	Component core.Component
	Style     layout.Style
}

// Spawner appends its children below itself while mounting.
type Spawner struct {
	core.ComponentBase
	Children []Child
	Nodes    []layout.NodeID
}

func (s *Spawner) Mount(h *core.NodeHandle) {
	for _, child := range s.Children {
		node, err := h.AppendChild(h.Node(), child.Component, child.Style)
		if err == nil {
			s.Nodes = append(s.Nodes, node)
		}
	}
}

// Expiring retires itself through its channel after the key Key arrives.
type Expiring struct {
	core.ComponentBase
	Key string
	ch  core.Channel
}

func (e *Expiring) Mount(h *core.NodeHandle) {
	e.ch = h.Channel()
}

func (e *Expiring) HandleEvent(ev event.Event) {
	if k, ok := ev.(event.KeyPressed); ok && k.Key == e.Key {
		e.ch.Retire()
	}
}

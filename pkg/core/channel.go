package core

import "github.com/go-drift/fibre/pkg/layout"

// Channel lets a component request mutations of its own node after Mount
// returned: from event handlers, timers, or state change callbacks. Every
// method enqueues a Command that is applied at the next drain. A Channel is
// a small value; copy it freely. Requests addressing a node that was retired
// in the meantime are dropped when applied, and requests made after the
// Fibre was closed are dropped immediately.
type Channel struct {
	node  layout.NodeID
	queue *Queue
}

// Node returns the identity the channel addresses.
func (ch Channel) Node() layout.NodeID {
	return ch.node
}

// Valid reports whether the channel is connected to an open queue. It says
// nothing about whether the node still exists.
func (ch Channel) Valid() bool {
	return ch.queue != nil && !ch.queue.Closed()
}

func (ch Channel) push(cmd Command) {
	if ch.queue == nil {
		return
	}
	ch.queue.Push(cmd)
}

// AppendChild requests c to be mounted as the last child of the channel's node.
func (ch Channel) AppendChild(c Component, style layout.Style) {
	ch.push(AppendChild{Parent: ch.node, Component: c, Style: style})
}

// AppendRoot requests c to be mounted as the last child of the root.
func (ch Channel) AppendRoot(c Component, style layout.Style) {
	ch.push(AppendRoot{Component: c, Style: style})
}

// UpdateStyle requests a new layout style for the channel's node.
func (ch Channel) UpdateStyle(style layout.Style) {
	ch.push(UpdateStyle{Node: ch.node, Style: style})
}

// Retire requests removal of the channel's node and its subtree.
func (ch Channel) Retire() {
	ch.push(Retire{Node: ch.node})
}

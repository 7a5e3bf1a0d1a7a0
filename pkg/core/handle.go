package core

import (
	"errors"

	"github.com/go-drift/fibre/pkg/layout"
)

var (
	// ErrHandleExpired is returned by a NodeHandle used after Mount returned.
	ErrHandleExpired = errors.New("core: node handle used outside of mount")
	// ErrMountDepthExceeded is returned when nested mounting through node
	// handles goes deeper than Options.MaxMountDepth.
	ErrMountDepthExceeded = errors.New("core: mount depth exceeded")
	// ErrRootNode is returned when restyling or retiring the root node,
	// which only the driver itself may change.
	ErrRootNode = errors.New("core: root node is owned by the driver")
	// ErrNodeNotFound is returned for an identity that no longer addresses a node.
	ErrNodeNotFound = layout.ErrNodeNotFound
)

// NodeHandle gives a component direct access to the tree while it is being
// mounted. Mutations through the handle take effect immediately, before Mount
// returns. The handle expires when Mount returns; keep a Channel instead.
type NodeHandle struct {
	f       *Fibre
	node    layout.NodeID
	depth   int
	expired bool
}

// Node returns the identity of the node being mounted.
func (h *NodeHandle) Node() layout.NodeID {
	return h.node
}

// Layout returns the last computed layout of the node, relative to its
// parent. A node mounted since the last frame has a zero layout.
func (h *NodeHandle) Layout() (layout.Layout, error) {
	if h.expired {
		return layout.Layout{}, ErrHandleExpired
	}
	l, ok := h.f.tree.LayoutOf(h.node)
	if !ok {
		return layout.Layout{}, ErrNodeNotFound
	}
	return l, nil
}

// Channel returns a channel addressing the node being mounted. Unlike the
// handle, the channel stays usable after Mount returns.
func (h *NodeHandle) Channel() Channel {
	return Channel{node: h.node, queue: h.f.queue}
}

// AppendChild mounts c as the last child of parent right away.
func (h *NodeHandle) AppendChild(parent layout.NodeID, c Component, style layout.Style) (layout.NodeID, error) {
	if h.expired {
		return layout.NoNode, ErrHandleExpired
	}
	return h.f.appendNode(parent, c, style, h.depth+1)
}

// AppendRoot mounts c as the last child of the root right away.
func (h *NodeHandle) AppendRoot(c Component, style layout.Style) (layout.NodeID, error) {
	if h.expired {
		return layout.NoNode, ErrHandleExpired
	}
	return h.f.appendNode(h.f.root, c, style, h.depth+1)
}

// UpdateStyle sets the style of node right away.
func (h *NodeHandle) UpdateStyle(node layout.NodeID, style layout.Style) error {
	if h.expired {
		return ErrHandleExpired
	}
	return h.f.updateStyle(node, style)
}

// Retire unmounts and removes node with its subtree right away. Retiring the
// node being mounted is allowed: the component is unmounted once Mount
// returns and never registered.
func (h *NodeHandle) Retire(node layout.NodeID) error {
	if h.expired {
		return ErrHandleExpired
	}
	return h.f.retire(node)
}

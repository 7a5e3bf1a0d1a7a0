package core

import (
	"fmt"

	"github.com/go-drift/fibre/pkg/errors"
	"github.com/go-drift/fibre/pkg/layout"
)

// FrameStats describes the command phase of one frame.
type FrameStats struct {
	// Frame is the sequence number of the frame, starting at 1.
	Frame uint64 `json:"frame"`
	// Applied counts commands that changed the tree.
	Applied int `json:"applied"`
	// Dropped counts commands that addressed a node which no longer exists.
	Dropped int `json:"dropped"`
	// Mounts and Unmounts count lifecycle hook calls, including nested
	// mounts through node handles.
	Mounts   int `json:"mounts"`
	Unmounts int `json:"unmounts"`
	// Passes is the number of batches taken from the queue.
	Passes int `json:"passes"`
	// Pending is the number of commands left queued for the next frame.
	Pending int `json:"pending"`
}

// Totals are lifetime lifecycle counters. Registry().Len() always equals
// Mounts - Unmounts.
type Totals struct {
	Mounts   int `json:"mounts"`
	Unmounts int `json:"unmounts"`
}

// Stats returns the statistics of the last DrainAndApply.
func (f *Fibre) Stats() FrameStats {
	return f.last
}

// Lifetime returns the lifecycle counters since New.
func (f *Fibre) Lifetime() Totals {
	return f.lifetime
}

func (f *Fibre) enter(p phase, op string) {
	if f.phase != phaseIdle {
		errors.Invariant(op, "entered %s phase while in %s phase", p, f.phase)
	}
	f.phase = p
}

func (f *Fibre) leave() {
	f.phase = phaseIdle
}

// DrainAndApply applies every queued command in FIFO order, including
// commands pushed while the drain is running, up to Options.MaxDrainPasses
// batches. Commands that address a missing node are dropped.
func (f *Fibre) DrainAndApply() FrameStats {
	f.enter(phaseCommand, "core.DrainAndApply")
	defer f.leave()

	f.frame++
	f.current = FrameStats{Frame: f.frame}
	for f.current.Passes < f.opts.MaxDrainPasses {
		batch := f.queue.Drain()
		if len(batch) == 0 {
			break
		}
		f.current.Passes++
		for _, cmd := range batch {
			f.apply(cmd)
		}
	}
	f.current.Pending = f.queue.Len()
	if f.current.Pending > 0 {
		f.log.Warn("drain pass limit reached, deferring commands",
			"passes", f.current.Passes, "pending", f.current.Pending)
	}
	f.last = f.current
	return f.last
}

func (f *Fibre) apply(cmd Command) {
	var err error
	switch c := cmd.(type) {
	case AppendRoot:
		_, err = f.appendNode(f.root, c.Component, c.Style, 0)
	case AppendChild:
		_, err = f.appendNode(c.Parent, c.Component, c.Style, 0)
	case UpdateStyle:
		err = f.updateStyle(c.Node, c.Style)
	case Retire:
		err = f.retire(c.Node)
	default:
		err = fmt.Errorf("unsupported command %T", cmd)
	}
	if err != nil {
		f.current.Dropped++
		f.log.Debug("command dropped", "cmd", cmd, "err", err)
		return
	}
	f.current.Applied++
}

// appendNode creates a node below parent and mounts c on it. Mount runs
// before the registry entry is inserted; a component that retires its own
// node while mounting is unmounted and never registered.
func (f *Fibre) appendNode(parent layout.NodeID, c Component, style layout.Style, depth int) (layout.NodeID, error) {
	if !f.tree.Contains(parent) {
		return layout.NoNode, fmt.Errorf("append to %s: %w", parent, ErrNodeNotFound)
	}
	if depth > f.opts.MaxMountDepth {
		return layout.NoNode, fmt.Errorf("append to %s at depth %d: %w", parent, depth, ErrMountDepthExceeded)
	}

	node := f.tree.NewLeaf(style)
	if err := f.tree.AddChild(parent, node); err != nil {
		errors.Invariant("core.appendNode", "attach new node %s to %s: %v", node, parent, err)
	}
	if c == nil {
		return node, nil
	}

	f.mount(c, &NodeHandle{f: f, node: node, depth: depth})

	if !f.tree.Contains(node) {
		f.unmount(c)
		return node, nil
	}
	if !f.registry.Insert(node, c) {
		errors.Invariant("core.appendNode", "node %s registered twice", node)
	}
	return node, nil
}

func (f *Fibre) mount(c Component, h *NodeHandle) {
	defer func() { h.expired = true }()
	f.current.Mounts++
	f.lifetime.Mounts++
	c.Mount(h)
}

func (f *Fibre) unmount(c Component) {
	f.current.Unmounts++
	f.lifetime.Unmounts++
	c.Unmount()
}

func (f *Fibre) updateStyle(node layout.NodeID, style layout.Style) error {
	if node == f.root {
		return fmt.Errorf("update style of %s: %w", node, ErrRootNode)
	}
	return f.tree.SetStyle(node, style)
}

// retire unmounts the component of node and of every descendant, in
// pre-order, before the layout subtree is removed in one call.
func (f *Fibre) retire(node layout.NodeID) error {
	if node == f.root {
		return fmt.Errorf("retire %s: %w", node, ErrRootNode)
	}
	if !f.tree.Contains(node) {
		return fmt.Errorf("retire %s: %w", node, ErrNodeNotFound)
	}

	for _, n := range append([]layout.NodeID{node}, f.tree.Descendants(node)...) {
		if c, ok := f.registry.Get(n); ok {
			f.unmount(c)
			f.registry.Remove(n)
		}
	}

	if err := f.tree.Remove(node); err != nil {
		errors.Invariant("core.retire", "remove %s after unmount: %v", node, err)
	}
	return nil
}

// Package layout owns the hierarchy of layout nodes behind the node tree.
//
// Tree is a single-owner arena of generation-tagged nodes. Each node mirrors
// a github.com/kjk/flex node that computes its box; the arena adds stable
// identities, ordered child lists, and subtree removal on top of the engine.
// The arena is not safe for concurrent use.
package layout

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/kjk/flex"

	"github.com/go-drift/fibre/pkg/graphics"
)

var (
	// ErrNodeNotFound is returned for an identity that does not address a live node.
	ErrNodeNotFound = errors.New("layout: node not found")
	// ErrHasParent is returned when adding a node that is already attached.
	ErrHasParent = errors.New("layout: node already has a parent")
	// ErrCycle is returned when adding a node below itself.
	ErrCycle = errors.New("layout: node would become its own ancestor")
)

type slot struct {
	gen      uint32
	live     bool
	node     *flex.Node
	style    Style
	parent   NodeID
	children []NodeID
}

// Tree is an arena of layout nodes.
type Tree struct {
	config *flex.Config
	slots  []slot
	free   []uint32
	live   int

	// Layout is recomputed only after a mutation or when the root or the
	// available space changes.
	dirty     bool
	lastRoot  NodeID
	lastSpace graphics.Size
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{
		config: flex.NewConfig(),
		// Slot 0 is never handed out so the zero NodeID stays invalid.
		slots: make([]slot, 1, 64),
		dirty: true,
	}
}

// NewLeaf creates a detached node with the given style.
func (t *Tree) NewLeaf(style Style) NodeID {
	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot{})
		index = uint32(len(t.slots) - 1)
	}

	s := &t.slots[index]
	s.gen++
	s.live = true
	s.node = flex.NewNodeWithConfig(t.config)
	s.style = style
	s.parent = NoNode
	s.children = s.children[:0]
	style.apply(s.node)

	t.live++
	t.dirty = true
	return NodeID{index: index, gen: s.gen}
}

func (t *Tree) get(id NodeID) *slot {
	if id.index == 0 || int(id.index) >= len(t.slots) {
		return nil
	}
	s := &t.slots[id.index]
	if !s.live || s.gen != id.gen {
		return nil
	}
	return s
}

// Contains reports whether id addresses a live node.
func (t *Tree) Contains(id NodeID) bool {
	return t.get(id) != nil
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	return t.live
}

// AddChild appends child as the last child of parent.
func (t *Tree) AddChild(parent, child NodeID) error {
	p := t.get(parent)
	c := t.get(child)
	if p == nil {
		return fmt.Errorf("add child to %s: %w", parent, ErrNodeNotFound)
	}
	if c == nil {
		return fmt.Errorf("add child %s: %w", child, ErrNodeNotFound)
	}
	if !c.parent.IsZero() {
		return fmt.Errorf("add child %s: %w", child, ErrHasParent)
	}
	for at := parent; !at.IsZero(); at = t.get(at).parent {
		if at == child {
			return fmt.Errorf("add child %s to %s: %w", child, parent, ErrCycle)
		}
	}

	p.node.InsertChild(c.node, len(p.children))
	p.children = append(p.children, child)
	c.parent = parent
	t.dirty = true
	return nil
}

// SetStyle replaces the style of a node.
func (t *Tree) SetStyle(id NodeID, style Style) error {
	s := t.get(id)
	if s == nil {
		return fmt.Errorf("set style of %s: %w", id, ErrNodeNotFound)
	}
	s.style = style
	style.apply(s.node)
	t.dirty = true
	return nil
}

// StyleOf returns the current style of a node.
func (t *Tree) StyleOf(id NodeID) (Style, bool) {
	s := t.get(id)
	if s == nil {
		return Style{}, false
	}
	return s.style, true
}

// Parent returns the parent of a node, or NoNode for a detached node or root.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	s := t.get(id)
	if s == nil {
		return NoNode, false
	}
	return s.parent, true
}

// Children returns a copy of the node's children in insertion order.
func (t *Tree) Children(id NodeID) []NodeID {
	s := t.get(id)
	if s == nil {
		return nil
	}
	return append([]NodeID(nil), s.children...)
}

// ChildCount returns the number of children of a node.
func (t *Tree) ChildCount(id NodeID) int {
	s := t.get(id)
	if s == nil {
		return 0
	}
	return len(s.children)
}

// Walk visits root and its descendants in pre-order, children in insertion
// order. Returning false from visit skips that node's children. The tree
// must not be mutated during the walk.
func (t *Tree) Walk(root NodeID, visit func(id NodeID, depth int) bool) {
	if t.get(root) == nil {
		return
	}
	type frame struct {
		id    NodeID
		depth int
	}
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(f.id, f.depth) {
			continue
		}
		children := t.get(f.id).children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], f.depth + 1})
		}
	}
}

// Descendants returns every node below id in pre-order, excluding id.
func (t *Tree) Descendants(id NodeID) []NodeID {
	var out []NodeID
	t.Walk(id, func(n NodeID, _ int) bool {
		if n != id {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Remove detaches a node from its parent and frees it with its whole subtree.
// Identities of removed nodes never become valid again.
func (t *Tree) Remove(id NodeID) error {
	s := t.get(id)
	if s == nil {
		return fmt.Errorf("remove %s: %w", id, ErrNodeNotFound)
	}
	if p := t.get(s.parent); p != nil {
		p.node.RemoveChild(s.node)
		for i, c := range p.children {
			if c == id {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}

	subtree := append(t.Descendants(id), id)
	for _, n := range subtree {
		ns := &t.slots[n.index]
		ns.live = false
		ns.node = nil
		ns.parent = NoNode
		ns.children = ns.children[:0]
		ns.style = Style{}
		t.free = append(t.free, n.index)
		t.live--
	}
	t.dirty = true
	return nil
}

// ComputeLayout lays out the subtree at root within the available space.
// A non-positive or NaN extent leaves that axis unconstrained.
func (t *Tree) ComputeLayout(root NodeID, space graphics.Size) (err error) {
	s := t.get(root)
	if s == nil {
		return fmt.Errorf("compute layout from %s: %w", root, ErrNodeNotFound)
	}
	if !t.dirty && root == t.lastRoot && space == t.lastSpace {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("compute layout from %s: engine panic: %v", root, r)
		}
	}()
	flex.CalculateLayout(s.node, available(space.Width), available(space.Height), flex.DirectionLTR)

	t.dirty = false
	t.lastRoot = root
	t.lastSpace = space
	return nil
}

func available(v float64) float32 {
	f := float32(v)
	if math32.IsNaN(f) || f <= 0 {
		return flex.Undefined
	}
	return f
}

// LayoutOf returns the last computed layout of a node, relative to its parent.
func (t *Tree) LayoutOf(id NodeID) (Layout, bool) {
	s := t.get(id)
	if s == nil {
		return Layout{}, false
	}
	n := s.node
	return Layout{
		Position: graphics.Offset{X: finite(n.LayoutGetLeft()), Y: finite(n.LayoutGetTop())},
		Size:     graphics.Size{Width: finite(n.LayoutGetWidth()), Height: finite(n.LayoutGetHeight())},
	}, true
}

// NeedsLayout reports whether a mutation happened since the last ComputeLayout.
func (t *Tree) NeedsLayout() bool {
	return t.dirty
}

func finite(v float32) float64 {
	if math32.IsNaN(v) || math32.IsInf(v, 0) {
		return 0
	}
	return float64(v)
}

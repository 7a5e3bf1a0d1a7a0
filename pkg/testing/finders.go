package testing

import (
	"fmt"
	"reflect"

	"github.com/go-drift/fibre/pkg/core"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
)

// Found is a registered component with its node and absolute layout from
// the last computed frame.
type Found struct {
	Node      layout.NodeID
	Component core.Component
	Rect      graphics.Rect
	Depth     int
}

// Finder locates components in a Fibre.
type Finder interface {
	// Match reports whether a component belongs in the result.
	Match(found Found) bool
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	found  []Found
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() Found {
	if len(r.found) == 0 {
		panic(fmt.Sprintf("Finder found no components: %s", r.describe()))
	}
	return r.found[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) Found {
	if index < 0 || index >= len(r.found) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.found), r.describe()))
	}
	return r.found[index]
}

// All returns all matches in pre-order.
func (r FinderResult) All() []Found {
	return r.found
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.found)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.found) > 0
}

// Nodes returns the node identities of all matches.
func (r FinderResult) Nodes() []layout.NodeID {
	nodes := make([]layout.NodeID, len(r.found))
	for i, f := range r.found {
		nodes[i] = f.Node
	}
	return nodes
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// Find returns every registered component matching finder, in pre-order
// with children in insertion order.
func (t *Tester) Find(finder Finder) FinderResult {
	return FinderResult{found: Collect(t.fibre, finder.Match), finder: finder}
}

// Collect walks f's tree from the root and returns the registered
// components accepted by match, with absolute layouts.
func Collect(f *core.Fibre, match func(Found) bool) []Found {
	tree := f.Tree()
	registry := f.Registry()
	var out []Found
	origins := make([]graphics.Offset, 0, 16)
	tree.Walk(f.Root(), func(node layout.NodeID, depth int) bool {
		box, _ := tree.LayoutOf(node)
		if depth > 0 {
			box = box.Translate(origins[depth-1])
		}
		origins = append(origins[:depth], box.Position)
		if c, ok := registry.Get(node); ok {
			found := Found{Node: node, Component: c, Rect: box.Rect(), Depth: depth}
			if match == nil || match(found) {
				out = append(out, found)
			}
		}
		return true
	})
	return out
}

type typeFinder struct {
	typ reflect.Type
}

// ByType matches components whose dynamic type is T.
func ByType[T core.Component]() Finder {
	return typeFinder{typ: reflect.TypeFor[T]()}
}

func (f typeFinder) Match(found Found) bool {
	return reflect.TypeOf(found.Component) == f.typ
}

func (f typeFinder) Description() string {
	return fmt.Sprintf("type %s", f.typ)
}

type nodeFinder struct {
	node layout.NodeID
}

// ByNode matches the component on node.
func ByNode(node layout.NodeID) Finder {
	return nodeFinder{node: node}
}

func (f nodeFinder) Match(found Found) bool {
	return found.Node == f.node
}

func (f nodeFinder) Description() string {
	return fmt.Sprintf("node %s", f.node)
}

type componentFinder struct {
	component core.Component
}

// ByComponent matches the given component instance.
func ByComponent(c core.Component) Finder {
	return componentFinder{component: c}
}

func (f componentFinder) Match(found Found) bool {
	return found.Component == f.component
}

func (f componentFinder) Description() string {
	return fmt.Sprintf("component %T %p", f.component, f.component)
}

type predicateFinder struct {
	fn          func(Found) bool
	description string
}

// ByPredicate matches components accepted by fn.
func ByPredicate(description string, fn func(Found) bool) Finder {
	return predicateFinder{fn: fn, description: description}
}

func (f predicateFinder) Match(found Found) bool {
	return f.fn(found)
}

func (f predicateFinder) Description() string {
	return f.description
}

type atFinder struct {
	pos graphics.Offset
}

// At matches components whose absolute rect contains pos, outermost first.
func At(pos graphics.Offset) Finder {
	return atFinder{pos: pos}
}

func (f atFinder) Match(found Found) bool {
	return found.Rect.Contains(f.pos)
}

func (f atFinder) Description() string {
	return fmt.Sprintf("at (%g, %g)", f.pos.X, f.pos.Y)
}

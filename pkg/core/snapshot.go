package core

import (
	"fmt"

	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
)

// NodeInfo describes one node for debugging.
type NodeInfo struct {
	ID        string        `json:"id"`
	Component string        `json:"component,omitempty"`
	Layout    graphics.Rect `json:"layout"`
	Children  []NodeInfo    `json:"children,omitempty"`
}

// Snapshot returns the node tree from the root with each node's last
// computed layout, relative to its parent.
func (f *Fibre) Snapshot() NodeInfo {
	return f.describe(f.root)
}

func (f *Fibre) describe(node layout.NodeID) NodeInfo {
	info := NodeInfo{ID: node.String()}
	if c, ok := f.registry.Get(node); ok {
		info.Component = fmt.Sprintf("%T", c)
	}
	if l, ok := f.tree.LayoutOf(node); ok {
		info.Layout = l.Rect()
	}
	for _, child := range f.tree.Children(node) {
		info.Children = append(info.Children, f.describe(child))
	}
	return info
}

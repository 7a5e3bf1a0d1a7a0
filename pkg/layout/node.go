package layout

import (
	"fmt"

	"github.com/go-drift/fibre/pkg/graphics"
)

// NodeID identifies one node of a Tree. It is minted by Tree.NewLeaf and is
// never valid for a different node: slots are recycled only with a new
// generation, so an identity that outlives its node stays dangling forever.
type NodeID struct {
	index uint32
	gen   uint32
}

// NoNode is the zero NodeID. It never addresses a node.
var NoNode NodeID

// IsZero reports whether id is NoNode.
func (id NodeID) IsZero() bool {
	return id == NoNode
}

func (id NodeID) String() string {
	if id.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%dv%d", id.index, id.gen)
}

// Layout is the computed box of a node.
type Layout struct {
	// Position is the top-left corner. Tree.LayoutOf reports it relative to
	// the parent's box; the render walk hands components absolute positions.
	Position graphics.Offset
	Size     graphics.Size
}

// Rect returns the layout box as a rectangle.
func (l Layout) Rect() graphics.Rect {
	return graphics.RectFromOriginSize(l.Position, l.Size)
}

// Translate returns the layout moved by origin.
func (l Layout) Translate(origin graphics.Offset) Layout {
	return Layout{Position: l.Position.Add(origin), Size: l.Size}
}

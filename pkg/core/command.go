package core

import (
	"fmt"

	"github.com/go-drift/fibre/pkg/layout"
)

// Command is a structural mutation request. Commands are applied by the
// Fibre in the order they were pushed.
type Command interface {
	fmt.Stringer
	isCommand()
}

// AppendRoot inserts Component as the last child of the root node.
type AppendRoot struct {
	Component Component
	Style     layout.Style
}

// AppendChild inserts Component as the last child of Parent.
type AppendChild struct {
	Parent    layout.NodeID
	Component Component
	Style     layout.Style
}

// UpdateStyle replaces the layout style of Node.
type UpdateStyle struct {
	Node  layout.NodeID
	Style layout.Style
}

// Retire unmounts and removes Node with its whole subtree.
type Retire struct {
	Node layout.NodeID
}

func (AppendRoot) isCommand() {}
func (AppendChild) isCommand() {}
func (UpdateStyle) isCommand() {}
func (Retire) isCommand() {}

func (c AppendRoot) String() string { return "appendRoot(" + componentName(c.Component) + ")" }
func (c AppendChild) String() string {
	return fmt.Sprintf("appendChild(%s, %s)", c.Parent, componentName(c.Component))
}
func (c UpdateStyle) String() string { return "updateStyle(" + c.Node.String() + ")" }
func (c Retire) String() string { return "retire(" + c.Node.String() + ")" }

func componentName(c Component) string {
	if c == nil {
		return "<container>"
	}
	return fmt.Sprintf("%T", c)
}

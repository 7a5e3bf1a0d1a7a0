package layout

import (
	"github.com/chewxy/math32"
	"github.com/kjk/flex"
)

// Unit says how a Dimension's value is interpreted.
type Unit int

const (
	// UnitAuto lets the layout engine decide. It is the zero value.
	UnitAuto Unit = iota
	// UnitPoints is an absolute length in logical pixels.
	UnitPoints
)

// Dimension is a length that may be left to the layout engine.
type Dimension struct {
	Value float32
	Unit  Unit
}

// Auto returns an automatic dimension.
func Auto() Dimension { return Dimension{} }

// Points returns a fixed dimension.
func Points(v float32) Dimension { return Dimension{Value: v, Unit: UnitPoints} }

func (d Dimension) resolve() float32 {
	if d.Unit == UnitPoints && !math32.IsNaN(d.Value) {
		return d.Value
	}
	return flex.Undefined
}

// FlexDirection is the main axis of a container.
type FlexDirection int

const (
	Column FlexDirection = iota
	Row
	ColumnReverse
	RowReverse
)

// Justify distributes children along the main axis.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
	JustifySpaceAround
)

// Align positions children along the cross axis.
type Align int

const (
	AlignStretch Align = iota
	AlignStart
	AlignCenter
	AlignEnd
)

// PositionType selects normal flow or absolute placement within the parent.
type PositionType int

const (
	Relative PositionType = iota
	Absolute
)

// Edges holds per-side values in logical pixels.
type Edges struct {
	Left, Top, Right, Bottom float32
}

// All returns uniform edges.
func All(v float32) Edges {
	return Edges{Left: v, Top: v, Right: v, Bottom: v}
}

// Symmetric returns edges with equal horizontal and equal vertical values.
func Symmetric(horizontal, vertical float32) Edges {
	return Edges{Left: horizontal, Top: vertical, Right: horizontal, Bottom: vertical}
}

// Style is the box model of a node. The zero value is an auto-sized column
// container whose children stretch across it.
type Style struct {
	Width, Height       Dimension
	MinWidth, MinHeight Dimension
	MaxWidth, MaxHeight Dimension

	Direction FlexDirection
	Justify   Justify
	Align     Align
	Grow      float32
	Shrink    float32

	Padding Edges
	Margin  Edges

	Position PositionType
	// Inset is used only with Absolute positioning.
	Inset Edges
}

// RootStyle is the style of the tree root for a window of the given size.
func RootStyle(width, height float32) Style {
	return Style{Width: Points(width), Height: Points(height)}
}

// Sized returns a style with fixed width and height.
func Sized(width, height float32) Style {
	return Style{Width: Points(width), Height: Points(height)}
}

func (s Style) apply(n *flex.Node) {
	n.StyleSetWidth(s.Width.resolve())
	n.StyleSetHeight(s.Height.resolve())
	n.StyleSetMinWidth(s.MinWidth.resolve())
	n.StyleSetMinHeight(s.MinHeight.resolve())
	n.StyleSetMaxWidth(s.MaxWidth.resolve())
	n.StyleSetMaxHeight(s.MaxHeight.resolve())

	n.StyleSetFlexDirection(s.Direction.flex())
	n.StyleSetJustifyContent(s.Justify.flex())
	n.StyleSetAlignItems(s.Align.flex())
	n.StyleSetFlexGrow(math32.Max(s.Grow, 0))
	n.StyleSetFlexShrink(math32.Max(s.Shrink, 0))

	setEdges(n.StyleSetPadding, s.Padding)
	setEdges(n.StyleSetMargin, s.Margin)

	// Insets left on a relative node would shift it, so they are cleared.
	if s.Position == Absolute {
		n.StyleSetPositionType(flex.PositionTypeAbsolute)
		setEdges(n.StyleSetPosition, s.Inset)
	} else {
		n.StyleSetPositionType(flex.PositionTypeRelative)
		setEdges(n.StyleSetPosition, undefinedEdges)
	}
}

var undefinedEdges = Edges{Left: flex.Undefined, Top: flex.Undefined, Right: flex.Undefined, Bottom: flex.Undefined}

func setEdges(set func(flex.Edge, float32), e Edges) {
	set(flex.EdgeLeft, e.Left)
	set(flex.EdgeTop, e.Top)
	set(flex.EdgeRight, e.Right)
	set(flex.EdgeBottom, e.Bottom)
}

func (d FlexDirection) flex() flex.FlexDirection {
	switch d {
	case Row:
		return flex.FlexDirectionRow
	case ColumnReverse:
		return flex.FlexDirectionColumnReverse
	case RowReverse:
		return flex.FlexDirectionRowReverse
	default:
		return flex.FlexDirectionColumn
	}
}

func (j Justify) flex() flex.Justify {
	switch j {
	case JustifyCenter:
		return flex.JustifyCenter
	case JustifyEnd:
		return flex.JustifyFlexEnd
	case JustifySpaceBetween:
		return flex.JustifySpaceBetween
	case JustifySpaceAround:
		return flex.JustifySpaceAround
	default:
		return flex.JustifyFlexStart
	}
}

func (a Align) flex() flex.Align {
	switch a {
	case AlignStart:
		return flex.AlignFlexStart
	case AlignCenter:
		return flex.AlignCenter
	case AlignEnd:
		return flex.AlignFlexEnd
	default:
		return flex.AlignStretch
	}
}

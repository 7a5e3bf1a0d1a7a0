package widgets

import (
	"github.com/go-drift/fibre/pkg/core"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
)

// Box fills its layout with Color and optionally outlines it.
//
// A zero Color draws no fill and a zero BorderWidth draws no border, so a
// zero Box is invisible but still takes part in layout.
type Box struct {
	core.ComponentBase
	// Color is the fill color.
	Color graphics.Color
	// BorderColor is the outline color.
	BorderColor graphics.Color
	// BorderWidth is the outline thickness, drawn inside the box.
	BorderWidth float64
}

func (b *Box) Draw(c graphics.Canvas, l layout.Layout) {
	rect := l.Rect()
	if b.Color.Alpha() > 0 {
		c.DrawRect(rect, graphics.Fill(b.Color))
	}
	if b.BorderWidth > 0 && b.BorderColor.Alpha() > 0 {
		c.DrawRect(rect.Deflate(b.BorderWidth/2), graphics.Stroke(b.BorderColor, b.BorderWidth))
	}
}

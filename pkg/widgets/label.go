package widgets

import (
	"github.com/go-drift/fibre/pkg/core"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
)

// DefaultFontSize is used when a TextStyle leaves FontSize at zero.
const DefaultFontSize = 14

// Label draws a single line of text at the top-left of its layout, clipped
// to the layout.
type Label struct {
	core.ComponentBase
	Text  string
	Style graphics.TextStyle
	// Inset moves the text in from the top-left corner.
	Inset float64
}

func (l *Label) Draw(c graphics.Canvas, box layout.Layout) {
	if l.Text == "" {
		return
	}
	style := textStyle(l.Style)
	rect := box.Rect()
	c.ClipRect(rect)
	c.DrawText(l.Text, baseline(rect, l.Inset, style.FontSize), style)
}

func textStyle(s graphics.TextStyle) graphics.TextStyle {
	if s.FontSize <= 0 {
		s.FontSize = DefaultFontSize
	}
	if s.Color == 0 {
		s.Color = graphics.ColorWhite
	}
	return s
}

// baseline returns the text origin for a line whose top sits inset below
// the top of rect.
func baseline(rect graphics.Rect, inset, fontSize float64) graphics.Offset {
	return graphics.Offset{X: rect.Left + inset, Y: rect.Top + inset + fontSize}
}

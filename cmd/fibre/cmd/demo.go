package cmd

import (
	"time"

	"github.com/go-drift/fibre/pkg/core"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
	"github.com/go-drift/fibre/pkg/widgets"
)

var (
	panelColor  = graphics.RGB(0x20, 0x24, 0x2c)
	toastColor  = graphics.RGB(0x3a, 0x5f, 0xcd)
	mutedText   = graphics.RGB(0xb0, 0xb8, 0xc4)
	swatchColor = []graphics.Color{
		graphics.RGB(0xe0, 0x6c, 0x75),
		graphics.RGB(0x98, 0xc3, 0x79),
		graphics.RGB(0x61, 0xaf, 0xef),
		graphics.RGB(0xe5, 0xc0, 0x7b),
	}
)

// demo is the tree every host command runs: a panel with a title, a key
// driven counter and a row of swatches, a label following the pointer,
// and a toast that retires itself.
type demo struct {
	panel   *widgets.Panel
	counter *widgets.Counter
	cursor  *widgets.CursorLabel
	toast   *widgets.Toast
}

// mountDemo queues the demo tree under the root of f. State changes call
// redraw. The toast is placed above the bottom edge of the initial size.
func mountDemo(f *core.Fibre, title string, redraw func(), clock widgets.Clock) *demo {
	d := &demo{
		counter: widgets.NewCounter("count", 0, redraw),
		cursor:  widgets.NewCursorLabel("Skia", graphics.TextStyle{Color: graphics.ColorWhite, FontSize: 50}, redraw),
	}
	d.counter.Style = graphics.TextStyle{Color: mutedText}

	swatches := &widgets.Panel{}
	for _, c := range swatchColor {
		swatches.Children = append(swatches.Children, widgets.Child{
			Component: &widgets.Box{Color: c, BorderColor: graphics.ColorWhite, BorderWidth: 1},
			Style:     layout.Style{Width: layout.Points(40), Height: layout.Points(40), Margin: layout.Edges{Right: 8}},
		})
	}

	d.panel = &widgets.Panel{
		Color: panelColor,
		Children: []widgets.Child{
			{Component: &widgets.Label{Text: title, Style: graphics.TextStyle{FontSize: 20}}, Style: layout.Style{Height: layout.Points(28)}},
			{Component: d.counter, Style: layout.Style{Height: layout.Points(24)}},
			{Component: swatches, Style: layout.Style{Direction: layout.Row, Height: layout.Points(40), Margin: layout.Edges{Top: 8}}},
		},
	}
	d.toast = &widgets.Toast{
		Message:    "+/- to count, esc to dismiss",
		Duration:   5 * time.Second,
		Background: toastColor,
		Clock:      clock,
	}

	f.Append(d.panel, layout.Style{Grow: 1, Padding: layout.All(12)})
	f.Append(d.toast, layout.Style{
		Position: layout.Absolute,
		Inset:    layout.Edges{Left: 12, Top: float32(f.Size().Height) - 36},
		Width:    layout.Points(240),
		Height:   layout.Points(24),
	})
	f.Append(d.cursor, layout.Style{Position: layout.Absolute})
	return d
}

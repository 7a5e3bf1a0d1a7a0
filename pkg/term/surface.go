// Package term hosts a node tree in a terminal. Surface rasterizes drawing
// commands into a grid of character cells, and Run drives a bubbletea
// program that feeds keyboard, mouse and resize input to the tree and
// displays every presented frame.
package term

import (
	"strings"
	"sync"

	"github.com/chewxy/math32"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/fibre/pkg/graphics"
)

type cell struct {
	ch rune
	fg graphics.Color
	bg graphics.Color
}

// Surface is a graphics.Surface drawing into terminal cells. Each cell
// covers CellWidth x CellHeight logical pixels, so a tree laid out for a
// pixel window renders at a coarser resolution without changes.
type Surface struct {
	mu        sync.Mutex
	cols      int
	rows      int
	cellW     float64
	cellH     float64
	grid      []cell
	canvas    *canvas
	view      string
	onPresent func(view string)
}

// NewSurface creates a surface of cols x rows cells, each cellW x cellH
// logical pixels. Non-positive cell sizes default to 1.
func NewSurface(cols, rows int, cellW, cellH float64) *Surface {
	if cellW <= 0 {
		cellW = 1
	}
	if cellH <= 0 {
		cellH = 1
	}
	s := &Surface{cellW: cellW, cellH: cellH}
	s.allocate(cols, rows)
	return s
}

func (s *Surface) allocate(cols, rows int) {
	s.cols = max(cols, 0)
	s.rows = max(rows, 0)
	s.grid = make([]cell, s.cols*s.rows)
	s.canvas = &canvas{s: s}
	s.canvas.reset()
}

// CellSize returns the logical size of one cell.
func (s *Surface) CellSize() graphics.Size {
	return graphics.Size{Width: s.cellW, Height: s.cellH}
}

// LogicalSize returns the size of the grid in logical pixels.
func (s *Surface) LogicalSize() graphics.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return graphics.Size{Width: float64(s.cols) * s.cellW, Height: float64(s.rows) * s.cellH}
}

// SetOnPresent installs a callback receiving every presented frame.
func (s *Surface) SetOnPresent(fn func(view string)) {
	s.mu.Lock()
	s.onPresent = fn
	s.mu.Unlock()
}

// Canvas returns the canvas for the next frame.
func (s *Surface) Canvas() graphics.Canvas {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas
}

// Resize reallocates the grid for a window of the given logical size.
func (s *Surface) Resize(width, height float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allocate(int(width/s.cellW), int(height/s.cellH))
	return nil
}

// Present styles the grid with lipgloss and publishes it.
func (s *Surface) Present() error {
	s.mu.Lock()
	lines := make([]string, s.rows)
	for row := range s.rows {
		lines[row] = s.styledRow(row)
	}
	s.view = lipgloss.JoinVertical(lipgloss.Left, lines...)
	s.canvas.reset()
	view, notify := s.view, s.onPresent
	s.mu.Unlock()

	if notify != nil {
		notify(view)
	}
	return nil
}

// styledRow renders one row, merging runs of cells that share colors.
func (s *Surface) styledRow(row int) string {
	var sb strings.Builder
	cells := s.grid[row*s.cols : (row+1)*s.cols]
	for start := 0; start < len(cells); {
		end := start + 1
		for end < len(cells) && cells[end].fg == cells[start].fg && cells[end].bg == cells[start].bg {
			end++
		}
		var run strings.Builder
		for _, c := range cells[start:end] {
			run.WriteRune(c.glyph())
		}
		sb.WriteString(styleFor(cells[start]).Render(run.String()))
		start = end
	}
	return sb.String()
}

func styleFor(c cell) lipgloss.Style {
	st := lipgloss.NewStyle()
	if c.fg.Alpha() > 0 {
		st = st.Foreground(lipgloss.Color(c.fg.Hex()))
	}
	if c.bg.Alpha() > 0 {
		st = st.Background(lipgloss.Color(c.bg.Hex()))
	}
	return st
}

func (c cell) glyph() rune {
	if c.ch == 0 {
		return ' '
	}
	return c.ch
}

// View returns the last presented frame with styling.
func (s *Surface) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Text returns the current grid contents without styling, one line per row.
func (s *Surface) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]string, s.rows)
	for row := range s.rows {
		var sb strings.Builder
		for _, c := range s.grid[row*s.cols : (row+1)*s.cols] {
			sb.WriteRune(c.glyph())
		}
		lines[row] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// Background returns the background color of a cell.
func (s *Surface) Background(col, row int) graphics.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return graphics.ColorTransparent
	}
	return s.grid[row*s.cols+col].bg
}

type cellState struct {
	origin graphics.Offset
	// clip in cells, half open.
	x0, y0, x1, y1 int
}

// canvas draws into the grid. Callers hold no lock: a frame is drawn by one
// goroutine between Canvas and Present.
type canvas struct {
	s     *Surface
	state cellState
	stack []cellState
}

func (c *canvas) reset() {
	c.state = cellState{x1: c.s.cols, y1: c.s.rows}
	c.stack = c.stack[:0]
}

func (c *canvas) Save() {
	c.stack = append(c.stack, c.state)
}

func (c *canvas) Restore() {
	if n := len(c.stack); n > 0 {
		c.state = c.stack[n-1]
		c.stack = c.stack[:n-1]
	}
}

func (c *canvas) Translate(dx, dy float64) {
	c.state.origin = c.state.origin.Add(graphics.Offset{X: dx, Y: dy})
}

func (c *canvas) ClipRect(rect graphics.Rect) {
	x0, y0, x1, y1 := c.cells(rect)
	c.state.x0 = max(c.state.x0, x0)
	c.state.y0 = max(c.state.y0, y0)
	c.state.x1 = min(c.state.x1, x1)
	c.state.y1 = min(c.state.y1, y1)
}

// cells returns the half-open cell range whose centres lie in rect.
func (c *canvas) cells(rect graphics.Rect) (x0, y0, x1, y1 int) {
	r := rect.Translate(c.state.origin.X, c.state.origin.Y)
	cw, ch := float32(c.s.cellW), float32(c.s.cellH)
	x0 = int(math32.Ceil(float32(r.Left)/cw - 0.5))
	y0 = int(math32.Ceil(float32(r.Top)/ch - 0.5))
	x1 = int(math32.Ceil(float32(r.Right)/cw - 0.5))
	y1 = int(math32.Ceil(float32(r.Bottom)/ch - 0.5))
	return
}

func (c *canvas) at(col, row int) *cell {
	st := c.state
	if col < st.x0 || col >= st.x1 || row < st.y0 || row >= st.y1 {
		return nil
	}
	return &c.s.grid[row*c.s.cols+col]
}

func (c *canvas) Clear(color graphics.Color) {
	for i := range c.s.grid {
		c.s.grid[i] = cell{bg: color}
	}
}

func (c *canvas) DrawRect(rect graphics.Rect, paint graphics.Paint) {
	x0, y0, x1, y1 := c.cells(rect)
	for row := y0; row < y1; row++ {
		for col := x0; col < x1; col++ {
			edge := row == y0 || row == y1-1 || col == x0 || col == x1-1
			if paint.Style == graphics.PaintStyleStroke && !edge {
				continue
			}
			if p := c.at(col, row); p != nil {
				p.bg = paint.Color
			}
		}
	}
}

func (c *canvas) DrawCircle(center graphics.Offset, radius float64, paint graphics.Paint) {
	bounds := graphics.Rect{
		Left: center.X - radius, Top: center.Y - radius,
		Right: center.X + radius, Bottom: center.Y + radius,
	}
	x0, y0, x1, y1 := c.cells(bounds)
	ctr := center.Add(c.state.origin)
	inner := radius - max(paint.StrokeWidth, c.s.cellW)
	for row := y0; row < y1; row++ {
		for col := x0; col < x1; col++ {
			px := (float64(col) + 0.5) * c.s.cellW
			py := (float64(row) + 0.5) * c.s.cellH
			d := float64(math32.Hypot(float32(px-ctr.X), float32(py-ctr.Y)))
			if d > radius || (paint.Style == graphics.PaintStyleStroke && d < inner) {
				continue
			}
			if p := c.at(col, row); p != nil {
				p.bg = paint.Color
			}
		}
	}
}

func (c *canvas) DrawLine(start, end graphics.Offset, paint graphics.Paint) {
	a := start.Add(c.state.origin)
	b := end.Add(c.state.origin)
	steps := int(math32.Ceil(math32.Max(
		math32.Abs(float32((b.X-a.X)/c.s.cellW)),
		math32.Abs(float32((b.Y-a.Y)/c.s.cellH)),
	)))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		x := a.X + (b.X-a.X)*t
		y := a.Y + (b.Y-a.Y)*t
		if p := c.at(int(x/c.s.cellW), int(y/c.s.cellH)); p != nil {
			p.bg = paint.Color
		}
	}
}

// DrawText writes one rune per cell on the row containing the baseline.
func (c *canvas) DrawText(text string, position graphics.Offset, style graphics.TextStyle) {
	p := position.Add(c.state.origin)
	row := int(math32.Ceil(float32(p.Y/c.s.cellH)) - 1)
	col := int(math32.Floor(float32(p.X / c.s.cellW)))
	for _, r := range text {
		if cl := c.at(col, row); cl != nil {
			cl.ch = r
			cl.fg = style.Color
		}
		col++
	}
}

func (c *canvas) Size() graphics.Size {
	return graphics.Size{Width: float64(c.s.cols) * c.s.cellW, Height: float64(c.s.rows) * c.s.cellH}
}

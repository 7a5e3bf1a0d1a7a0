// Package raster is a software drawing backend that renders frames into an
// *image.RGBA with golang.org/x/image. Shapes are anti-aliased by the
// vector rasterizer; text uses the fixed 7x13 bitmap face regardless of the
// requested font size.
package raster

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/chewxy/math32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/go-drift/fibre/pkg/graphics"
)

// Sink receives every presented frame. The image is reused for the next
// frame; sinks that keep it must copy it.
type Sink func(frame uint64, img *image.RGBA) error

// Surface is a graphics.Surface backed by an RGBA image.
type Surface struct {
	mu     sync.Mutex
	img    *image.RGBA
	size   graphics.Size
	canvas *canvas
	sink   Sink
	frames uint64
}

// New creates a surface of the given logical size. Present hands each frame
// to sink, which may be nil.
func New(width, height float64, sink Sink) (*Surface, error) {
	img, err := allocate(width, height)
	if err != nil {
		return nil, err
	}
	s := &Surface{img: img, size: graphics.Size{Width: width, Height: height}, sink: sink}
	s.canvas = newCanvas(s.img, s.size)
	return s, nil
}

func allocate(width, height float64) (*image.RGBA, error) {
	w := int(math32.Ceil(float32(width)))
	h := int(math32.Ceil(float32(height)))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("raster: invalid surface size %gx%g", width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

// Canvas returns the canvas for the next frame.
func (s *Surface) Canvas() graphics.Canvas {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas
}

// Resize reallocates the image. The previous contents are dropped.
func (s *Surface) Resize(width, height float64) error {
	img, err := allocate(width, height)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = img
	s.size = graphics.Size{Width: width, Height: height}
	s.canvas = newCanvas(s.img, s.size)
	return nil
}

// Present hands the frame to the sink and resets the canvas state.
func (s *Surface) Present() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
	s.canvas.reset()
	if s.sink == nil {
		return nil
	}
	return s.sink(s.frames, s.img)
}

// Frames returns the number of presented frames.
func (s *Surface) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Snapshot returns a copy of the current image.
func (s *Surface) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := image.NewRGBA(s.img.Bounds())
	draw.Draw(out, out.Bounds(), s.img, image.Point{}, draw.Src)
	return out
}

type canvasState struct {
	origin graphics.Offset
	clip   image.Rectangle
}

// canvas draws into the surface image. It is only used from the goroutine
// running the frame.
type canvas struct {
	img   *image.RGBA
	size  graphics.Size
	state canvasState
	stack []canvasState
	z     vector.Rasterizer
}

func newCanvas(img *image.RGBA, size graphics.Size) *canvas {
	c := &canvas{img: img, size: size}
	c.reset()
	return c
}

func (c *canvas) reset() {
	c.state = canvasState{clip: c.img.Bounds()}
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
	r := rect.Translate(c.state.origin.X, c.state.origin.Y)
	px := image.Rect(
		int(math32.Floor(float32(r.Left))), int(math32.Floor(float32(r.Top))),
		int(math32.Ceil(float32(r.Right))), int(math32.Ceil(float32(r.Bottom))),
	)
	c.state.clip = c.state.clip.Intersect(px)
}

func (c *canvas) Clear(col graphics.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col.NRGBA()), image.Point{}, draw.Src)
}

func (c *canvas) DrawRect(rect graphics.Rect, paint graphics.Paint) {
	r := rect.Translate(c.state.origin.X, c.state.origin.Y)
	c.begin()
	if paint.Style == graphics.PaintStyleStroke {
		half := strokeWidth(paint) / 2
		outer := r.Deflate(-float64(half))
		inner := r.Deflate(float64(half))
		c.rectPath(outer, false)
		if !inner.IsEmpty() {
			c.rectPath(inner, true)
		}
	} else {
		c.rectPath(r, false)
	}
	c.fill(paint.Color)
}

func (c *canvas) DrawCircle(center graphics.Offset, radius float64, paint graphics.Paint) {
	ctr := center.Add(c.state.origin)
	c.begin()
	if paint.Style == graphics.PaintStyleStroke {
		half := float64(strokeWidth(paint) / 2)
		c.circlePath(ctr, radius+half, false)
		if radius > half {
			c.circlePath(ctr, radius-half, true)
		}
	} else {
		c.circlePath(ctr, radius, false)
	}
	c.fill(paint.Color)
}

func (c *canvas) DrawLine(start, end graphics.Offset, paint graphics.Paint) {
	a := start.Add(c.state.origin)
	b := end.Add(c.state.origin)
	dx, dy := float32(b.X-a.X), float32(b.Y-a.Y)
	length := math32.Hypot(dx, dy)
	if length == 0 {
		return
	}
	half := strokeWidth(paint) / 2
	// Unit normal scaled to half the stroke width.
	nx, ny := -dy/length*half, dx/length*half

	c.begin()
	x0, y0 := c.local(a)
	x1, y1 := c.local(b)
	c.z.MoveTo(x0+nx, y0+ny)
	c.z.LineTo(x1+nx, y1+ny)
	c.z.LineTo(x1-nx, y1-ny)
	c.z.LineTo(x0-nx, y0-ny)
	c.z.ClosePath()
	c.fill(paint.Color)
}

func (c *canvas) DrawText(text string, position graphics.Offset, style graphics.TextStyle) {
	if c.state.clip.Empty() || text == "" {
		return
	}
	p := position.Add(c.state.origin)
	d := font.Drawer{
		Dst:  c.img.SubImage(c.state.clip).(*image.RGBA),
		Src:  image.NewUniform(style.Color.NRGBA()),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(math32.Round(float32(p.X))), int(math32.Round(float32(p.Y)))),
	}
	d.DrawString(text)
}

func (c *canvas) Size() graphics.Size {
	return c.size
}

// begin prepares the rasterizer to cover the current clip.
func (c *canvas) begin() {
	c.z.Reset(c.state.clip.Dx(), c.state.clip.Dy())
}

func (c *canvas) fill(col graphics.Color) {
	if c.state.clip.Empty() {
		return
	}
	c.z.Draw(c.img, c.state.clip, image.NewUniform(col.NRGBA()), image.Point{})
}

// local converts an absolute point to rasterizer coordinates.
func (c *canvas) local(p graphics.Offset) (float32, float32) {
	return float32(p.X) - float32(c.state.clip.Min.X), float32(p.Y) - float32(c.state.clip.Min.Y)
}

// rectPath adds a closed rectangle. Reversed paths cut holes.
func (c *canvas) rectPath(r graphics.Rect, reverse bool) {
	l, t := c.local(graphics.Offset{X: r.Left, Y: r.Top})
	rr, b := c.local(graphics.Offset{X: r.Right, Y: r.Bottom})
	c.z.MoveTo(l, t)
	if reverse {
		c.z.LineTo(l, b)
		c.z.LineTo(rr, b)
		c.z.LineTo(rr, t)
	} else {
		c.z.LineTo(rr, t)
		c.z.LineTo(rr, b)
		c.z.LineTo(l, b)
	}
	c.z.ClosePath()
}

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

// circlePath adds a closed circle of four cubic arcs. Reversed paths cut holes.
func (c *canvas) circlePath(center graphics.Offset, radius float64, reverse bool) {
	cx, cy := c.local(center)
	r := float32(radius)
	k := r * kappa
	sign := float32(1)
	if reverse {
		sign = -1
	}
	c.z.MoveTo(cx+r, cy)
	c.z.CubeTo(cx+r, cy+sign*k, cx+k, cy+sign*r, cx, cy+sign*r)
	c.z.CubeTo(cx-k, cy+sign*r, cx-r, cy+sign*k, cx-r, cy)
	c.z.CubeTo(cx-r, cy-sign*k, cx-k, cy-sign*r, cx, cy-sign*r)
	c.z.CubeTo(cx+k, cy-sign*r, cx+r, cy-sign*k, cx+r, cy)
	c.z.ClosePath()
}

func strokeWidth(p graphics.Paint) float32 {
	return math32.Max(float32(p.StrokeWidth), 1)
}

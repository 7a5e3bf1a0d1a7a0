package testing

import (
	"fmt"
	"math"

	"github.com/go-drift/fibre/pkg/graphics"
)

// DisplayOp represents a serialized canvas drawing operation.
type DisplayOp struct {
	Op     string         `json:"op"`
	Params map[string]any `json:"params,omitempty"`
}

// serializingCanvas implements graphics.Canvas and records ops as DisplayOp.
type serializingCanvas struct {
	ops  []DisplayOp
	size graphics.Size
}

func (c *serializingCanvas) Save() {
	c.ops = append(c.ops, DisplayOp{Op: "save"})
}

func (c *serializingCanvas) Restore() {
	c.ops = append(c.ops, DisplayOp{Op: "restore"})
}

func (c *serializingCanvas) Translate(dx, dy float64) {
	c.ops = append(c.ops, DisplayOp{
		Op:     "translate",
		Params: params("dx", round2(dx), "dy", round2(dy)),
	})
}

func (c *serializingCanvas) ClipRect(rect graphics.Rect) {
	c.ops = append(c.ops, DisplayOp{
		Op:     "clipRect",
		Params: params("rect", serializeRect(rect)),
	})
}

func (c *serializingCanvas) Clear(color graphics.Color) {
	c.ops = append(c.ops, DisplayOp{
		Op:     "clear",
		Params: params("color", serializeColor(color)),
	})
}

func (c *serializingCanvas) DrawRect(rect graphics.Rect, paint graphics.Paint) {
	c.ops = append(c.ops, DisplayOp{
		Op:     "drawRect",
		Params: withPaint(params("rect", serializeRect(rect)), paint),
	})
}

func (c *serializingCanvas) DrawCircle(center graphics.Offset, radius float64, paint graphics.Paint) {
	c.ops = append(c.ops, DisplayOp{
		Op: "drawCircle",
		Params: withPaint(params(
			"cx", round2(center.X),
			"cy", round2(center.Y),
			"radius", round2(radius),
		), paint),
	})
}

func (c *serializingCanvas) DrawLine(start, end graphics.Offset, paint graphics.Paint) {
	c.ops = append(c.ops, DisplayOp{
		Op: "drawLine",
		Params: withPaint(params(
			"x1", round2(start.X), "y1", round2(start.Y),
			"x2", round2(end.X), "y2", round2(end.Y),
		), paint),
	})
}

func (c *serializingCanvas) DrawText(text string, position graphics.Offset, style graphics.TextStyle) {
	c.ops = append(c.ops, DisplayOp{
		Op: "drawText",
		Params: params(
			"text", text,
			"x", round2(position.X),
			"y", round2(position.Y),
			"color", serializeColor(style.Color),
			"fontSize", round2(style.FontSize),
		),
	})
}

func (c *serializingCanvas) Size() graphics.Size {
	return c.size
}

// SerializeDisplayList replays a DisplayList through the serializing canvas.
func SerializeDisplayList(dl *graphics.DisplayList) []DisplayOp {
	if dl == nil {
		return nil
	}
	canvas := &serializingCanvas{size: dl.Size()}
	dl.Paint(canvas)
	return canvas.ops
}

// FindOps returns the ops named op, in draw order.
func FindOps(ops []DisplayOp, op string) []DisplayOp {
	var out []DisplayOp
	for _, o := range ops {
		if o.Op == op {
			out = append(out, o)
		}
	}
	return out
}

// --- Serialization helpers ---

func serializeRect(r graphics.Rect) map[string]any {
	return params(
		"left", round2(r.Left),
		"top", round2(r.Top),
		"right", round2(r.Right),
		"bottom", round2(r.Bottom),
	)
}

func withPaint(m map[string]any, paint graphics.Paint) map[string]any {
	m["color"] = serializeColor(paint.Color)
	m["style"] = paint.Style.String()
	if paint.Style == graphics.PaintStyleStroke {
		m["strokeWidth"] = round2(paint.StrokeWidth)
	}
	return m
}

func serializeColor(c graphics.Color) string {
	return fmt.Sprintf("0x%08X", uint32(c))
}

// round2 rounds a float64 to 2 decimal places.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// params creates a map from alternating key-value pairs. JSON encoding
// sorts the keys.
func params(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		m[kvs[i].(string)] = kvs[i+1]
	}
	return m
}

package graphics

import "fmt"

// OpKind identifies a recorded drawing operation.
type OpKind int

const (
	OpSave OpKind = iota
	OpRestore
	OpTranslate
	OpClipRect
	OpClear
	OpRect
	OpCircle
	OpLine
	OpText
)

func (k OpKind) String() string {
	switch k {
	case OpSave:
		return "save"
	case OpRestore:
		return "restore"
	case OpTranslate:
		return "translate"
	case OpClipRect:
		return "clipRect"
	case OpClear:
		return "clear"
	case OpRect:
		return "rect"
	case OpCircle:
		return "circle"
	case OpLine:
		return "line"
	case OpText:
		return "text"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Op is one recorded drawing operation. Only the fields relevant to Kind are set.
type Op struct {
	Kind   OpKind
	Rect   Rect
	Offset Offset
	End    Offset
	Radius float64
	Text   string
	Paint  Paint
	Style  TextStyle
	Color  Color
}

func (op Op) execute(canvas Canvas) {
	switch op.Kind {
	case OpSave:
		canvas.Save()
	case OpRestore:
		canvas.Restore()
	case OpTranslate:
		canvas.Translate(op.Offset.X, op.Offset.Y)
	case OpClipRect:
		canvas.ClipRect(op.Rect)
	case OpClear:
		canvas.Clear(op.Color)
	case OpRect:
		canvas.DrawRect(op.Rect, op.Paint)
	case OpCircle:
		canvas.DrawCircle(op.Offset, op.Radius, op.Paint)
	case OpLine:
		canvas.DrawLine(op.Offset, op.End, op.Paint)
	case OpText:
		canvas.DrawText(op.Text, op.Offset, op.Style)
	}
}

// DisplayList is an immutable list of drawing operations.
// It can be replayed onto any Canvas implementation.
type DisplayList struct {
	ops  []Op
	size Size
}

// Paint replays the recorded operations onto the provided canvas.
func (d *DisplayList) Paint(canvas Canvas) {
	for _, op := range d.ops {
		op.execute(canvas)
	}
}

// Size returns the size recorded when the display list was created.
func (d *DisplayList) Size() Size {
	return d.size
}

// Ops returns a copy of the recorded operations.
func (d *DisplayList) Ops() []Op {
	return append([]Op(nil), d.ops...)
}

// Texts returns the strings of all text operations, in draw order.
func (d *DisplayList) Texts() []string {
	var texts []string
	for _, op := range d.ops {
		if op.Kind == OpText {
			texts = append(texts, op.Text)
		}
	}
	return texts
}

// PictureRecorder records drawing commands into a display list.
type PictureRecorder struct {
	ops       []Op
	recording bool
	size      Size
}

// BeginRecording starts a new recording session.
func (r *PictureRecorder) BeginRecording(size Size) Canvas {
	r.ops = r.ops[:0]
	r.recording = true
	r.size = size
	return &recordingCanvas{recorder: r, size: size}
}

// EndRecording finishes the recording and returns a display list.
func (r *PictureRecorder) EndRecording() *DisplayList {
	if !r.recording {
		return &DisplayList{size: r.size}
	}
	r.recording = false
	ops := make([]Op, len(r.ops))
	copy(ops, r.ops)
	return &DisplayList{
		ops:  ops,
		size: r.size,
	}
}

func (r *PictureRecorder) append(op Op) {
	if !r.recording {
		return
	}
	r.ops = append(r.ops, op)
}

type recordingCanvas struct {
	recorder *PictureRecorder
	size     Size
}

func (c *recordingCanvas) Save() {
	c.recorder.append(Op{Kind: OpSave})
}

func (c *recordingCanvas) Restore() {
	c.recorder.append(Op{Kind: OpRestore})
}

func (c *recordingCanvas) Translate(dx, dy float64) {
	c.recorder.append(Op{Kind: OpTranslate, Offset: Offset{X: dx, Y: dy}})
}

func (c *recordingCanvas) ClipRect(rect Rect) {
	c.recorder.append(Op{Kind: OpClipRect, Rect: rect})
}

func (c *recordingCanvas) Clear(color Color) {
	c.recorder.append(Op{Kind: OpClear, Color: color})
}

func (c *recordingCanvas) DrawRect(rect Rect, paint Paint) {
	c.recorder.append(Op{Kind: OpRect, Rect: rect, Paint: paint})
}

func (c *recordingCanvas) DrawCircle(center Offset, radius float64, paint Paint) {
	c.recorder.append(Op{Kind: OpCircle, Offset: center, Radius: radius, Paint: paint})
}

func (c *recordingCanvas) DrawLine(start, end Offset, paint Paint) {
	c.recorder.append(Op{Kind: OpLine, Offset: start, End: end, Paint: paint})
}

func (c *recordingCanvas) DrawText(text string, position Offset, style TextStyle) {
	c.recorder.append(Op{Kind: OpText, Text: text, Offset: position, Style: style})
}

func (c *recordingCanvas) Size() Size {
	return c.size
}

package graphics

// Canvas records or renders drawing commands.
type Canvas interface {
	// Save pushes the current transform and clip state.
	Save()

	// Restore pops the most recent transform and clip state.
	Restore()

	// Translate moves the origin by the given offset.
	Translate(dx, dy float64)

	// ClipRect restricts future drawing to the given rectangle.
	ClipRect(rect Rect)

	// Clear fills the entire canvas with the given color.
	Clear(color Color)

	// DrawRect draws a rectangle with the provided paint.
	DrawRect(rect Rect, paint Paint)

	// DrawCircle draws a circle with the provided paint.
	DrawCircle(center Offset, radius float64, paint Paint)

	// DrawLine draws a line segment with the provided paint.
	DrawLine(start, end Offset, paint Paint)

	// DrawText draws a single line of text with its baseline origin at position.
	DrawText(text string, position Offset, style TextStyle)

	// Size returns the canvas size.
	Size() Size
}

// Surface is a drawing backend that owns a Canvas and presents finished
// frames to the screen (or to a file, a terminal, a test recorder).
type Surface interface {
	// Canvas returns the canvas to draw the next frame on.
	Canvas() Canvas

	// Resize reallocates the backing store for a new window size.
	Resize(width, height float64) error

	// Present flushes the frame drawn since the last Present.
	Present() error
}

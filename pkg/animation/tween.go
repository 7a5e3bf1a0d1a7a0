package animation

import "github.com/go-drift/fibre/pkg/graphics"

// Tween interpolates from Begin to End. Curve, if set, eases progress
// before Lerp is applied.
type Tween[T any] struct {
	Begin T
	End   T
	Lerp  func(a, b T, t float64) T
	Curve Curve
}

// At returns the value at progress t in [0, 1].
func (tw Tween[T]) At(t float64) T {
	if tw.Lerp == nil {
		return tw.End
	}
	if tw.Curve != nil {
		t = tw.Curve(t)
	} else {
		t = clampUnit(t)
	}
	return tw.Lerp(tw.Begin, tw.End, t)
}

// Steps returns n values spread evenly from Begin to End inclusive.
func (tw Tween[T]) Steps(n int) []T {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []T{tw.At(1)}
	}
	out := make([]T, n)
	for i := range out {
		out[i] = tw.At(float64(i) / float64(n-1))
	}
	return out
}

// LerpFloat64 interpolates linearly between a and b.
func LerpFloat64(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpOffset interpolates each coordinate.
func LerpOffset(a, b graphics.Offset, t float64) graphics.Offset {
	return graphics.Offset{X: LerpFloat64(a.X, b.X, t), Y: LerpFloat64(a.Y, b.Y, t)}
}

// LerpColor interpolates each ARGB channel, rounding to the nearest value.
func LerpColor(a, b graphics.Color, t float64) graphics.Color {
	var out uint32
	for shift := 0; shift < 32; shift += 8 {
		ca := float64((uint32(a) >> shift) & 0xFF)
		cb := float64((uint32(b) >> shift) & 0xFF)
		out |= uint32(LerpFloat64(ca, cb, t)+0.5) << shift
	}
	return graphics.Color(out)
}

// TweenFloat64 creates a tween for float64 values.
func TweenFloat64(begin, end float64) Tween[float64] {
	return Tween[float64]{Begin: begin, End: end, Lerp: LerpFloat64}
}

// TweenOffset creates a tween for offsets.
func TweenOffset(begin, end graphics.Offset) Tween[graphics.Offset] {
	return Tween[graphics.Offset]{Begin: begin, End: end, Lerp: LerpOffset}
}

// TweenColor creates a tween for colors.
func TweenColor(begin, end graphics.Color) Tween[graphics.Color] {
	return Tween[graphics.Color]{Begin: begin, End: end, Lerp: LerpColor}
}

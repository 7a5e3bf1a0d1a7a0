// Package animation provides easing curves and tweens for values that
// change over a sequence of frames, such as a scripted pointer path or a
// color that follows progress.
package animation

import "math"

// Curve maps linear progress in [0, 1] to eased progress. Curves return 0
// at or below 0 and 1 at or above 1.
type Curve func(t float64) float64

// Linear is progress without easing.
func Linear(t float64) float64 {
	return clampUnit(t)
}

// Standard curves, equivalent to the CSS timing functions of the same name.
var (
	Ease      = CubicBezier(0.25, 0.1, 0.25, 1.0)
	EaseIn    = CubicBezier(0.4, 0.0, 1.0, 1.0)
	EaseOut   = CubicBezier(0.0, 0.0, 0.2, 1.0)
	EaseInOut = CubicBezier(0.4, 0.0, 0.2, 1.0)
)

// CubicBezier returns the curve through (0,0) and (1,1) with control points
// (x1,y1) and (x2,y2), as CSS cubic-bezier() defines it.
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return bezier(y1, y2, solveX(x1, x2, t))
	}
}

// solveX finds the curve parameter whose x is t. Newton's method usually
// converges in a few steps; bisection covers flat derivatives.
func solveX(x1, x2, t float64) float64 {
	const epsilon = 1e-7
	u := t
	for range 8 {
		dx := bezier(x1, x2, u) - t
		if math.Abs(dx) < epsilon {
			return clampUnit(u)
		}
		d := bezierSlope(x1, x2, u)
		if math.Abs(d) < epsilon {
			break
		}
		u -= dx / d
	}

	lo, hi := 0.0, 1.0
	u = clampUnit(u)
	for range 12 {
		dx := bezier(x1, x2, u) - t
		if math.Abs(dx) < epsilon {
			break
		}
		if dx > 0 {
			hi = u
		} else {
			lo = u
		}
		u = (lo + hi) / 2
	}
	return u
}

// bezier evaluates one coordinate of the curve with inner control values a
// and b at parameter u.
func bezier(a, b, u float64) float64 {
	v := 1 - u
	return 3*v*v*u*a + 3*v*u*u*b + u*u*u
}

func bezierSlope(a, b, u float64) float64 {
	v := 1 - u
	return 3*v*v*a + 6*v*u*(b-a) + 3*u*u*(1-b)
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

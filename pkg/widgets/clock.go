package widgets

import "time"

// Clock schedules delayed callbacks.
type Clock interface {
	// AfterFunc runs fn after d, on a goroutine of the clock's choosing.
	// The returned function cancels the call and reports whether it was
	// still pending.
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// handlerRef boxes the installed handler so it can be swapped atomically.
type handlerRef struct {
	h ErrorHandler
}

var installed atomic.Pointer[handlerRef]

func init() {
	installed.Store(&handlerRef{h: &LogHandler{}})
}

// SetHandler installs h as the process-wide error handler and returns the
// previous one. Nil restores a LogHandler on slog.Default().
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = &LogHandler{}
	}
	return installed.Swap(&handlerRef{h: h}).h
}

// Handler returns the installed error handler.
func Handler() ErrorHandler {
	return installed.Load().h
}

// Report passes err to the installed handler, stamping it with the current
// time if it has none.
func Report(err *FibreError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic passes a recovered panic to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// Recover reports a panic of the calling goroutine and lets it continue
// unwinding normally. Invariant violations are re-raised.
//
//	go func() {
//		defer errors.Recover("host.input")
//		...
//	}()
func Recover(op string) {
	r := recover()
	if r == nil {
		return
	}
	if inv, ok := r.(*InvariantError); ok {
		panic(inv)
	}
	ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
}

// CaptureStack formats the stack of the caller's caller, one
// "function\n\tfile:line" entry per frame.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for more := true; more; {
		var frame runtime.Frame
		frame, more = frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
	}
	return sb.String()
}

// Package errors provides structured error handling for the Fibre runtime.
//
// Three conditions are distinguished. A command that addresses a node which
// no longer exists is expected (channels outlive their nodes) and is absorbed
// where it happens without reaching this package. A broken bookkeeping
// invariant between the component registry and the layout tree is a runtime
// bug and panics with *InvariantError. Failures of external collaborators
// (drawing surface, layout engine) are returned as *FibreError and may be
// reported through the global ErrorHandler.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindNodeNotFound indicates a mutation addressed a retired or unknown node.
	KindNodeNotFound
	// KindInvariant indicates inconsistent registry/layout bookkeeping.
	KindInvariant
	// KindBackend indicates a drawing surface failure.
	KindBackend
	// KindLayout indicates a layout engine failure.
	KindLayout
	// KindConfig indicates an invalid or unreadable configuration.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindNodeNotFound:
		return "node-not-found"
	case KindInvariant:
		return "invariant"
	case KindBackend:
		return "backend"
	case KindLayout:
		return "layout"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// FibreError represents a structured error in the Fibre runtime.
type FibreError struct {
	// Op is the operation that failed (e.g., "core.RenderFrame").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Node is the printable identity of the node involved, if any.
	Node string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *FibreError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s [%s] node=%s: %v", e.Op, e.Kind, e.Node, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *FibreError) Unwrap() error {
	return e.Err
}

// New wraps err with an operation and kind. It returns nil if err is nil.
func New(op string, kind ErrorKind, err error) *FibreError {
	if err == nil {
		return nil
	}
	return &FibreError{Op: op, Kind: kind, Err: err, Timestamp: time.Now()}
}

// KindOf returns the kind of the first *FibreError in err's chain,
// or KindUnknown.
func KindOf(err error) ErrorKind {
	var fe *FibreError
	if As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "core.DispatchEvent").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// InvariantError describes a violated structural invariant of the node tree.
// It is raised with panic and must not be recovered by runtime code.
type InvariantError struct {
	// Op is the operation that detected the violation.
	Op string
	// Detail describes what was inconsistent.
	Detail string
	// StackTrace contains the call stack at the time of detection.
	StackTrace string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated in %s: %s", e.Op, e.Detail)
}

// Invariant panics with an *InvariantError.
func Invariant(op, format string, args ...any) {
	panic(&InvariantError{
		Op:         op,
		Detail:     fmt.Sprintf(format, args...),
		StackTrace: CaptureStack(),
	})
}

// ErrorHandler receives errors reported by the Fibre runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *FibreError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

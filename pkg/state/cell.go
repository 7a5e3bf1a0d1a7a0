// Package state provides value cells whose writes ask the host for a redraw.
//
// A component that renders from a Cell does not need to do anything else to
// be repainted: the host passes its redraw request function to the cell, and
// every change schedules a frame.
//
//	count := state.NewComparable(0, runner.RequestRedraw)
//	count.Update(func(n int) int { return n + 1 }) // next frame shows 1
package state

import (
	"slices"
	"sync"
)

// Cell holds a value and reports changes to listeners and to the host's
// redraw hook. It is safe for concurrent use; listeners run on the goroutine
// that wrote the value, outside the cell's lock.
type Cell[T any] struct {
	mu             sync.RWMutex
	value          T
	equal          func(a, b T) bool
	redraw         func()
	listeners      []listener[T]
	nextListenerID int
	version        uint64
}

type listener[T any] struct {
	id int
	fn func(T)
}

// New creates a cell. Every Set counts as a change. redraw may be nil.
func New[T any](initial T, redraw func()) *Cell[T] {
	return &Cell[T]{value: initial, redraw: redraw}
}

// NewComparable creates a cell that ignores writes of an equal value.
func NewComparable[T comparable](initial T, redraw func()) *Cell[T] {
	c := New(initial, redraw)
	c.equal = func(a, b T) bool { return a == b }
	return c
}

// NewWithEqual creates a cell that ignores writes for which equal reports true.
func NewWithEqual[T any](initial T, redraw func(), equal func(a, b T) bool) *Cell[T] {
	c := New(initial, redraw)
	c.equal = equal
	return c
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Version counts the changes made to the cell.
func (c *Cell[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Set stores value and notifies if it changed.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	changed := c.store(value)
	c.mu.Unlock()
	if changed {
		c.notify(value)
	}
}

// Update replaces the value with transform applied to it, atomically.
func (c *Cell[T]) Update(transform func(T) T) {
	c.mu.Lock()
	value := transform(c.value)
	changed := c.store(value)
	c.mu.Unlock()
	if changed {
		c.notify(value)
	}
}

func (c *Cell[T]) store(value T) bool {
	if c.equal != nil && c.equal(c.value, value) {
		return false
	}
	c.value = value
	c.version++
	return true
}

// SetRedraw replaces the redraw hook.
func (c *Cell[T]) SetRedraw(redraw func()) {
	c.mu.Lock()
	c.redraw = redraw
	c.mu.Unlock()
}

// AddListener adds a callback that is called with every new value.
// Listeners run in the order they were added. Returns an unsubscribe
// function.
func (c *Cell[T]) AddListener(fn func(T)) func() {
	c.mu.Lock()
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners = append(c.listeners, listener[T]{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		c.listeners = slices.DeleteFunc(c.listeners, func(l listener[T]) bool { return l.id == id })
		c.mu.Unlock()
	}
}

func (c *Cell[T]) notify(value T) {
	c.mu.RLock()
	listeners := slices.Clone(c.listeners)
	redraw := c.redraw
	c.mu.RUnlock()

	for _, l := range listeners {
		l.fn(value)
	}
	if redraw != nil {
		redraw()
	}
}

package engine

// ring is a fixed-capacity buffer that overwrites its oldest entry.
// It is not synchronized; owners guard it with their own lock.
type ring[T any] struct {
	items []T
	index int
	count int
}

func newRing[T any](capacity int) ring[T] {
	return ring[T]{items: make([]T, capacity)}
}

func (r *ring[T]) push(v T) {
	r.items[r.index] = v
	r.index = (r.index + 1) % len(r.items)
	if r.count < len(r.items) {
		r.count++
	}
}

// snapshot returns the entries oldest first.
func (r *ring[T]) snapshot() []T {
	if r.count == 0 {
		return nil
	}
	out := make([]T, r.count)
	if r.count < len(r.items) {
		copy(out, r.items[:r.count])
	} else {
		copy(out, r.items[r.index:])
		copy(out[len(r.items)-r.index:], r.items[:r.index])
	}
	return out
}

func (r *ring[T]) capacity() int {
	return len(r.items)
}

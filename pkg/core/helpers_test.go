package core

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-drift/fibre/pkg/event"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
)

// journal records lifecycle calls across components, in call order.
type journal struct {
	entries []string
}

func (j *journal) add(format string, args ...any) {
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

func (j *journal) with(prefix string) []string {
	var out []string
	for _, e := range j.entries {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

func (j *journal) reset() {
	j.entries = nil
}

// probe is a component that journals every hook and lets tests inject
// behavior into Mount, Unmount and HandleEvent.
type probe struct {
	name string
	j    *journal
	ch   Channel

	onMount   func(h *NodeHandle)
	onUnmount func()
	onEvent   func(ev event.Event)

	boxes []layout.Layout
}

func newProbe(j *journal, name string) *probe {
	return &probe{name: name, j: j}
}

func (p *probe) Mount(h *NodeHandle) {
	p.ch = h.Channel()
	p.j.add("mount %s", p.name)
	if p.onMount != nil {
		p.onMount(h)
	}
}

func (p *probe) Unmount() {
	p.j.add("unmount %s", p.name)
	if p.onUnmount != nil {
		p.onUnmount()
	}
}

func (p *probe) Draw(_ graphics.Canvas, box layout.Layout) {
	p.j.add("draw %s", p.name)
	p.boxes = append(p.boxes, box)
}

func (p *probe) HandleEvent(ev event.Event) {
	p.j.add("event %s %s", p.name, ev)
	if p.onEvent != nil {
		p.onEvent(ev)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFibre(t *testing.T, opts ...Option) (*Fibre, *graphics.RecordingSurface) {
	t.Helper()
	surface := graphics.NewRecordingSurface(800, 600, 4)
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return New(surface, 800, 600, opts...), surface
}

// assertConsistent checks the registry against the layout tree.
func assertConsistent(t *testing.T, f *Fibre) {
	t.Helper()
	total := f.Lifetime()
	if got, want := f.Registry().Len(), total.Mounts-total.Unmounts; got != want {
		t.Fatalf("registry has %d entries, want mounts-unmounts = %d", got, want)
	}
	for _, n := range f.Registry().Nodes() {
		if !f.Tree().Contains(n) {
			t.Fatalf("registry entry %s has no layout node", n)
		}
	}
	if f.Registry().Contains(f.Root()) {
		t.Fatal("root has a registry entry")
	}
}

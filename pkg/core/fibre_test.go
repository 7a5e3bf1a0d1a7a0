package core

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fibre/pkg/event"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
)

func TestAppendRootMountsBeforeRegistering(t *testing.T) {
	f, _ := newTestFibre(t)
	var j journal
	p := newProbe(&j, "a")
	p.onMount = func(h *NodeHandle) {
		assert.True(t, f.Tree().Contains(h.Node()), "node exists during mount")
		assert.False(t, f.Registry().Contains(h.Node()), "entry inserted after mount")
	}

	f.Append(p, layout.Style{})
	assert.Zero(t, f.Registry().Len(), "nothing applied before drain")

	stats := f.DrainAndApply()
	assert.Equal(t, 1, stats.Applied)
	assert.Equal(t, 1, stats.Mounts)
	assert.Equal(t, []string{"mount a"}, j.entries)
	require.True(t, f.Registry().Contains(p.ch.Node()))
	assert.Equal(t, []layout.NodeID{p.ch.Node()}, f.Tree().Children(f.Root()))
	assertConsistent(t, f)
}

func TestRetireUnmountsSubtreeBeforeRemoval(t *testing.T) {
	f, _ := newTestFibre(t)
	var j journal

	parent := newProbe(&j, "parent")
	child := newProbe(&j, "child")
	grandchild := newProbe(&j, "grandchild")
	sibling := newProbe(&j, "sibling")
	parent.onMount = func(h *NodeHandle) {
		c, err := h.AppendChild(h.Node(), child, layout.Style{})
		require.NoError(t, err)
		_, err = h.AppendChild(c, grandchild, layout.Style{})
		require.NoError(t, err)
		_, err = h.AppendChild(h.Node(), nil, layout.Style{})
		require.NoError(t, err)
		_, err = h.AppendChild(h.Node(), sibling, layout.Style{})
		require.NoError(t, err)
	}
	for _, p := range []*probe{parent, child, grandchild, sibling} {
		p.onUnmount = func() {
			assert.True(t, f.Tree().Contains(p.ch.Node()), "%s unmounted after its node was removed", p.name)
		}
	}

	f.Append(parent, layout.Style{})
	f.DrainAndApply()
	require.Equal(t, 4, f.Registry().Len())
	assert.Equal(t, 6, f.Tree().Len(), "root, four components and one bare container")

	parent.ch.Retire()
	stats := f.DrainAndApply()
	assert.Equal(t, 4, stats.Unmounts)
	assert.Equal(t, []string{"unmount parent", "unmount child", "unmount grandchild", "unmount sibling"}, j.with("unmount"))
	assert.Zero(t, f.Registry().Len())
	assert.Equal(t, 1, f.Tree().Len())

	// Every later command addressing the retired subtree is a no-op.
	j.reset()
	child.ch.UpdateStyle(layout.Sized(1, 1))
	grandchild.ch.Retire()
	parent.ch.AppendChild(newProbe(&j, "orphan"), layout.Style{})
	parent.ch.Retire()
	stats = f.DrainAndApply()
	assert.Equal(t, 4, stats.Dropped)
	assert.Zero(t, stats.Applied)
	assert.Empty(t, j.entries, "orphan is never mounted and nothing unmounts twice")
	assertConsistent(t, f)
}

func TestDrainEmptyQueueChangesNothing(t *testing.T) {
	f, _ := newTestFibre(t)
	var j journal
	f.Append(newProbe(&j, "a"), layout.Style{Height: layout.Points(10)})
	f.DrainAndApply()

	nodes := f.Registry().Nodes()
	before := f.Snapshot()
	treeLen := f.Tree().Len()

	for range 3 {
		stats := f.DrainAndApply()
		assert.Zero(t, stats.Applied)
		assert.Zero(t, stats.Passes)
	}
	assert.Equal(t, nodes, f.Registry().Nodes())
	assert.Equal(t, treeLen, f.Tree().Len())
	assert.Equal(t, before, f.Snapshot())
}

func TestUpdateStyleForRetiredNodeIsDropped(t *testing.T) {
	f, _ := newTestFibre(t)
	var j journal
	a := newProbe(&j, "a")
	f.Append(a, layout.Style{})
	f.DrainAndApply()

	node := a.ch.Node()
	a.ch.Retire()
	f.DrainAndApply()
	require.False(t, f.Tree().Contains(node))

	// A different component now takes a fresh node.
	b := newProbe(&j, "b")
	f.Append(b, layout.Style{})
	f.DrainAndApply()
	require.NotEqual(t, node, b.ch.Node())

	a.ch.UpdateStyle(layout.Sized(10, 10))
	var stats FrameStats
	require.NotPanics(t, func() { stats = f.DrainAndApply() })
	assert.Equal(t, 1, stats.Dropped)
	assert.Equal(t, []layout.NodeID{b.ch.Node()}, f.Registry().Nodes())
	style, _ := f.Tree().StyleOf(b.ch.Node())
	assert.Equal(t, layout.Style{}, style, "stale identity must not reach the new node")
}

func TestUpdateStyleReplacesLayoutOfPreviousStyle(t *testing.T) {
	f, _ := newTestFibre(t)
	var j journal
	a := newProbe(&j, "a")
	absolute := layout.Sized(10, 10)
	absolute.Position = layout.Absolute
	absolute.Inset = layout.Edges{Left: 50, Top: 50}
	f.Append(a, absolute)
	require.NoError(t, f.Frame())
	require.NotEmpty(t, a.boxes)
	assert.Equal(t, graphics.Offset{X: 50, Y: 50}, a.boxes[len(a.boxes)-1].Position)

	a.ch.UpdateStyle(layout.Sized(10, 10))
	require.NoError(t, f.Frame())

	got := a.boxes[len(a.boxes)-1]
	assert.Equal(t, layout.Layout{Size: graphics.Size{Width: 10, Height: 10}}, got,
		"insets of the old absolute style must not survive a restyle")
}

func TestRetireMiddleSibling(t *testing.T) {
	f, _ := newTestFibre(t)
	var j journal
	first, middle, last := newProbe(&j, "first"), newProbe(&j, "middle"), newProbe(&j, "last")
	for _, p := range []*probe{first, middle, last} {
		f.Append(p, layout.Style{Height: layout.Points(10)})
	}
	f.DrainAndApply()

	middle.ch.Retire()
	f.DrainAndApply()

	assert.Equal(t, []layout.NodeID{first.ch.Node(), last.ch.Node()}, f.Registry().Nodes())
	assert.Equal(t, []layout.NodeID{first.ch.Node(), last.ch.Node()}, f.Tree().Children(f.Root()))
	assertConsistent(t, f)
}

func TestMountAppendsChildOfItselfThroughHandle(t *testing.T) {
	f, surface := newTestFibre(t)
	var j journal
	child := newProbe(&j, "child")
	parent := newProbe(&j, "parent")
	parent.onMount = func(h *NodeHandle) {
		_, err := h.AppendChild(h.Node(), child, layout.Style{Height: layout.Points(5)})
		require.NoError(t, err)
	}

	f.Append(parent, layout.Style{Height: layout.Points(20)})
	require.NoError(t, f.Frame())

	assert.Equal(t, []string{"mount parent", "mount child", "draw parent", "draw child"}, j.entries)
	assert.Equal(t, []layout.NodeID{child.ch.Node()}, f.Tree().Children(parent.ch.Node()))
	assert.Equal(t, 1, f.Stats().Passes)
	assert.Len(t, surface.Frames(), 1)
}

func TestMountMayQueueWorkForSameDrain(t *testing.T) {
	f, _ := newTestFibre(t)
	var j journal
	late := newProbe(&j, "late")
	early := newProbe(&j, "early")
	early.onMount = func(h *NodeHandle) {
		h.Channel().AppendChild(late, layout.Style{})
	}

	f.Append(early, layout.Style{})
	stats := f.DrainAndApply()

	assert.Equal(t, 2, stats.Passes)
	assert.Equal(t, 2, stats.Applied)
	assert.Equal(t, []string{"mount early", "mount late"}, j.entries)
}

func TestHandleExpiresAfterMount(t *testing.T) {
	f, _ := newTestFibre(t)
	var j journal
	var kept *NodeHandle
	p := newProbe(&j, "p")
	p.onMount = func(h *NodeHandle) { kept = h }
	f.Append(p, layout.Style{})
	f.DrainAndApply()

	require.NotNil(t, kept)
	_, err := kept.AppendChild(kept.Node(), nil, layout.Style{})
	assert.ErrorIs(t, err, ErrHandleExpired)
	_, err = kept.AppendRoot(nil, layout.Style{})
	assert.ErrorIs(t, err, ErrHandleExpired)
	assert.ErrorIs(t, kept.UpdateStyle(kept.Node(), layout.Style{}), ErrHandleExpired)
	assert.ErrorIs(t, kept.Retire(kept.Node()), ErrHandleExpired)
	_, err = kept.Layout()
	assert.ErrorIs(t, err, ErrHandleExpired)

	// The channel taken from it keeps working.
	kept.Channel().Retire()
	f.DrainAndApply()
	assert.Zero(t, f.Registry().Len())
}

func TestHandleReportsStaleTargets(t *testing.T) {
	f, _ := newTestFibre(t)
	var j journal
	gone := newProbe(&j, "gone")
	f.Append(gone, layout.Style{})
	f.DrainAndApply()
	stale := gone.ch.Node()
	gone.ch.Retire()
	f.DrainAndApply()

	p := newProbe(&j, "p")
	p.onMount = func(h *NodeHandle) {
		_, err := h.AppendChild(stale, nil, layout.Style{})
		assert.ErrorIs(t, err, ErrNodeNotFound)
		assert.ErrorIs(t, h.UpdateStyle(stale, layout.Style{}), ErrNodeNotFound)
		assert.ErrorIs(t, h.Retire(stale), ErrNodeNotFound)
		assert.ErrorIs(t, h.Retire(f.Root()), ErrRootNode)
		assert.ErrorIs(t, h.UpdateStyle(f.Root(), layout.Style{}), ErrRootNode)
		l, err := h.Layout()
		assert.NoError(t, err)
		assert.Equal(t, layout.Layout{}, l)
	}
	f.Append(p, layout.Style{})
	f.DrainAndApply()
	assert.Equal(t, 1, f.Registry().Len())
}

func TestRootCannotBeRetiredOrRestyledByCommands(t *testing.T) {
	f, _ := newTestFibre(t)
	ch := f.Channel(f.Root())
	ch.Retire()
	ch.UpdateStyle(layout.Sized(1, 1))

	stats := f.DrainAndApply()
	assert.Equal(t, 2, stats.Dropped)
	assert.True(t, f.Tree().Contains(f.Root()))
	style, _ := f.Tree().StyleOf(f.Root())
	assert.Equal(t, layout.RootStyle(800, 600), style)
}

func TestSelfRetireDuringMount(t *testing.T) {
	f, _ := newTestFibre(t)
	var j journal
	inner := newProbe(&j, "inner")
	p := newProbe(&j, "p")
	p.onMount = func(h *NodeHandle) {
		_, err := h.AppendChild(h.Node(), inner, layout.Style{})
		require.NoError(t, err)
		require.NoError(t, h.Retire(h.Node()))
	}
	f.Append(p, layout.Style{})
	f.DrainAndApply()

	assert.Equal(t, []string{"mount p", "mount inner", "unmount inner", "unmount p"}, j.entries)
	assert.Zero(t, f.Registry().Len())
	assert.Equal(t, 1, f.Tree().Len())
	assertConsistent(t, f)
}

func TestMountDepthIsCapped(t *testing.T) {
	f, _ := newTestFibre(t, WithMaxMountDepth(3))
	var j journal
	var depthErr error
	var nest func(level int) *probe
	nest = func(level int) *probe {
		p := newProbe(&j, "")
		p.onMount = func(h *NodeHandle) {
			if _, err := h.AppendChild(h.Node(), nest(level+1), layout.Style{}); err != nil {
				depthErr = err
			}
		}
		return p
	}

	f.Append(nest(0), layout.Style{})
	f.DrainAndApply()

	assert.ErrorIs(t, depthErr, ErrMountDepthExceeded)
	assert.Equal(t, 4, f.Registry().Len(), "depths 0 through 3 mount")
	assertConsistent(t, f)
}

// chain pushes one more of itself from every mount, forever.
type chain struct {
	ComponentBase
}

func (c *chain) Mount(h *NodeHandle) {
	h.Channel().AppendRoot(&chain{}, layout.Style{})
}

func TestDrainPassesAreCapped(t *testing.T) {
	f, _ := newTestFibre(t, WithMaxDrainPasses(5))
	f.Append(&chain{}, layout.Style{})

	stats := f.DrainAndApply()
	assert.Equal(t, 5, stats.Passes)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 5, f.Registry().Len())

	stats = f.DrainAndApply()
	assert.Equal(t, 10, f.Registry().Len())
	assert.Equal(t, uint64(2), stats.Frame)
}

func TestRegistryLenMatchesMountsMinusUnmounts(t *testing.T) {
	f, _ := newTestFibre(t)
	rng := rand.New(rand.NewPCG(7, 11))
	var j journal
	var known []Channel

	pick := func() Channel {
		if len(known) == 0 {
			return f.Channel(f.Root())
		}
		return known[rng.IntN(len(known))]
	}

	for step := range 400 {
		switch rng.IntN(5) {
		case 0:
			p := newProbe(&j, "")
			p.onMount = func(h *NodeHandle) { known = append(known, h.Channel()) }
			f.Append(p, layout.Style{})
		case 1:
			p := newProbe(&j, "")
			p.onMount = func(h *NodeHandle) { known = append(known, h.Channel()) }
			pick().AppendChild(p, layout.Style{})
		case 2:
			pick().AppendChild(nil, layout.Style{})
		case 3:
			pick().Retire()
		case 4:
			pick().UpdateStyle(layout.Style{Grow: 1})
		}
		if step%7 == 0 {
			f.DrainAndApply()
			assertConsistent(t, f)
		}
	}
	f.DrainAndApply()
	assertConsistent(t, f)
	assert.Equal(t, len(j.with("mount"))-len(j.with("unmount")), f.Registry().Len())
}

func TestCloseUnmountsEverythingAndClosesQueue(t *testing.T) {
	f, _ := newTestFibre(t)
	var j journal
	a, b := newProbe(&j, "a"), newProbe(&j, "b")
	f.Append(a, layout.Style{})
	f.Append(b, layout.Style{})
	f.DrainAndApply()

	f.Close()
	f.Close()
	assert.Equal(t, []string{"unmount a", "unmount b"}, j.with("unmount"))
	assert.Zero(t, f.Registry().Len())
	assert.False(t, a.ch.Valid())

	a.ch.AppendRoot(newProbe(&j, "late"), layout.Style{})
	assert.Zero(t, f.Queue().Len())
	require.NoError(t, f.Frame())
	assertConsistent(t, f)
}

func TestDispatchEventFansOutInRegistryOrder(t *testing.T) {
	f, _ := newTestFibre(t)
	var j journal
	a, b := newProbe(&j, "a"), newProbe(&j, "b")
	a.onEvent = func(ev event.Event) {
		if _, ok := ev.(event.KeyPressed); ok {
			a.ch.Retire()
			// Nothing is applied while events are being dispatched.
			assert.True(t, f.Registry().Contains(a.ch.Node()))
		}
	}
	f.Append(a, layout.Style{})
	f.Append(b, layout.Style{})
	f.DrainAndApply()
	j.reset()

	require.NoError(t, f.DispatchEvent(event.KeyPressed{Key: "x"}))
	assert.Equal(t, []string{"event a key(x)", "event b key(x)"}, j.entries)
	assert.Equal(t, 1, f.Queue().Len())
	assert.Equal(t, 2, f.Registry().Len())

	require.NoError(t, f.DispatchEvent(event.RedrawRequested{}))
	assert.Equal(t, []layout.NodeID{b.ch.Node()}, f.Registry().Nodes())
}

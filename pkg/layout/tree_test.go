package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fibre/pkg/graphics"
)

func TestNewLeafMintsDistinctIdentities(t *testing.T) {
	tree := NewTree()
	a := tree.NewLeaf(Style{})
	b := tree.NewLeaf(Style{})

	assert.NotEqual(t, a, b)
	assert.False(t, a.IsZero())
	assert.True(t, tree.Contains(a))
	assert.False(t, tree.Contains(NoNode))
	assert.Equal(t, 2, tree.Len())
}

func TestRemovedIdentityNeverRevives(t *testing.T) {
	tree := NewTree()
	a := tree.NewLeaf(Style{})
	require.NoError(t, tree.Remove(a))

	// The freed slot is recycled under a new generation.
	b := tree.NewLeaf(Style{})
	assert.Equal(t, a.index, b.index)
	assert.NotEqual(t, a, b)
	assert.False(t, tree.Contains(a))
	assert.True(t, tree.Contains(b))

	assert.ErrorIs(t, tree.SetStyle(a, Style{}), ErrNodeNotFound)
	_, ok := tree.LayoutOf(a)
	assert.False(t, ok)
}

func TestAddChildRejectsBadEdges(t *testing.T) {
	tree := NewTree()
	root := tree.NewLeaf(Style{})
	child := tree.NewLeaf(Style{})
	grandchild := tree.NewLeaf(Style{})

	require.NoError(t, tree.AddChild(root, child))
	require.NoError(t, tree.AddChild(child, grandchild))

	assert.ErrorIs(t, tree.AddChild(root, child), ErrHasParent)
	assert.ErrorIs(t, tree.AddChild(grandchild, root), ErrCycle)
	assert.ErrorIs(t, tree.AddChild(root, root), ErrCycle)
	assert.ErrorIs(t, tree.AddChild(NoNode, child), ErrNodeNotFound)
}

func TestRemoveDropsWholeSubtreeAndKeepsSiblingOrder(t *testing.T) {
	tree := NewTree()
	root := tree.NewLeaf(Style{})
	first := tree.NewLeaf(Style{})
	middle := tree.NewLeaf(Style{})
	last := tree.NewLeaf(Style{})
	inner := tree.NewLeaf(Style{})
	for _, c := range []NodeID{first, middle, last} {
		require.NoError(t, tree.AddChild(root, c))
	}
	require.NoError(t, tree.AddChild(middle, inner))

	require.NoError(t, tree.Remove(middle))

	assert.Equal(t, []NodeID{first, last}, tree.Children(root))
	assert.False(t, tree.Contains(middle))
	assert.False(t, tree.Contains(inner))
	assert.Equal(t, 3, tree.Len())
	assert.ErrorIs(t, tree.Remove(middle), ErrNodeNotFound)
}

func TestWalkIsPreOrderInInsertionOrder(t *testing.T) {
	tree := NewTree()
	root := tree.NewLeaf(Style{})
	a := tree.NewLeaf(Style{})
	a1 := tree.NewLeaf(Style{})
	a2 := tree.NewLeaf(Style{})
	b := tree.NewLeaf(Style{})
	require.NoError(t, tree.AddChild(root, a))
	require.NoError(t, tree.AddChild(a, a1))
	require.NoError(t, tree.AddChild(root, b))
	require.NoError(t, tree.AddChild(a, a2))

	var order []NodeID
	var depths []int
	tree.Walk(root, func(id NodeID, depth int) bool {
		order = append(order, id)
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []NodeID{root, a, a1, a2, b}, order)
	assert.Equal(t, []int{0, 1, 2, 2, 1}, depths)

	var pruned []NodeID
	tree.Walk(root, func(id NodeID, _ int) bool {
		pruned = append(pruned, id)
		return id != a
	})
	assert.Equal(t, []NodeID{root, a, b}, pruned)
	assert.Equal(t, []NodeID{a, a1, a2, b}, tree.Descendants(root))
}

func TestComputeLayoutColumn(t *testing.T) {
	tree := NewTree()
	root := tree.NewLeaf(RootStyle(800, 600))
	header := tree.NewLeaf(Style{Height: Points(100)})
	body := tree.NewLeaf(Style{Height: Points(50)})
	require.NoError(t, tree.AddChild(root, header))
	require.NoError(t, tree.AddChild(root, body))

	require.NoError(t, tree.ComputeLayout(root, graphics.Size{Width: 800, Height: 600}))

	l, ok := tree.LayoutOf(root)
	require.True(t, ok)
	assert.Equal(t, graphics.Size{Width: 800, Height: 600}, l.Size)

	l, _ = tree.LayoutOf(header)
	assert.Equal(t, Layout{Size: graphics.Size{Width: 800, Height: 100}}, l)

	l, _ = tree.LayoutOf(body)
	assert.Equal(t, graphics.Offset{X: 0, Y: 100}, l.Position)
	assert.Equal(t, graphics.Size{Width: 800, Height: 50}, l.Size)
	assert.False(t, tree.NeedsLayout())
}

func TestComputeLayoutRowWithPadding(t *testing.T) {
	tree := NewTree()
	rs := RootStyle(400, 200)
	rs.Direction = Row
	rs.Padding = All(10)
	root := tree.NewLeaf(rs)
	left := tree.NewLeaf(Style{Width: Points(100)})
	right := tree.NewLeaf(Style{Width: Points(50)})
	require.NoError(t, tree.AddChild(root, left))
	require.NoError(t, tree.AddChild(root, right))

	require.NoError(t, tree.ComputeLayout(root, graphics.Size{Width: 400, Height: 200}))

	l, _ := tree.LayoutOf(left)
	assert.Equal(t, graphics.Offset{X: 10, Y: 10}, l.Position)
	assert.Equal(t, graphics.Size{Width: 100, Height: 180}, l.Size)

	l, _ = tree.LayoutOf(right)
	assert.Equal(t, graphics.Offset{X: 110, Y: 10}, l.Position)
}

func TestSetStyleOnRootChangesNextLayout(t *testing.T) {
	tree := NewTree()
	root := tree.NewLeaf(RootStyle(100, 100))
	child := tree.NewLeaf(Style{Height: Points(10)})
	require.NoError(t, tree.AddChild(root, child))
	require.NoError(t, tree.ComputeLayout(root, graphics.Size{Width: 100, Height: 100}))

	require.NoError(t, tree.SetStyle(root, RootStyle(300, 120)))
	assert.True(t, tree.NeedsLayout())
	require.NoError(t, tree.ComputeLayout(root, graphics.Size{Width: 300, Height: 120}))

	l, _ := tree.LayoutOf(child)
	assert.Equal(t, 300.0, l.Size.Width)
	style, ok := tree.StyleOf(root)
	require.True(t, ok)
	assert.Equal(t, Points(300), style.Width)
}

func TestSetStyleReplacesPreviousStyle(t *testing.T) {
	build := func(styles ...Style) (*Tree, NodeID) {
		tree := NewTree()
		root := tree.NewLeaf(RootStyle(200, 200))
		node := tree.NewLeaf(styles[0])
		require.NoError(t, tree.AddChild(root, node))
		require.NoError(t, tree.ComputeLayout(root, graphics.Size{Width: 200, Height: 200}))
		for _, style := range styles[1:] {
			require.NoError(t, tree.SetStyle(node, style))
			require.NoError(t, tree.ComputeLayout(root, graphics.Size{Width: 200, Height: 200}))
		}
		return tree, node
	}
	plain := Style{Width: Points(10), Height: Points(10)}
	fresh, freshNode := build(plain)
	want, ok := fresh.LayoutOf(freshNode)
	require.True(t, ok)

	tests := []struct {
		name  string
		style Style
	}{
		{"absolute insets", Style{Width: Points(10), Height: Points(10), Position: Absolute, Inset: Edges{Left: 50, Top: 50}}},
		{"margin", Style{Width: Points(10), Height: Points(10), Margin: All(7)}},
		{"grow and padding", Style{Width: Points(10), Grow: 1, Padding: All(5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, node := build(tt.style, plain)
			got, ok := tree.LayoutOf(node)
			require.True(t, ok)
			assert.Equal(t, want, got)

			style, _ := tree.StyleOf(node)
			assert.Equal(t, plain, style)
		})
	}
}

func TestLayoutTranslate(t *testing.T) {
	l := Layout{Position: graphics.Offset{X: 1, Y: 2}, Size: graphics.Size{Width: 3, Height: 4}}
	moved := l.Translate(graphics.Offset{X: 10, Y: 20})
	assert.Equal(t, graphics.RectFromLTWH(11, 22, 3, 4), moved.Rect())
}

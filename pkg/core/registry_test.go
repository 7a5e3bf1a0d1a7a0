package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fibre/pkg/layout"
)

func TestRegistryKeepsInsertionOrder(t *testing.T) {
	tree := layout.NewTree()
	a, b, c := tree.NewLeaf(layout.Style{}), tree.NewLeaf(layout.Style{}), tree.NewLeaf(layout.Style{})
	var j journal

	r := NewRegistry()
	require.True(t, r.Insert(b, newProbe(&j, "b")))
	require.True(t, r.Insert(a, newProbe(&j, "a")))
	require.True(t, r.Insert(c, newProbe(&j, "c")))
	assert.False(t, r.Insert(a, newProbe(&j, "again")))

	assert.Equal(t, []layout.NodeID{b, a, c}, r.Nodes())

	removed, ok := r.Remove(a)
	require.True(t, ok)
	assert.Equal(t, "a", removed.(*probe).name)
	_, ok = r.Remove(a)
	assert.False(t, ok)

	var names []string
	r.Each(func(_ layout.NodeID, comp Component) {
		names = append(names, comp.(*probe).name)
	})
	assert.Equal(t, []string{"b", "c"}, names)
	assert.Equal(t, 2, r.Len())
	assert.True(t, r.Contains(c))
	_, ok = r.Get(a)
	assert.False(t, ok)
}

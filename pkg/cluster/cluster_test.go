package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftgraph/leiden/pkg/graph"
)

func buildTriangle(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder(graph.Modularity)
	require.NoError(t, b.AddEdge("a", "b", 1))
	require.NoError(t, b.AddEdge("b", "c", 1))
	require.NoError(t, b.AddEdge("a", "c", 1))
	g, _, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestNewIsSingletons(t *testing.T) {
	g := buildTriangle(t)
	c := New(g)
	for i := 0; i < g.NumNodes; i++ {
		assert.Equal(t, i, c.Community(i))
		assert.Equal(t, 1, c.CommunitySize[i])
	}
}

func TestMoveUpdatesAggregates(t *testing.T) {
	g := buildTriangle(t)
	c := New(g)

	c.Move(g, 0, 1)
	assert.Equal(t, 1, c.Community(0))
	assert.Equal(t, 0, c.CommunitySize[0])
	assert.Equal(t, 2, c.CommunitySize[1])
	assert.ElementsMatch(t, []int{0, 1}, c.CommunityNodes[1])
	assert.Equal(t, g.NodeWeights[0]+g.NodeWeights[1], c.CommunityWeight[1])
}

func TestCompactRenumbers(t *testing.T) {
	g := buildTriangle(t)
	c := New(g)
	c.Move(g, 0, 1)
	c.Move(g, 2, 1)

	mapping := c.Compact()
	assert.Equal(t, 1, c.Cap())
	assert.Equal(t, 0, c.Community(0))
	assert.Equal(t, 0, c.Community(1))
	assert.Equal(t, 0, c.Community(2))
	assert.Equal(t, -1, mapping[0])
	assert.Equal(t, 0, mapping[1])
}

func TestFromAssignmentValidatesLength(t *testing.T) {
	g := buildTriangle(t)
	_, err := FromAssignment(g, []int{0, 1})
	require.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	g := buildTriangle(t)
	c := New(g)
	clone := c.Clone()
	c.Move(g, 0, 1)
	assert.Equal(t, 0, clone.Community(0))
	assert.Equal(t, 1, c.Community(0))
}

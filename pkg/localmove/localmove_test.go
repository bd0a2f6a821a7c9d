package localmove

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftgraph/leiden/pkg/cluster"
	"github.com/weftgraph/leiden/pkg/graph"
	"github.com/weftgraph/leiden/pkg/quality"
	"github.com/weftgraph/leiden/pkg/rng"
)

func buildTwoTriangles(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder(graph.Modularity)
	require.NoError(t, b.AddEdge("a", "b", 1))
	require.NoError(t, b.AddEdge("b", "c", 1))
	require.NoError(t, b.AddEdge("a", "c", 1))
	require.NoError(t, b.AddEdge("d", "e", 1))
	require.NoError(t, b.AddEdge("e", "f", 1))
	require.NoError(t, b.AddEdge("d", "f", 1))
	require.NoError(t, b.AddEdge("c", "d", 1))
	g, _, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestRunMergesTrianglesIntoTwoCommunities(t *testing.T) {
	g := buildTwoTriangles(t)
	c := cluster.New(g)
	f := quality.New(quality.Modularity, 1.0, g)
	r := rng.New(1)

	for {
		moved, _ := Run(g, c, f, r)
		if !moved {
			break
		}
	}

	// Every node within the same original triangle should share a
	// community; the two triangles should not.
	groups := map[int][]int{}
	for i := 0; i < g.NumNodes; i++ {
		groups[c.Community(i)] = append(groups[c.Community(i)], i)
	}
	assert.Len(t, groups, 2)

	aComm, bComm, cComm := c.Community(0), c.Community(1), c.Community(2)
	assert.Equal(t, aComm, bComm)
	assert.Equal(t, bComm, cComm)

	dComm, eComm, fComm := c.Community(3), c.Community(4), c.Community(5)
	assert.Equal(t, dComm, eComm)
	assert.Equal(t, eComm, fComm)
}

func TestRunIsDeterministicForFixedSeed(t *testing.T) {
	g := buildTwoTriangles(t)
	f := quality.New(quality.Modularity, 1.0, g)

	run := func(seed uint64) []int {
		c := cluster.New(g)
		r := rng.New(seed)
		for {
			moved, _ := Run(g, c, f, r)
			if !moved {
				break
			}
		}
		return append([]int(nil), c.NodeToCommunity...)
	}

	assert.Equal(t, run(42), run(42))
}

func TestRunConvergesOnSingleNode(t *testing.T) {
	b := graph.NewBuilder(graph.Modularity)
	require.NoError(t, b.AddEdge("a", "a", 1))
	g, _, err := b.Build()
	require.NoError(t, err)

	c := cluster.New(g)
	f := quality.New(quality.Modularity, 1.0, g)
	r := rng.New(7)

	moved, moves := Run(g, c, f, r)
	assert.False(t, moved)
	assert.Equal(t, 0, moves)
}

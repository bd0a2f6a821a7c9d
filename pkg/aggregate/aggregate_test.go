package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftgraph/leiden/pkg/cluster"
	"github.com/weftgraph/leiden/pkg/graph"
	"github.com/weftgraph/leiden/pkg/quality"
)

func buildTwoTriangles(t *testing.T, kind graph.QualityKind) (*graph.Graph, *graph.Index) {
	t.Helper()
	b := graph.NewBuilder(kind)
	require.NoError(t, b.AddEdge("a", "b", 1))
	require.NoError(t, b.AddEdge("b", "c", 1))
	require.NoError(t, b.AddEdge("a", "c", 1))
	require.NoError(t, b.AddEdge("d", "e", 1))
	require.NoError(t, b.AddEdge("e", "f", 1))
	require.NoError(t, b.AddEdge("d", "f", 1))
	require.NoError(t, b.AddEdge("c", "d", 1))
	g, idx, err := b.Build()
	require.NoError(t, err)
	return g, idx
}

func testQualityPreserved(t *testing.T, kind quality.Kind, gkind graph.QualityKind) {
	g, idx := buildTwoTriangles(t, gkind)
	f := quality.New(kind, 1.0, g)

	assignment := make([]int, g.NumNodes)
	for _, label := range []string{"a", "b", "c"} {
		i, _ := idx.ToIndex(label)
		assignment[i] = 0
	}
	for _, label := range []string{"d", "e", "f"} {
		i, _ := idx.ToIndex(label)
		assignment[i] = 1
	}
	c, err := cluster.FromAssignment(g, assignment)
	require.NoError(t, err)

	aggBefore := quality.ComputeAggregates(g, c.NodeToCommunity, c.Cap())
	qBefore := f.Total(aggBefore)

	result := Build(g, c)
	require.NoError(t, result.Graph.Validate())

	identity := make([]int, result.Graph.NumNodes)
	for i := range identity {
		identity[i] = i
	}
	fAgg := quality.New(kind, 1.0, result.Graph)
	aggAfter := quality.ComputeAggregates(result.Graph, identity, result.Graph.NumNodes)
	qAfter := fAgg.Total(aggAfter)

	assert.InDelta(t, qBefore, qAfter, 1e-9)
}

func TestAggregationPreservesModularity(t *testing.T) {
	testQualityPreserved(t, quality.Modularity, graph.Modularity)
}

func TestAggregationPreservesCPM(t *testing.T) {
	testQualityPreserved(t, quality.CPM, graph.CPM)
}

func TestAggregationMembersPartitionOriginalNodes(t *testing.T) {
	g, idx := buildTwoTriangles(t, graph.Modularity)
	assignment := make([]int, g.NumNodes)
	for _, label := range []string{"a", "b", "c"} {
		i, _ := idx.ToIndex(label)
		assignment[i] = 0
	}
	for _, label := range []string{"d", "e", "f"} {
		i, _ := idx.ToIndex(label)
		assignment[i] = 1
	}
	c, err := cluster.FromAssignment(g, assignment)
	require.NoError(t, err)

	result := Build(g, c)
	assert.Equal(t, 2, result.Graph.NumNodes)

	seen := make([]bool, g.NumNodes)
	for _, members := range result.Members {
		for _, node := range members {
			require.False(t, seen[node])
			seen[node] = true
		}
	}
	for _, s := range seen {
		assert.True(t, s)
	}
}

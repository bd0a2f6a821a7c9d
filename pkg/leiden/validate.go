package leiden

import (
	"fmt"

	"github.com/weftgraph/leiden/pkg/graph"
)

func validateCommonParameters(opts Options, forHierarchical bool) error {
	if opts.Resolution <= 0 {
		return newError(InvalidParameter, "resolution must be > 0", nil)
	}
	if opts.Randomness <= 0 {
		return newError(InvalidParameter, "randomness must be > 0", nil)
	}
	if opts.Iterations < 0 {
		return newError(InvalidParameter, "iterations must be >= 0", nil)
	}
	if opts.Trials < 1 {
		return newError(InvalidParameter, "trials must be >= 1", nil)
	}
	if forHierarchical && opts.MaxClusterSize < 2 {
		return newError(InvalidParameter, "max_cluster_size must be >= 2", nil)
	}
	return nil
}

func qualityKind(opts Options) graph.QualityKind {
	if opts.UseModularity {
		return graph.Modularity
	}
	return graph.CPM
}

// buildGraph builds the CSR graph for opts' edges, classifying Builder's
// sentinel errors into this package's typed Error.
func buildGraph(edges []Edge, kind graph.QualityKind) (*graph.Graph, *graph.Index, error) {
	b := graph.NewBuilder(kind)
	for _, e := range edges {
		if err := b.AddEdge(e.U, e.V, e.Weight); err != nil {
			return nil, nil, newError(InvalidEdge, fmt.Sprintf("edge %s-%s", e.U, e.V), err)
		}
	}
	g, idx, err := b.Build()
	if err != nil {
		return nil, nil, newError(EmptyGraph, "no edges supplied", err)
	}
	return g, idx, nil
}

// resolveStartingCommunities returns a full node->community assignment:
// labels present in starting honor their given id; labels absent each get
// their own singleton, numbered in node-index order after the largest
// given id. Returns UnknownLabel if starting references a label not
// interned into idx.
func resolveStartingCommunities(idx *graph.Index, starting map[string]int, n int) ([]int, error) {
	assignment := make([]int, n)
	given := make([]bool, n)
	maxID := -1
	for label, id := range starting {
		i, ok := idx.ToIndex(label)
		if !ok {
			return nil, newError(UnknownLabel, fmt.Sprintf("starting_communities references unknown label %q", label), nil)
		}
		if id < 0 {
			return nil, newError(InvalidParameter, fmt.Sprintf("starting_communities id for %q must be >= 0", label), nil)
		}
		assignment[i] = id
		given[i] = true
		if id > maxID {
			maxID = id
		}
	}
	next := maxID + 1
	for i := 0; i < n; i++ {
		if !given[i] {
			assignment[i] = next
			next++
		}
	}
	return assignment, nil
}

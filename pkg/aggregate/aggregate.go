// Package aggregate builds the quotient graph over a Clustering: nodes
// become the nonempty communities of the Clustering, renumbered
// contiguously; self-loops absorb each community's internal edge weight;
// cross edges sum the weight crossing between each pair of communities.
//
// Grounded on pkg/louvain/algorithm.go's AggregateGraph (map-based edge
// coalescing, weight/2 halving for the undirected double-count) and
// original_source/.../network/network.rs's induce_clustering_network,
// whose folded-in self-link total is tracked apart from the edges it
// builds from cross edges — Build keeps that same separation between the
// CSR self-loop entry (read by quality.ComputeAggregates as internal
// weight) and the plain nominal self-loop total (read by Degrees/
// TotalEdgeWeight), since a single shared value cannot satisfy both
// readers once a community has internal cross edges.
package aggregate

import (
	"github.com/weftgraph/leiden/pkg/cluster"
	"github.com/weftgraph/leiden/pkg/graph"
)

// Result is an aggregated Graph plus the mapping from its node indices
// back to the original graph's community membership (the original node
// indices constituting each aggregate node).
type Result struct {
	Graph   *graph.Graph
	Members [][]int
	// Mapping translates a community id in the Clustering passed to Build
	// to the aggregate node index it became; -1 for communities that were
	// empty. Callers unfolding an aggregate-level clustering back onto the
	// original node set index through this.
	Mapping []int
}

// Build constructs the quotient graph of g under c, per spec.md §4.5 and
// §3's "Aggregated graph": Q(g, c) == Q(result, identity) for the chosen
// quality function.
func Build(g *graph.Graph, c *cluster.Clustering) Result {
	mapping := make([]int, c.Cap())
	for i := range mapping {
		mapping[i] = -1
	}
	var members [][]int
	for old := 0; old < c.Cap(); old++ {
		if len(c.CommunityNodes[old]) == 0 {
			continue
		}
		mapping[old] = len(members)
		members = append(members, c.CommunityNodes[old])
	}
	numAggregateNodes := len(members)

	nodeOf := make([]int, g.NumNodes)
	for aggID, nodes := range members {
		for _, node := range nodes {
			nodeOf[node] = aggID
		}
	}

	// Pass 1: per-aggregate-node fan-out count (sizing pass), and
	// self-loop / cross-edge accumulation keyed by sorted pair.
	//
	// A community's internal structure folds into the aggregate node's
	// self-loop two different ways at once, and they must not be
	// conflated: crossInternal is the single true weight of each
	// constituent internal cross-node edge (visited twice, once per
	// endpoint's row; counted once here by only crediting the j>i
	// direction), while selfLoopNominal is the sum of each member's own
	// nominal self-loop weight (its SelfLoopWeight). Degrees
	// and TotalEdgeWeight must be able to reconstruct the sum of the
	// members' original Degrees/contribution exactly, which only needs
	// selfLoopNominal as the usual doubling addend; quality.
	// ComputeAggregates, though, reads the CSR self-loop row entry as a
	// single same-community-neighbor weight the same way it reads any
	// other neighbor, so that entry must already carry the full
	// internal-weight contribution a non-aggregated graph would have
	// produced: 2*crossInternal (both directions) + selfLoopRow (the sum
	// of the members' self-loop row entries, each read once). Store that
	// combined value as the
	// actual CSR self-loop weight, and selfLoopNominal alone as the
	// graph's SelfLoopWeight/degree-doubling addend, matching
	// original_source/.../network/network.rs's induce_clustering_network,
	// which keeps a cluster's folded-in self-link total
	// (total_edge_weight_self_links) entirely separate from the
	// contiguous_neighbors/contiguous_edge_weights it builds from cross
	// edges.
	type pair struct{ a, b int }
	cross := make(map[pair]float64)
	crossInternal := make([]float64, numAggregateNodes)
	selfLoopRow := make([]float64, numAggregateNodes)
	selfLoopNominal := make([]float64, numAggregateNodes)

	for i := 0; i < g.NumNodes; i++ {
		ai := nodeOf[i]
		for k, j := range g.NeighborIndices(i) {
			w := g.NeighborWeights(i)[k]
			aj := nodeOf[j]
			if ai == aj {
				if i == j {
					selfLoopRow[ai] += w
					selfLoopNominal[ai] += g.SelfLoopWeight[i]
				} else if j > i {
					crossInternal[ai] += w
				}
				continue
			}
			p := pair{ai, aj}
			if p.a > p.b {
				p.a, p.b = p.b, p.a
			}
			// Each cross edge is visited once per endpoint (i's row and
			// j's row); halve on insert so the accumulated total equals
			// the single true edge weight.
			cross[p] += w / 2
		}
	}

	csrSelfLoop := make([]float64, numAggregateNodes)
	for a := range csrSelfLoop {
		csrSelfLoop[a] = 2*crossInternal[a] + selfLoopRow[a]
	}

	fanOut := make([]int, numAggregateNodes)
	for p := range cross {
		fanOut[p.a]++
		fanOut[p.b]++
	}
	for a, w := range csrSelfLoop {
		if w > 0 {
			fanOut[a]++
		}
	}

	offsets := make([]int, numAggregateNodes+1)
	for i := 0; i < numAggregateNodes; i++ {
		offsets[i+1] = offsets[i] + fanOut[i]
	}

	neighbors := make([]int, offsets[numAggregateNodes])
	weights := make([]float64, offsets[numAggregateNodes])
	cursor := append([]int(nil), offsets[:numAggregateNodes]...)
	place := func(from, to int, w float64) {
		neighbors[cursor[from]] = to
		weights[cursor[from]] = w
		cursor[from]++
	}
	for p, w := range cross {
		place(p.a, p.b, w)
		place(p.b, p.a, w)
	}
	for a, w := range csrSelfLoop {
		if w > 0 {
			place(a, a, w)
		}
	}

	// Pass 2: sort each row by neighbor index.
	for i := 0; i < numAggregateNodes; i++ {
		s, e := offsets[i], offsets[i+1]
		sortRow(neighbors[s:e], weights[s:e])
	}

	degrees := make([]float64, numAggregateNodes)
	var rawSum, selfLoopSum float64
	for i := 0; i < numAggregateNodes; i++ {
		s, e := offsets[i], offsets[i+1]
		var rowSum float64
		for _, w := range weights[s:e] {
			rowSum += w
		}
		degrees[i] = rowSum + selfLoopNominal[i]
		rawSum += rowSum
		selfLoopSum += selfLoopNominal[i]
	}
	totalEdgeWeight := (rawSum + selfLoopSum) / 2

	nodeWeights := make([]float64, numAggregateNodes)
	for aggID, nodes := range members {
		var sum float64
		for _, node := range nodes {
			sum += g.NodeWeights[node]
		}
		nodeWeights[aggID] = sum
	}

	aggGraph := &graph.Graph{
		Kind:            g.Kind,
		NumNodes:        numAggregateNodes,
		Offsets:         offsets,
		Neighbors:       neighbors,
		Weights:         weights,
		NodeWeights:     nodeWeights,
		Degrees:         degrees,
		SelfLoopWeight:  selfLoopNominal,
		TotalEdgeWeight: totalEdgeWeight,
	}

	return Result{Graph: aggGraph, Members: members, Mapping: mapping}
}

func sortRow(neighbors []int, weights []float64) {
	for i := 1; i < len(neighbors); i++ {
		for j := i; j > 0 && neighbors[j-1] > neighbors[j]; j-- {
			neighbors[j-1], neighbors[j] = neighbors[j], neighbors[j-1]
			weights[j-1], weights[j] = weights[j], weights[j-1]
		}
	}
}

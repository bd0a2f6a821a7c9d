// Package graph implements the immutable compressed-sparse-row graph
// representation the Leiden engine operates over: an undirected, weighted
// graph built once from an edge list and never mutated afterward.
//
// Nodes are interned to contiguous indices in first-seen order. Edges are
// stored symmetrically (CSR offsets + a (neighbor, weight) array of length
// 2E) so every phase can walk a node's neighbors as a single contiguous
// slice, without per-edge pointer chasing. This mirrors
// pkg2/louvain/graph.go's adjacency-list Graph, generalized to the CSR
// layout spec.md's memory model (§5) calls for at scale.
package graph

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// QualityKind selects the node-weight convention a Graph is built under.
// Modularity-mode graphs default node weight to the node's degree; CPM-mode
// graphs default node weight to 1, so CPM penalizes community cardinality
// rather than accumulated edge weight. Grounded on
// original_source/.../network_builder.rs's modularity_node_weight_resolver
// (node_weight + edge_weight) vs. cpm_node_weight_resolver (constant 1).
type QualityKind int

const (
	Modularity QualityKind = iota
	CPM
)

// ErrInvalidEdge is returned when an edge weight is non-positive or
// non-finite.
var ErrInvalidEdge = errors.New("graph: invalid edge weight")

// ErrEmptyGraph is returned when a Builder has no edges to build from.
var ErrEmptyGraph = errors.New("graph: empty edge list")

// Graph is an immutable, undirected, weighted graph in CSR form.
type Graph struct {
	Kind QualityKind

	NumNodes int

	// Offsets has length NumNodes+1; node i's neighbors occupy
	// Neighbors[Offsets[i]:Offsets[i+1]], sorted by neighbor index.
	Offsets []int
	// Neighbors and Weights are parallel slices of length 2E (self-loops
	// counted once, per spec.md §3).
	Neighbors []int
	Weights   []float64

	// NodeWeights is w_i for each node, per the QualityKind convention
	// above.
	NodeWeights []float64

	// Degrees is d_i: the sum of a node's neighbor-array weights, with its
	// self-loop weight (if any) added a second time to match the
	// graph-theoretic convention that a self-loop contributes 2 to degree.
	Degrees []float64

	// SelfLoopWeight is the nominal self-loop contribution Degrees adds a
	// second time for each node (0 if the node has none). On a graph built
	// directly by Builder this equals the CSR row's w_ii entry; on a graph
	// produced by pkg/aggregate.Build it can be smaller than the row entry,
	// since that row entry also has to double as the internal-weight value
	// quality.ComputeAggregates reads — see pkg/aggregate's package doc.
	SelfLoopWeight []float64

	// TotalEdgeWeight is W, the sum of all distinct edge weights
	// (self-loops counted at full weight, not halved — spec.md §3).
	TotalEdgeWeight float64
}

// NeighborRange returns the half-open [start, end) slice bounds of node i's
// row in Neighbors/Weights.
func (g *Graph) NeighborRange(i int) (int, int) {
	return g.Offsets[i], g.Offsets[i+1]
}

// NeighborIndices returns node i's neighbor indices.
func (g *Graph) NeighborIndices(i int) []int {
	s, e := g.NeighborRange(i)
	return g.Neighbors[s:e]
}

// NeighborWeights returns node i's neighbor edge weights, parallel to
// NeighborIndices(i).
func (g *Graph) NeighborWeights(i int) []float64 {
	s, e := g.NeighborRange(i)
	return g.Weights[s:e]
}

// EdgeWeight returns the weight of edge (u, v), or 0 if none exists.
func (g *Graph) EdgeWeight(u, v int) float64 {
	s, e := g.NeighborRange(u)
	row := g.Neighbors[s:e]
	idx := sort.SearchInts(row, v)
	if idx < len(row) && row[idx] == v {
		return g.Weights[s+idx]
	}
	return 0
}

// Validate checks the CSR invariants spec.md §3 requires: sorted rows,
// positive weights, and symmetry.
func (g *Graph) Validate() error {
	if g.NumNodes <= 0 {
		return fmt.Errorf("graph: must have at least one node")
	}
	if len(g.Offsets) != g.NumNodes+1 {
		return fmt.Errorf("graph: offsets length mismatch")
	}
	for i := 0; i < g.NumNodes; i++ {
		s, e := g.NeighborRange(i)
		if s > e {
			return fmt.Errorf("graph: offsets not monotonic at node %d", i)
		}
		row := g.Neighbors[s:e]
		for j := 1; j < len(row); j++ {
			if row[j-1] >= row[j] {
				return fmt.Errorf("graph: neighbor row %d not strictly sorted", i)
			}
		}
		for j, w := range g.Weights[s:e] {
			if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("graph: non-positive or non-finite weight at node %d neighbor %d", i, row[j])
			}
			neighbor := row[j]
			if neighbor != i && g.EdgeWeight(neighbor, i) != w {
				return fmt.Errorf("graph: asymmetric edge %d-%d", i, neighbor)
			}
		}
	}
	return nil
}

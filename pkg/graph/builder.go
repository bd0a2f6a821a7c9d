package graph

import (
	"fmt"
	"math"
	"sort"
)

// Index is the bidirectional label<->index map produced alongside a Graph,
// so callers can translate the engine's internal node indices back to the
// caller's opaque string labels.
type Index struct {
	labelToIndex map[string]int
	indexToLabel []string
}

// ToIndex returns the internal node index for a label, if known.
func (ix *Index) ToIndex(label string) (int, bool) {
	i, ok := ix.labelToIndex[label]
	return i, ok
}

// ToLabel returns the label a node index was interned from.
func (ix *Index) ToLabel(i int) string {
	return ix.indexToLabel[i]
}

// Len returns the number of interned labels.
func (ix *Index) Len() int {
	return len(ix.indexToLabel)
}

type pair struct{ a, b int }

// Builder accumulates an edge list into a Graph. Labels are interned in
// first-seen order; parallel edges are coalesced by summing their weights
// (spec.md §4.1); self-loops are kept as supplied, stored once per node.
type Builder struct {
	kind QualityKind

	labelToIndex map[string]int
	indexToLabel []string

	undirected map[pair]float64
	selfLoop   map[int]float64
}

// NewBuilder creates an empty Builder for the given quality-function
// convention (see QualityKind).
func NewBuilder(kind QualityKind) *Builder {
	return &Builder{
		kind:         kind,
		labelToIndex: make(map[string]int),
		undirected:   make(map[pair]float64),
		selfLoop:     make(map[int]float64),
	}
}

func (b *Builder) idFor(label string) int {
	if idx, ok := b.labelToIndex[label]; ok {
		return idx
	}
	idx := len(b.indexToLabel)
	b.labelToIndex[label] = idx
	b.indexToLabel = append(b.indexToLabel, label)
	return idx
}

// AddEdge adds an undirected edge between two labels with a positive,
// finite weight. Repeated calls for the same unordered pair accumulate
// (spec.md §4.1's coalesce-by-summing rule).
func (b *Builder) AddEdge(uLabel, vLabel string, weight float64) error {
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: weight %v for edge %s-%s", ErrInvalidEdge, weight, uLabel, vLabel)
	}
	u := b.idFor(uLabel)
	v := b.idFor(vLabel)
	if u == v {
		b.selfLoop[u] += weight
		return nil
	}
	if u > v {
		u, v = v, u
	}
	b.undirected[pair{u, v}] += weight
	return nil
}

// Build finalizes the accumulated edges into a Graph and its label Index.
func (b *Builder) Build() (*Graph, *Index, error) {
	n := len(b.indexToLabel)
	if n == 0 || (len(b.undirected) == 0 && len(b.selfLoop) == 0) {
		return nil, nil, ErrEmptyGraph
	}

	// Pass 1: count fan-out per node (including a slot for its self-loop,
	// if any) to size the CSR arrays.
	degreeCount := make([]int, n)
	for p := range b.undirected {
		degreeCount[p.a]++
		degreeCount[p.b]++
	}
	for node := range b.selfLoop {
		degreeCount[node]++
	}

	offsets := make([]int, n+1)
	for i := 0; i < n; i++ {
		offsets[i+1] = offsets[i] + degreeCount[i]
	}

	neighbors := make([]int, offsets[n])
	weights := make([]float64, offsets[n])
	cursor := append([]int(nil), offsets[:n]...)

	place := func(from, to int, w float64) {
		neighbors[cursor[from]] = to
		weights[cursor[from]] = w
		cursor[from]++
	}
	for p, w := range b.undirected {
		place(p.a, p.b, w)
		place(p.b, p.a, w)
	}
	for node, w := range b.selfLoop {
		place(node, node, w)
	}

	// Pass 2: sort each row by neighbor index so EdgeWeight can binary
	// search and Validate can check strict ordering.
	for i := 0; i < n; i++ {
		s, e := offsets[i], offsets[i+1]
		sortRow(neighbors[s:e], weights[s:e])
	}

	selfLoopWeight := make([]float64, n)
	for node, w := range b.selfLoop {
		selfLoopWeight[node] = w
	}

	degrees := make([]float64, n)
	var rawSum, selfLoopSum float64
	for i := 0; i < n; i++ {
		s, e := offsets[i], offsets[i+1]
		var rowSum float64
		for _, w := range weights[s:e] {
			rowSum += w
		}
		degrees[i] = rowSum + selfLoopWeight[i]
		rawSum += rowSum
		selfLoopSum += selfLoopWeight[i]
	}
	totalEdgeWeight := (rawSum + selfLoopSum) / 2

	nodeWeights := make([]float64, n)
	switch b.kind {
	case CPM:
		for i := range nodeWeights {
			nodeWeights[i] = 1
		}
	default:
		// Modularity node weight is the node's degree d_i: a self-loop is
		// incident to its node twice in the graph-theoretic sense, which
		// is exactly what Degrees already encodes (§4.2's "doubled as a
		// degree contribution" convention).
		copy(nodeWeights, degrees)
	}

	g := &Graph{
		Kind:            b.kind,
		NumNodes:        n,
		Offsets:         offsets,
		Neighbors:       neighbors,
		Weights:         weights,
		NodeWeights:     nodeWeights,
		Degrees:         degrees,
		SelfLoopWeight:  selfLoopWeight,
		TotalEdgeWeight: totalEdgeWeight,
	}

	index := &Index{labelToIndex: b.labelToIndex, indexToLabel: b.indexToLabel}
	return g, index, nil
}

func sortRow(neighbors []int, weights []float64) {
	idx := make([]int, len(neighbors))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return neighbors[idx[i]] < neighbors[idx[j]] })
	sortedN := make([]int, len(neighbors))
	sortedW := make([]float64, len(weights))
	for i, j := range idx {
		sortedN[i] = neighbors[j]
		sortedW[i] = weights[j]
	}
	copy(neighbors, sortedN)
	copy(weights, sortedW)
}

// Package quality implements the two supported objective functions —
// Modularity and the Constant Potts Model (CPM) — behind a single shared
// delta formula, so the local-moving and refinement phases never have to
// branch on which objective is active.
//
// Grounded on original_source/.../leiden/quality_value_increment.rs
// (calculate = cluster_edge_weights - node_weight*cluster_weight*
// adjusted_resolution) and original_source/.../resolution.rs's
// adjust_resolution, which rescales modularity's resolution by 1/(2W) so
// the same formula serves both objectives. This resolves the apparent
// mismatch between spec.md's two delta formulas into one hot-path free of
// dynamic dispatch (spec.md §9). Total's per-community internal-weight
// term is grounded on original_source/.../quality.rs's quality(): a
// per-node same-cluster-neighbor-weight summation, which double-counts
// every internal cross-node edge (once from each endpoint) and counts a
// self-loop row entry once — the row entry pkg/aggregate constructs for
// an aggregate node's self-loop is sized precisely so a single such read
// reproduces what this same summation would have produced on the
// pre-aggregation graph.
package quality

import "github.com/weftgraph/leiden/pkg/graph"

// Kind selects which objective a Function evaluates.
type Kind int

const (
	Modularity Kind = iota
	CPM
)

// Function is a resolved objective: its Kind plus both the raw resolution
// (used by Total) and an adjusted resolution (used by Delta/WellConnected).
// Not an interface — both objectives share one code path via this single
// struct, never dynamic dispatch.
type Function struct {
	Kind          Kind
	RawResolution float64

	adjustedResolution float64

	// w2 is 2W, cached so Total/New don't recompute it from g repeatedly.
	w2 float64
}

// New resolves a Function for graph g under the given kind and raw
// (unscaled) resolution. For Modularity, Delta/WellConnected's adjusted
// resolution is resolution/(2W), per
// original_source/.../resolution.rs's adjust_resolution; for CPM, the
// adjusted resolution equals the raw one.
func New(kind Kind, resolution float64, g *graph.Graph) Function {
	w2 := 2 * g.TotalEdgeWeight
	f := Function{Kind: kind, RawResolution: resolution, w2: w2}
	switch kind {
	case Modularity:
		if w2 == 0 {
			f.adjustedResolution = 0
		} else {
			f.adjustedResolution = resolution / w2
		}
	default:
		f.adjustedResolution = resolution
	}
	return f
}

// Delta returns the (objective-specific, ranking-only) gain of placing a
// node carrying nodeWeight into a candidate community, given the total
// edge weight from that node to the candidate community
// (edgeWeightToCluster) and the candidate community's total node weight
// excluding the node itself (clusterWeight). Comparing Delta across
// candidate communities for the same node yields the same ordering as
// comparing true ΔQ, for both objectives.
func (f Function) Delta(edgeWeightToCluster, nodeWeight, clusterWeight float64) float64 {
	return edgeWeightToCluster - nodeWeight*clusterWeight*f.adjustedResolution
}

// Aggregates is the minimal per-community view Total needs: for each
// community, its internal edge weight (per-node same-cluster-neighbor-
// weight summation, so each internal cross-node edge counts twice and
// each self-loop row entry counts once) and its total node weight.
// ComputeAggregates derives this from a graph and a community
// assignment.
type Aggregates struct {
	InternalWeight  []float64
	CommunityWeight []float64
}

// Total computes Q for a full clustering, per spec.md §4.2:
//
//	Modularity: Q = (1/2W) * Σ_c [ internal_weight(c) - γ*(degree_sum(c))²/(2W) ]
//	CPM:        Q = Σ_c [ internal_weight(c) - γ*node_weight(c)² ]           (no global normalization by W)
func (f Function) Total(agg Aggregates) float64 {
	switch f.Kind {
	case Modularity:
		if f.w2 == 0 {
			return 0
		}
		var q float64
		for c := range agg.InternalWeight {
			q += agg.InternalWeight[c] - f.RawResolution*agg.CommunityWeight[c]*agg.CommunityWeight[c]/f.w2
		}
		return q / f.w2
	default: // CPM
		var q float64
		for c := range agg.InternalWeight {
			q += agg.InternalWeight[c] - f.RawResolution*agg.CommunityWeight[c]*agg.CommunityWeight[c]
		}
		return q
	}
}

// ComputeAggregates derives per-community internal edge weight and total
// node weight for Total, from a graph and a node->community assignment
// (communityOf[i] in [0, numCommunities)). Internal weight is the sum,
// over every node in the community, of that node's same-community
// neighbor weights — so a cross-node internal edge is counted once from
// each endpoint (twice total) and a self-loop row entry is counted once
// (it appears once in its node's row). pkg/graph's Degrees separately
// adds a node's self-loop weight a second time, via SelfLoopWeight, but
// that addend never feeds this sum.
func ComputeAggregates(g *graph.Graph, communityOf []int, numCommunities int) Aggregates {
	agg := Aggregates{
		InternalWeight:  make([]float64, numCommunities),
		CommunityWeight: make([]float64, numCommunities),
	}
	for i := 0; i < g.NumNodes; i++ {
		c := communityOf[i]
		agg.CommunityWeight[c] += g.NodeWeights[i]
		neighbors := g.NeighborIndices(i)
		weights := g.NeighborWeights(i)
		for k, j := range neighbors {
			if communityOf[j] == c {
				agg.InternalWeight[c] += weights[k]
			}
		}
	}
	return agg
}

// WellConnected reports whether a candidate subcommunity within a
// refinement cluster is well-connected to the rest of that cluster: its
// cut weight to the remainder must be at least the resolution-scaled
// product of its node weight and the remainder's node weight. Grounded on
// original_source/.../leiden/subnetwork.rs's node_can_move check.
func (f Function) WellConnected(cutWeight, subWeight, remainderWeight float64) bool {
	return cutWeight >= subWeight*remainderWeight*f.adjustedResolution
}

// Package refine implements the Leiden refinement phase: within each
// community produced by local-moving, split it back into well-connected
// subcommunities via a singleton-start, merge-only randomized process.
//
// Grounded line-for-line on
// original_source/.../leiden/subnetwork.rs's SubnetworkClusteringGenerator:
// the well-connectedness admission test (node_can_move / the per-candidate
// check in best_cluster_for_node), proportional selection via cumulative
// exp(Δ/θ) weights and a binary search against a uniform draw, and the
// clamped approximate_exponent (any Δ/θ < -256 contributes weight 0).
package refine

import (
	"math"
	"sort"

	"github.com/weftgraph/leiden/pkg/cluster"
	"github.com/weftgraph/leiden/pkg/graph"
	"github.com/weftgraph/leiden/pkg/quality"
	"github.com/weftgraph/leiden/pkg/rng"
)

// DefaultRandomness is θ, the default temperature of the proportional
// selection distribution, matching
// original_source/.../leiden/subnetwork.rs's DEFAULT_RANDOMNESS.
const DefaultRandomness = 1e-2

// exponentUnderflow is the Δ/θ threshold below which exp(Δ/θ) is treated
// as exactly 0 rather than computed, per spec.md §4.9's clamp
// requirement and subnetwork.rs's approximate_exponent.
const exponentUnderflow = -256

// Run produces a finer Clustering from parent: every node starts in its
// own singleton subcommunity; nodes are visited in a random permutation
// and merged, one at a time, into a well-connected neighbor subcommunity
// chosen by randomized proportional selection, never split across
// parent's community boundaries. theta must be > 0.
func Run(g *graph.Graph, parent *cluster.Clustering, f quality.Function, r *rng.Source, theta float64) *cluster.Clustering {
	n := g.NumNodes
	sub := cluster.New(g) // community id == node index while singleton

	parentOf := append([]int(nil), parent.NodeToCommunity...)
	singleton := make([]bool, n)
	for i := range singleton {
		singleton[i] = true
	}

	order := r.Permutation(n)
	for _, i := range order {
		if !singleton[i] {
			continue
		}
		parentComm := parentOf[i]
		parentWeight := parent.CommunityWeight[parentComm]

		ownCut := cutToParentRemainder(g, sub, parentOf, parentComm, i)
		if !f.WellConnected(ownCut, g.NodeWeights[i], parentWeight-g.NodeWeights[i]) {
			continue
		}

		candidateEdgeWeight := make(map[int]float64)
		for k, neighbor := range g.NeighborIndices(i) {
			if neighbor == i || parentOf[neighbor] != parentComm {
				continue
			}
			candidateEdgeWeight[sub.Community(neighbor)] += g.NeighborWeights(i)[k]
		}

		type candidate struct {
			comm  int
			delta float64
		}
		var candidates []candidate
		for sComm, edgeWeight := range candidateEdgeWeight {
			if sComm == i {
				continue
			}
			subWeight := sub.CommunityWeight[sComm]
			cut := cutToParentRemainder(g, sub, parentOf, parentComm, sComm)
			if !f.WellConnected(cut, subWeight, parentWeight-subWeight) {
				continue
			}
			delta := f.Delta(edgeWeight, g.NodeWeights[i], subWeight)
			if delta > 0 {
				candidates = append(candidates, candidate{comm: sComm, delta: delta})
			}
		}
		if len(candidates) == 0 {
			continue
		}
		sort.Slice(candidates, func(a, b int) bool { return candidates[a].comm < candidates[b].comm })

		cumulative := make([]float64, len(candidates))
		var total float64
		for idx, cand := range candidates {
			total += approximateExp(cand.delta / theta)
			cumulative[idx] = total
		}

		target := candidates[len(candidates)-1].comm
		if total > 0 {
			draw := r.Float64() * total
			pos := sort.SearchFloat64s(cumulative, draw)
			if pos >= len(candidates) {
				pos = len(candidates) - 1
			}
			target = candidates[pos].comm
		}

		sub.Move(g, i, target)
		singleton[i] = false
	}

	return sub
}

// cutToParentRemainder returns the total edge weight from the members of
// subcommunity subComm to nodes in the same parent community parentComm
// but a different subcommunity.
func cutToParentRemainder(g *graph.Graph, sub *cluster.Clustering, parentOf []int, parentComm, subComm int) float64 {
	var cut float64
	for _, node := range sub.CommunityNodes[subComm] {
		for k, neighbor := range g.NeighborIndices(node) {
			if neighbor == node || parentOf[neighbor] != parentComm {
				continue
			}
			if sub.Community(neighbor) == subComm {
				continue
			}
			cut += g.NeighborWeights(node)[k]
		}
	}
	return cut
}

// approximateExp computes exp(x), clamping to 0 below exponentUnderflow to
// avoid wasted work and denormal arithmetic on terms that would not
// meaningfully contribute to the cumulative distribution anyway.
func approximateExp(x float64) float64 {
	if x < exponentUnderflow {
		return 0
	}
	return math.Exp(x)
}

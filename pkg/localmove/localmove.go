// Package localmove implements the Leiden local-moving phase: a
// queue-based greedy sweep that repeatedly moves a node into the
// neighbor community maximizing quality gain, re-enqueuing neighbors
// whose best move may have changed, until the queue empties.
//
// Grounded on original_source/.../leiden/full_network_work_queue.rs (the
// circular work queue, pop-front/re-enqueue-neighbors discipline) and
// pkg/louvain/algorithm.go's OneLevel (lowest-community-id tie-break,
// non-strict-positive move threshold, empty-community-slot candidacy).
package localmove

import (
	"github.com/weftgraph/leiden/pkg/cluster"
	"github.com/weftgraph/leiden/pkg/graph"
	"github.com/weftgraph/leiden/pkg/quality"
	"github.com/weftgraph/leiden/pkg/rng"
)

// Run performs a single local-moving sweep over g, mutating c in place.
// It returns whether at least one node moved during the sweep (spec.md
// §4.6 step 2a / the driver's convergence test), per the shared Source
// r's permutation for the initial queue order, plus the number of nodes
// that moved (for Statistics.LevelStats).
func Run(g *graph.Graph, c *cluster.Clustering, f quality.Function, r *rng.Source) (bool, int) {
	n := g.NumNodes
	order := r.Permutation(n)

	inQueue := make([]bool, n)
	queue := make([]int, 0, n)
	for _, node := range order {
		queue = append(queue, node)
		inQueue[node] = true
	}

	moves := 0

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		inQueue[node] = false

		if move(g, c, f, node) {
			moves++
			for _, neighbor := range g.NeighborIndices(node) {
				if neighbor == node {
					continue
				}
				if c.Community(neighbor) != c.Community(node) && !inQueue[neighbor] {
					queue = append(queue, neighbor)
					inQueue[neighbor] = true
				}
			}
		}
	}

	return moves > 0, moves
}

// move evaluates every candidate community for node (its current
// community, every neighbor's community, and one empty slot) and moves
// it to the best-scoring one if that beats staying put. Returns whether a
// move was made.
func move(g *graph.Graph, c *cluster.Clustering, f quality.Function, node int) bool {
	currentComm := c.Community(node)
	nodeWeight := g.NodeWeights[node]

	edgeWeightToComm := make(map[int]float64)
	neighbors := g.NeighborIndices(node)
	weights := g.NeighborWeights(node)
	for i, neighbor := range neighbors {
		if neighbor == node {
			continue
		}
		edgeWeightToComm[c.Community(neighbor)] += weights[i]
	}
	// The current community is always a candidate, even with zero
	// cross-edge weight to it (a node with no same-community neighbors
	// left can still choose to stay).
	if _, ok := edgeWeightToComm[currentComm]; !ok {
		edgeWeightToComm[currentComm] = 0
	}
	// An empty community slot is always a candidate (spec.md §4.3,
	// grounded on full_network_clustering.rs's identify_neighboring_
	// clusters behavior of seeding one unused cluster id). Evaluated
	// against a hypothetical id one past current capacity; only actually
	// allocated if it wins.
	emptySlot := c.Cap()
	edgeWeightToComm[emptySlot] = 0

	stayGain := f.Delta(edgeWeightToComm[currentComm], nodeWeight, c.CommunityWeight[currentComm]-nodeWeight)

	bestComm := -1
	var bestGain float64
	for targetComm, edgeWeight := range edgeWeightToComm {
		if targetComm == currentComm {
			continue
		}
		var clusterWeight float64
		if targetComm != emptySlot {
			clusterWeight = c.CommunityWeight[targetComm]
		}
		gain := f.Delta(edgeWeight, nodeWeight, clusterWeight)
		if bestComm == -1 || gain > bestGain || (gain == bestGain && targetComm < bestComm) {
			bestGain = gain
			bestComm = targetComm
		}
	}

	// Δ is the gain of moving relative to staying; only move on a strict
	// improvement (spec.md §4.3: "Δ ≤ 0 stays put").
	if bestComm == -1 || bestGain-stayGain <= 0 {
		return false
	}

	if bestComm == emptySlot {
		bestComm = c.NewCommunitySlot()
	}
	c.Move(g, node, bestComm)
	return true
}

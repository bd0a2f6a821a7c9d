// Package cluster implements the mutable node->community assignment the
// Leiden phases operate on, together with the per-community aggregates
// (node-weight sums, sizes, membership lists) spec.md §3 requires be
// maintained incrementally rather than recomputed on every move.
//
// Generalizes pkg/louvain/algorithm.go's Community type (parallel
// NodeToCommunity/CommunityNodes/CommunityWeights/CommunityInternalWeights
// arrays) to track node-weight sums instead of baking in a single quality
// function's bookkeeping, since Clustering is shared by both the
// modularity and CPM objectives.
package cluster

import (
	"fmt"

	"github.com/weftgraph/leiden/pkg/graph"
)

// Clustering assigns every node of a Graph to exactly one community and
// incrementally maintains, per community: its total node weight and its
// node count. Community ids need not be contiguous while mutating; call
// Compact to renumber to 0..K'-1 once a phase is done.
type Clustering struct {
	NodeToCommunity []int
	CommunityNodes  [][]int
	CommunityWeight []float64
	CommunitySize   []int
}

// New places every node of g in its own singleton community, community id
// equal to node index.
func New(g *graph.Graph) *Clustering {
	n := g.NumNodes
	c := &Clustering{
		NodeToCommunity: make([]int, n),
		CommunityNodes:  make([][]int, n),
		CommunityWeight: make([]float64, n),
		CommunitySize:   make([]int, n),
	}
	for i := 0; i < n; i++ {
		c.NodeToCommunity[i] = i
		c.CommunityNodes[i] = []int{i}
		c.CommunityWeight[i] = g.NodeWeights[i]
		c.CommunitySize[i] = 1
	}
	return c
}

// FromAssignment builds a Clustering from an explicit node->community
// mapping (used to adopt caller-supplied starting_communities, or to seed
// an aggregated graph's clustering from the parent level's community ids).
// Community ids are used as given; capacity is sized to the largest id
// referenced.
func FromAssignment(g *graph.Graph, assignment []int) (*Clustering, error) {
	if len(assignment) != g.NumNodes {
		return nil, fmt.Errorf("cluster: assignment length %d does not match graph size %d", len(assignment), g.NumNodes)
	}
	maxID := -1
	for _, id := range assignment {
		if id < 0 {
			return nil, fmt.Errorf("cluster: negative community id %d", id)
		}
		if id > maxID {
			maxID = id
		}
	}
	c := &Clustering{
		NodeToCommunity: append([]int(nil), assignment...),
		CommunityNodes:  make([][]int, maxID+1),
		CommunityWeight: make([]float64, maxID+1),
		CommunitySize:   make([]int, maxID+1),
	}
	for node, id := range assignment {
		c.CommunityNodes[id] = append(c.CommunityNodes[id], node)
		c.CommunityWeight[id] += g.NodeWeights[node]
		c.CommunitySize[id]++
	}
	return c, nil
}

// NumNodes returns the number of nodes assigned.
func (c *Clustering) NumNodes() int {
	return len(c.NodeToCommunity)
}

// Cap returns the current community-id capacity (one past the highest id
// ever allocated); some ids in [0, Cap) may have size 0.
func (c *Clustering) Cap() int {
	return len(c.CommunityWeight)
}

// Community returns the community of a node.
func (c *Clustering) Community(node int) int {
	return c.NodeToCommunity[node]
}

// EnsureCapacity grows the aggregate arrays so community id is addressable.
func (c *Clustering) EnsureCapacity(id int) {
	for id >= c.Cap() {
		c.CommunityNodes = append(c.CommunityNodes, nil)
		c.CommunityWeight = append(c.CommunityWeight, 0)
		c.CommunitySize = append(c.CommunitySize, 0)
	}
}

// NewCommunitySlot allocates a fresh, currently-empty community id and
// returns it, growing capacity by one.
func (c *Clustering) NewCommunitySlot() int {
	id := c.Cap()
	c.EnsureCapacity(id)
	return id
}

// Move reassigns node from its current community to newComm, updating the
// incremental aggregates. No-op if newComm equals the node's current
// community.
func (c *Clustering) Move(g *graph.Graph, node, newComm int) {
	oldComm := c.NodeToCommunity[node]
	if oldComm == newComm {
		return
	}
	c.EnsureCapacity(newComm)

	w := g.NodeWeights[node]

	nodes := c.CommunityNodes[oldComm]
	for i, n := range nodes {
		if n == node {
			nodes[i] = nodes[len(nodes)-1]
			c.CommunityNodes[oldComm] = nodes[:len(nodes)-1]
			break
		}
	}
	c.CommunityWeight[oldComm] -= w
	c.CommunitySize[oldComm]--

	c.CommunityNodes[newComm] = append(c.CommunityNodes[newComm], node)
	c.CommunityWeight[newComm] += w
	c.CommunitySize[newComm]++
	c.NodeToCommunity[node] = newComm
}

// NodesPerCommunity returns, for each community id in [0, Cap), the list of
// nodes assigned to it (possibly empty).
func (c *Clustering) NodesPerCommunity() [][]int {
	return c.CommunityNodes
}

// Compact renumbers nonempty communities to a contiguous 0..K'-1 range,
// preserving the relative order of the old ids, and returns the
// old-id->new-id mapping (entries for empty communities are left as -1).
func (c *Clustering) Compact() []int {
	mapping := make([]int, c.Cap())
	for i := range mapping {
		mapping[i] = -1
	}
	next := 0
	for old := 0; old < c.Cap(); old++ {
		if c.CommunitySize[old] > 0 {
			mapping[old] = next
			next++
		}
	}

	newNodes := make([][]int, next)
	newWeight := make([]float64, next)
	newSize := make([]int, next)
	for old := 0; old < c.Cap(); old++ {
		if mapping[old] == -1 {
			continue
		}
		newID := mapping[old]
		newNodes[newID] = c.CommunityNodes[old]
		newWeight[newID] = c.CommunityWeight[old]
		newSize[newID] = c.CommunitySize[old]
	}
	for node, old := range c.NodeToCommunity {
		c.NodeToCommunity[node] = mapping[old]
	}
	c.CommunityNodes = newNodes
	c.CommunityWeight = newWeight
	c.CommunitySize = newSize
	return mapping
}

// Clone returns a deep copy, used where a phase boundary must snapshot a
// Clustering so a later phase's mutation cannot be observed by an earlier
// one (spec.md §3's "Lifecycles").
func (c *Clustering) Clone() *Clustering {
	clone := &Clustering{
		NodeToCommunity: append([]int(nil), c.NodeToCommunity...),
		CommunityNodes:  make([][]int, len(c.CommunityNodes)),
		CommunityWeight: append([]float64(nil), c.CommunityWeight...),
		CommunitySize:   append([]int(nil), c.CommunitySize...),
	}
	for i, nodes := range c.CommunityNodes {
		clone.CommunityNodes[i] = append([]int(nil), nodes...)
	}
	return clone
}

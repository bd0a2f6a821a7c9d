package leiden

import (
	"github.com/weftgraph/leiden/pkg/cluster"
	"github.com/weftgraph/leiden/pkg/graph"
)

// sanitizeDisconnectedCommunities splits any community of c whose induced
// subgraph is disconnected into one community per connected component,
// keeping the first component under the original id. This supplements
// spec.md's driver with a feature present in
// original_source/.../leiden/leiden.rs's guarantee_clustering_sanity,
// dropped by the distillation: local-moving and refinement both assume a
// starting clustering whose communities are themselves internally
// connected (trivially true for singletons, not necessarily true for a
// caller-supplied starting_communities).
func sanitizeDisconnectedCommunities(g *graph.Graph, c *cluster.Clustering) *cluster.Clustering {
	visited := make([]bool, g.NumNodes)

	for comm := 0; comm < c.Cap(); comm++ {
		nodes := c.CommunityNodes[comm]
		if len(nodes) <= 1 {
			continue
		}
		inComm := make(map[int]bool, len(nodes))
		for _, n := range nodes {
			inComm[n] = true
		}

		var components [][]int
		for _, start := range nodes {
			if visited[start] {
				continue
			}
			var component []int
			queue := []int{start}
			visited[start] = true
			for len(queue) > 0 {
				node := queue[0]
				queue = queue[1:]
				component = append(component, node)
				for _, neighbor := range g.NeighborIndices(node) {
					if neighbor == node || !inComm[neighbor] || visited[neighbor] {
						continue
					}
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
			components = append(components, component)
		}
		for _, n := range nodes {
			visited[n] = false
		}

		if len(components) <= 1 {
			continue
		}
		// Leave the first component under comm; move the rest to fresh ids.
		for _, component := range components[1:] {
			newComm := c.NewCommunitySlot()
			for _, node := range component {
				c.Move(g, node, newComm)
			}
		}
	}

	return c
}

package taskgraph

// Adjacency maps a task id to the ids reachable from it in one edge. It is a
// snapshot supplied by the caller; the traversal functions below never touch
// storage.
type Adjacency map[string][]string

// BuildAdjacency collapses an edge snapshot into forward adjacency, keyed by
// the dependent side.
func BuildAdjacency(edges []DependencyEdge) Adjacency {
	adj := make(Adjacency, len(edges))
	for _, e := range edges {
		adj[e.DependentID] = append(adj[e.DependentID], e.DependencyID)
	}
	return adj
}

// WouldCreateCycle reports whether adding the edge from→to on top of adj would
// close a directed loop: either from == to, or a path to→…→from already
// exists. O(V+E) breadth-first search.
func WouldCreateCycle(adj Adjacency, from, to string) bool {
	if from == to {
		return true
	}
	return IsReachable(adj, to, from)
}

// IsReachable reports whether target can be reached from start by following
// edges in adj. The visited set guarantees termination even when adj already
// contains a cycle.
func IsReachable(adj Adjacency, start, target string) bool {
	if start == target {
		return true
	}
	visited := map[string]struct{}{start: {}}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if next == target {
				return true
			}
			if _, ok := visited[next]; ok {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return false
}

// IsAncestor reports whether node appears on the parent chain above start.
// parents is a child→parent snapshot of the hierarchy relation. The visited
// set bounds the walk over malformed (cyclic) data.
func IsAncestor(parents map[string]string, node, start string) bool {
	visited := make(map[string]struct{})
	for cur := parents[start]; cur != ""; cur = parents[cur] {
		if cur == node {
			return true
		}
		if _, ok := visited[cur]; ok {
			return false
		}
		visited[cur] = struct{}{}
	}
	return false
}

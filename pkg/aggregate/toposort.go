package aggregate

// Node is one task-graph node as seen by the scheduler: an id plus the ids
// of tasks it depends on (spec.md §4.4.13 Decompose).
type Node struct {
	ID        string
	DependsOn []string
}

// Waves groups nodes into Kahn's-algorithm waves: wave 0 holds every node
// with no unsatisfied dependency, wave 1 holds every node whose
// dependencies are all satisfied by wave 0, and so on. ok is false when the
// graph contains a cycle, in which case waves is nil.
func Waves(nodes []Node) (waves [][]string, ok bool) {
	indegree := make(map[string]int, len(nodes))
	dependents := make(map[string][]string, len(nodes))
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}
	for _, n := range nodes {
		for _, dep := range n.DependsOn {
			if !known[dep] {
				continue
			}
			indegree[n.ID]++
			dependents[dep] = append(dependents[dep], n.ID)
		}
	}

	remaining := len(nodes)
	var frontier []string
	for _, n := range nodes {
		if indegree[n.ID] == 0 {
			frontier = append(frontier, n.ID)
		}
	}

	for len(frontier) > 0 {
		waves = append(waves, frontier)
		remaining -= len(frontier)
		var next []string
		for _, id := range frontier {
			for _, dep := range dependents[id] {
				indegree[dep]--
				if indegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		frontier = next
	}

	if remaining > 0 {
		return nil, false
	}
	return waves, true
}

// Flatten drops every dependency from every node, collapsing the graph
// into a single wave. Used after a second consecutive cycle detection
// (spec.md §4.4.13: "on second cycle, flatten all dependencies to empty").
func Flatten(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Node{ID: n.ID}
	}
	return out
}

// CriticalPathMs computes the longest dependency chain's cumulative
// duration, summing durationMs per task along the chain (spec.md §4.4.13).
func CriticalPathMs(nodes []Node, durationMs map[string]int64) int64 {
	memo := make(map[string]int64, len(nodes))
	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	var longest func(id string, visiting map[string]bool) int64
	longest = func(id string, visiting map[string]bool) int64 {
		if v, ok := memo[id]; ok {
			return v
		}
		if visiting[id] {
			return 0 // cycle guard; should not occur on a validated DAG
		}
		visiting[id] = true
		n := byID[id]
		var best int64
		for _, dep := range n.DependsOn {
			if _, ok := byID[dep]; !ok {
				continue
			}
			if v := longest(dep, visiting); v > best {
				best = v
			}
		}
		delete(visiting, id)
		total := best + durationMs[id]
		memo[id] = total
		return total
	}

	var max int64
	for _, n := range nodes {
		if v := longest(n.ID, map[string]bool{}); v > max {
			max = v
		}
	}
	return max
}

// ParallelismEfficiency computes Sigma(task_ms) / total_wall_ms (spec.md
// §4.4.13). Returns 0 when totalWallMs is 0.
func ParallelismEfficiency(durationMs map[string]int64, totalWallMs int64) float64 {
	if totalWallMs == 0 {
		return 0
	}
	var sum int64
	for _, d := range durationMs {
		sum += d
	}
	return float64(sum) / float64(totalWallMs)
}

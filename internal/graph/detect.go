// # internal/graph/detect.go
package graph

import (
	"sort"
	"strings"
)

// FindCycles enumerates import cycles. The walk is an iterative DFS
// with an explicit frame stack so deep import chains cannot exhaust
// the call stack, and the current path carries an index map for O(1)
// on-path checks. Neighbors are visited in lexicographic order, so
// output is stable across runs.
//
// Each cycle is reported with its first file repeated at the end. Two
// cycles over the same set of files are the same cycle regardless of
// where the walk entered them; only the first-found representative is
// kept. This finds at least one cycle per strongly connected cluster,
// not every elementary cycle.
func (g *Graph) FindCycles() [][]string {
	g.mu.RLock()
	adjacency := make(map[string][]string, len(g.nodes))
	for file := range g.nodes {
		adjacency[file] = sortedKeys(g.out[file])
	}
	starts := sortedKeys(g.nodes)
	g.mu.RUnlock()

	var cycles [][]string
	seen := make(map[string]bool)
	visited := make(map[string]bool, len(starts))

	type frame struct {
		node string
		next int
	}

	for _, start := range starts {
		if visited[start] {
			continue
		}
		visited[start] = true

		stack := []frame{{node: start}}
		path := []string{start}
		pathIndex := map[string]int{start: 0}

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			neighbors := adjacency[f.node]

			if f.next < len(neighbors) {
				n := neighbors[f.next]
				f.next++

				if at, onPath := pathIndex[n]; onPath {
					cycle := make([]string, len(path)-at, len(path)-at+1)
					copy(cycle, path[at:])
					cycle = append(cycle, n)
					if key := cycleKey(cycle); !seen[key] {
						seen[key] = true
						cycles = append(cycles, cycle)
					}
				} else if !visited[n] {
					visited[n] = true
					stack = append(stack, frame{node: n})
					pathIndex[n] = len(path)
					path = append(path, n)
				}
			} else {
				done := f.node
				stack = stack[:len(stack)-1]
				delete(pathIndex, done)
				path = path[:len(path)-1]
			}
		}
	}

	return cycles
}

// cycleKey canonicalizes a cycle by its member set: the closing repeat
// is dropped and members sorted, so rotations and directions collapse
// to one key.
func cycleKey(cycle []string) string {
	members := make([]string, len(cycle)-1)
	copy(members, cycle[:len(cycle)-1])
	sort.Strings(members)
	return strings.Join(members, "\x00")
}

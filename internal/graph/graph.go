// # internal/graph/graph.go
package graph

import (
	"sort"
	"sync"
)

// Graph is the directed file-dependency graph. Nodes are canonical
// project-relative file paths; an edge a -> b means a imports b. Every
// scanned file is a node even when it touches nothing, so the coupling
// table covers the whole project.
type Graph struct {
	mu sync.RWMutex

	nodes map[string]bool
	out   map[string]map[string]bool // from -> to
	in    map[string]map[string]bool // to -> from
}

func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]bool),
		out:   make(map[string]map[string]bool),
		in:    make(map[string]map[string]bool),
	}
}

// AddNode registers a file with no edges. Adding the same file twice
// is a no-op.
func (g *Graph) AddNode(file string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes[file] = true
}

// AddEdge records that from imports to. The same pair recorded twice
// contributes one edge. Both endpoints become nodes.
func (g *Graph) AddEdge(from, to string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes[from] = true
	g.nodes[to] = true

	if g.out[from] == nil {
		g.out[from] = make(map[string]bool)
	}
	g.out[from][to] = true

	if g.in[to] == nil {
		g.in[to] = make(map[string]bool)
	}
	g.in[to][from] = true
}

// RemoveFile drops a node and every edge touching it. Used by watch
// mode when a file disappears between runs.
func (g *Graph) RemoveFile(file string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for to := range g.out[file] {
		delete(g.in[to], file)
	}
	for from := range g.in[file] {
		delete(g.out[from], file)
	}
	delete(g.out, file)
	delete(g.in, file)
	delete(g.nodes, file)
}

// Files returns every node in lexicographic order.
func (g *Graph) Files() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.nodes)
}

// Imports returns the files that file imports, sorted.
func (g *Graph) Imports(file string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.out[file])
}

// ImportedBy returns the files that import file, sorted.
func (g *Graph) ImportedBy(file string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.in[file])
}

// HasEdge reports whether from imports to.
func (g *Graph) HasEdge(from, to string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.out[from][to]
}

// FileCount returns the number of nodes.
func (g *Graph) FileCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, targets := range g.out {
		n += len(targets)
	}
	return n
}

// Adjacency returns a snapshot of the graph as file -> sorted imports,
// with an entry for every node. Renderers consume this form.
func (g *Graph) Adjacency() map[string][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	res := make(map[string][]string, len(g.nodes))
	for file := range g.nodes {
		res[file] = sortedKeys(g.out[file])
	}
	return res
}

// Dependents returns every file that transitively imports file,
// including file itself. Watch mode uses this to decide what a change
// can invalidate.
func (g *Graph) Dependents(file string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := map[string]bool{file: true}
	queue := []string{file}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for importer := range g.in[cur] {
			if !seen[importer] {
				seen[importer] = true
				queue = append(queue, importer)
			}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

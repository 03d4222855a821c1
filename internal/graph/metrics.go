// # internal/graph/metrics.go
package graph

// CouplingMetric summarizes how one file sits in the dependency graph:
// Ca files depend on it, it depends on Ce files, and instability is
// Ce/(Ca+Ce) -- 1.0 means the file only depends outward, 0.0 means it
// is only depended upon.
type CouplingMetric struct {
	File        string
	Ca          int
	Ce          int
	Instability float64
}

// ComputeCoupling derives the per-file coupling table from the final
// graph. Every node gets an entry; an isolated file scores Ca=0, Ce=0,
// instability 0.0 rather than NaN, which keeps the table total and
// sortable.
func (g *Graph) ComputeCoupling() map[string]CouplingMetric {
	g.mu.RLock()
	defer g.mu.RUnlock()

	metrics := make(map[string]CouplingMetric, len(g.nodes))
	for file := range g.nodes {
		ca := len(g.in[file])
		ce := len(g.out[file])

		instability := 0.0
		if ca+ce > 0 {
			instability = float64(ce) / float64(ca+ce)
		}

		metrics[file] = CouplingMetric{
			File:        file,
			Ca:          ca,
			Ce:          ce,
			Instability: instability,
		}
	}
	return metrics
}

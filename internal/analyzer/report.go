// # internal/analyzer/report.go
package analyzer

import (
	"time"

	"pyaudit/internal/parser"
)

// UndefinedSymbol is a name read somewhere in the project that no
// scope, no file, and no builtin provides.
type UndefinedSymbol struct {
	Symbol string `json:"symbol"`
	File   string `json:"file"`
	Line   int    `json:"line"`
}

// UnusedSymbol is a definition whose name is never read anywhere in
// the project.
type UnusedSymbol struct {
	Symbol string `json:"symbol"`
	File   string `json:"file"`
	Line   int    `json:"line"`
	Kind   string `json:"kind"`
}

// CouplingRow is one file's coupling summary, keyed by its dotted
// module name.
type CouplingRow struct {
	Module      string  `json:"module"`
	File        string  `json:"file"`
	Ca          int     `json:"ca"`
	Ce          int     `json:"ce"`
	Instability float64 `json:"instability"`
}

// Report is the immutable outcome of one analysis pass. Every slice is
// sorted; file paths are project-root relative with forward slashes.
type Report struct {
	RunID        string              `json:"run_id"`
	Root         string              `json:"root"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Duration     time.Duration       `json:"-"`
	FilesScanned int                 `json:"files_scanned"`
	Undefined    []UndefinedSymbol   `json:"undefined_symbols"`
	Unused       []UnusedSymbol      `json:"unused_symbols"`
	Cycles       [][]string          `json:"circular_imports"`
	Coupling     []CouplingRow       `json:"coupling_metrics"`
	Diagnostics  []parser.Diagnostic `json:"diagnostics"`

	// Adjacency is the resolved dependency graph, file -> sorted
	// imports, consumed by the diagram renderers.
	Adjacency map[string][]string `json:"-"`
}

// HasFindings reports whether the quality gate should fail: undefined
// symbols and import cycles are gate failures, unused symbols are not.
func (r *Report) HasFindings() bool {
	return len(r.Undefined) > 0 || len(r.Cycles) > 0
}

// CycleEdges returns the set of directed edges that sit on any
// reported cycle. Renderers style these edges distinctly.
func (r *Report) CycleEdges() map[[2]string]bool {
	edges := make(map[[2]string]bool)
	for _, cycle := range r.Cycles {
		for i := 0; i+1 < len(cycle); i++ {
			edges[[2]string{cycle[i], cycle[i+1]}] = true
		}
	}
	return edges
}

// MaxInstability returns the largest instability in the coupling
// table, 0 when the table is empty.
func (r *Report) MaxInstability() float64 {
	max := 0.0
	for _, row := range r.Coupling {
		if row.Instability > max {
			max = row.Instability
		}
	}
	return max
}

// AvgInstability returns the mean instability across the coupling
// table, 0 when the table is empty.
func (r *Report) AvgInstability() float64 {
	if len(r.Coupling) == 0 {
		return 0
	}
	sum := 0.0
	for _, row := range r.Coupling {
		sum += row.Instability
	}
	return sum / float64(len(r.Coupling))
}

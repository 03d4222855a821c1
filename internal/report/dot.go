// # internal/report/dot.go
package report

import (
	"fmt"
	"strings"

	"pyaudit/internal/analyzer"
)

// RenderDOT draws the resolved dependency graph as a Graphviz digraph.
// Files on a cycle are filled red and their cycle edges labelled; all
// other edges render green. Iteration is sorted throughout so output
// is stable.
func RenderDOT(r *analyzer.Report) string {
	var buf strings.Builder

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"white\", fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	files := sortedGraphFiles(r.Adjacency)
	labels := moduleLabels(r)
	cycleFiles := cycleMemberSet(r.Cycles)
	cycleEdges := r.CycleEdges()

	coupling := make(map[string]analyzer.CouplingRow, len(r.Coupling))
	for _, row := range r.Coupling {
		coupling[row.File] = row
	}

	for _, file := range files {
		label := labels[file]
		if row, ok := coupling[file]; ok {
			label = fmt.Sprintf("%s\\n(Ca=%d Ce=%d I=%.2f)", label, row.Ca, row.Ce, row.Instability)
		}
		if cycleFiles[file] {
			buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", fillcolor=\"mistyrose\", color=\"red\", penwidth=2.0];\n", file, label))
		} else {
			buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", color=\"darkslategrey\"];\n", file, label))
		}
	}
	buf.WriteString("\n")

	for _, from := range files {
		for _, to := range r.Adjacency[from] {
			if cycleEdges[[2]string{from, to}] {
				buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"red\", penwidth=3.0, label=\"CYCLE\"];\n", from, to))
			} else {
				buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"forestgreen\", penwidth=1.5];\n", from, to))
			}
		}
	}

	buf.WriteString("\n  subgraph cluster_legend {\n")
	buf.WriteString("    label=\"Legend\";\n")
	buf.WriteString("    style=dashed;\n")
	buf.WriteString("    legend_file [label=\"Project File\", fillcolor=\"white\", style=\"rounded,filled\"];\n")
	buf.WriteString("    legend_cycle [label=\"Circular Import\", fillcolor=\"mistyrose\", color=\"red\", style=\"rounded,filled\"];\n")
	buf.WriteString("  }\n")
	buf.WriteString("}\n")

	return buf.String()
}

// WriteDOT renders and writes the digraph atomically.
func WriteDOT(r *analyzer.Report, path string) error {
	return WriteStringAtomic(path, RenderDOT(r), 0o644)
}

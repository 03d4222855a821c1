// # internal/report/mermaid.go
package report

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"pyaudit/internal/analyzer"
)

// RenderMermaid draws the resolved dependency graph as a flowchart.
// Nodes carry dotted module names; edges on a reported cycle get a
// CYCLE label and red styling via linkStyle, everything else stays
// default. Output is deterministic for a given report.
func RenderMermaid(r *analyzer.Report) string {
	var b strings.Builder
	b.WriteString("%%{init: {'flowchart': {'nodeSpacing': 60, 'rankSpacing': 90, 'curve': 'basis'}}}%%\n")
	b.WriteString("flowchart LR\n")

	files := sortedGraphFiles(r.Adjacency)
	labels := moduleLabels(r)
	ids := makeMermaidIDs(files)

	for _, file := range files {
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", ids[file], escapeMermaidLabel(labels[file])))
	}

	cycleFiles := cycleMemberSet(r.Cycles)
	if len(cycleFiles) > 0 {
		names := intersectOrdered(files, cycleFiles)
		b.WriteString("\n  classDef cycleNode fill:#ffecec,stroke:#cc0000,stroke-width:2px;\n")
		b.WriteString("  class ")
		b.WriteString(strings.Join(toIDs(names, ids), ","))
		b.WriteString(" cycleNode;\n")
	}

	cycleEdges := r.CycleEdges()

	b.WriteString("\n")
	linkIndex := 0
	var cycleLinks []int
	for _, from := range files {
		for _, to := range r.Adjacency[from] {
			label := ""
			if cycleEdges[[2]string{from, to}] {
				label = "|CYCLE|"
				cycleLinks = append(cycleLinks, linkIndex)
			}
			b.WriteString(fmt.Sprintf("  %s -->%s %s\n", ids[from], label, ids[to]))
			linkIndex++
		}
	}

	if len(cycleLinks) > 0 {
		parts := make([]string, len(cycleLinks))
		for i, n := range cycleLinks {
			parts[i] = fmt.Sprintf("%d", n)
		}
		b.WriteString(fmt.Sprintf("\n  linkStyle %s stroke:#cc0000,stroke-width:3px,stroke-dasharray:6 3;\n",
			strings.Join(parts, ",")))
	}

	return b.String()
}

// WriteMermaid renders and writes the flowchart atomically.
func WriteMermaid(r *analyzer.Report, path string) error {
	return WriteStringAtomic(path, RenderMermaid(r), 0o644)
}

// moduleLabels maps each graph file to its dotted module name, falling
// back to the path itself when the coupling table has no row for it.
func moduleLabels(r *analyzer.Report) map[string]string {
	labels := make(map[string]string, len(r.Coupling))
	for _, row := range r.Coupling {
		labels[row.File] = row.Module
	}
	for file := range r.Adjacency {
		if _, ok := labels[file]; !ok {
			labels[file] = file
		}
	}
	return labels
}

func sortedGraphFiles(adjacency map[string][]string) []string {
	files := make([]string, 0, len(adjacency))
	for file := range adjacency {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

func cycleMemberSet(cycles [][]string) map[string]bool {
	out := make(map[string]bool)
	for _, cycle := range cycles {
		for _, file := range cycle {
			out[file] = true
		}
	}
	return out
}

func sanitizeMermaidID(name string) string {
	if name == "" {
		return "n"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if out == "" {
		return "n"
	}
	if unicode.IsDigit(rune(out[0])) {
		return "n_" + out
	}
	return out
}

func makeMermaidIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeMermaidID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

func toIDs(names []string, ids map[string]string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := ids[name]; ok {
			out = append(out, id)
		}
	}
	return out
}

func intersectOrdered(ordered []string, set map[string]bool) []string {
	out := make([]string, 0)
	for _, item := range ordered {
		if set[item] {
			out = append(out, item)
		}
	}
	return out
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

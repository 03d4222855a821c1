// # internal/report/text.go
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"pyaudit/internal/analyzer"
)

// WriteText renders the report for a terminal: findings sorted as the
// analyzer left them, the coupling table re-sorted by descending
// instability so the most volatile files lead.
func WriteText(w io.Writer, r *analyzer.Report) error {
	fmt.Fprintf(w, "pyaudit: %s\n", r.Root)
	fmt.Fprintf(w, "files scanned: %d  duration: %s\n\n", r.FilesScanned, r.Duration.Round(time.Millisecond))

	fmt.Fprintf(w, "undefined symbols (%d)\n", len(r.Undefined))
	for _, u := range r.Undefined {
		fmt.Fprintf(w, "  %s:%d  %s\n", u.File, u.Line, u.Symbol)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "unused symbols (%d)\n", len(r.Unused))
	for _, u := range r.Unused {
		fmt.Fprintf(w, "  %s:%d  %s (%s)\n", u.File, u.Line, u.Symbol, u.Kind)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "circular imports (%d)\n", len(r.Cycles))
	for _, cycle := range r.Cycles {
		fmt.Fprintf(w, "  %s\n", strings.Join(cycle, " -> "))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "coupling (%d files)\n", len(r.Coupling))
	rows := append([]analyzer.CouplingRow(nil), r.Coupling...)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Instability != rows[j].Instability {
			return rows[i].Instability > rows[j].Instability
		}
		return rows[i].Module < rows[j].Module
	})
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  module\tCa\tCe\tinstability")
	for _, row := range rows {
		fmt.Fprintf(tw, "  %s\t%d\t%d\t%.2f\n", row.Module, row.Ca, row.Ce, row.Instability)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Diagnostics) > 0 {
		fmt.Fprintf(w, "\ndiagnostics (%d)\n", len(r.Diagnostics))
		for _, d := range r.Diagnostics {
			if d.Line > 0 {
				fmt.Fprintf(w, "  %s:%d  %s: %s\n", d.File, d.Line, d.Kind, d.Detail)
			} else {
				fmt.Fprintf(w, "  %s  %s: %s\n", d.File, d.Kind, d.Detail)
			}
		}
	}

	return nil
}

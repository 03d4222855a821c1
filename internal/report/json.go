// # internal/report/json.go
package report

import (
	"encoding/json"

	"pyaudit/internal/analyzer"
	"pyaudit/internal/parser"
)

// RenderJSON serializes a report with stable field names. Empty
// collections serialize as [] rather than null so downstream tooling
// can index unconditionally.
func RenderJSON(r *analyzer.Report) ([]byte, error) {
	out := *r
	if out.Undefined == nil {
		out.Undefined = []analyzer.UndefinedSymbol{}
	}
	if out.Unused == nil {
		out.Unused = []analyzer.UnusedSymbol{}
	}
	if out.Cycles == nil {
		out.Cycles = [][]string{}
	}
	if out.Coupling == nil {
		out.Coupling = []analyzer.CouplingRow{}
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []parser.Diagnostic{}
	}
	return json.MarshalIndent(&out, "", "  ")
}

// WriteJSON renders the report and writes it atomically to path.
func WriteJSON(r *analyzer.Report, path string) error {
	data, err := RenderJSON(r)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, append(data, '\n'), 0o644)
}

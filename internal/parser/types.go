// # internal/parser/types.go
package parser

// FileAnalysis is the complete per-file output of the symbol table walk.
// It is immutable once the walk finishes; the aggregator merges these
// across the project.
type FileAnalysis struct {
	Path        string // canonical absolute path
	Module      string // dotted module name relative to the project root
	Imports     []Import
	Definitions []Definition
	Uses        []Use
	Diagnostics []Diagnostic

	scopes *ScopeArena
}

// Scopes exposes the file's scope arena for post-walk resolution.
func (f *FileAnalysis) Scopes() *ScopeArena {
	return f.scopes
}

// Import is one import declaration as written in the source.
type Import struct {
	Module     string   // dotted module ref; empty for "from . import x"
	Alias      string   // "import numpy as np" -> np
	Items      []string // "from x import a, b" -> [a b]
	Level      int      // 0 absolute, N>0 relative (standard semantics)
	IsWildcard bool     // "from x import *"
	Line       int
}

type DefinitionKind int

const (
	KindFunction DefinitionKind = iota
	KindClass
	KindVariable
	KindImportAlias
	KindParameter
)

func (k DefinitionKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindVariable:
		return "variable"
	case KindImportAlias:
		return "import"
	case KindParameter:
		return "parameter"
	default:
		return "unknown"
	}
}

// Definition is a name bound in some scope of the file.
type Definition struct {
	Name  string
	Kind  DefinitionKind
	Line  int
	Scope ScopeID
}

// Use is a name read in load context. Resolution happens after the
// whole file has been walked, so a use may precede its binding in
// source order and still resolve.
type Use struct {
	Name  string
	Line  int
	Scope ScopeID
}

type DiagnosticKind string

const (
	DiagFileSkipped    DiagnosticKind = "file-skipped"
	DiagWildcardImport DiagnosticKind = "wildcard-import"
)

// Diagnostic is a non-fatal per-file condition surfaced in the report.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind"`
	File   string         `json:"file"`
	Line   int            `json:"line"`
	Detail string         `json:"detail"`
}

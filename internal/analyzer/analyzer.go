// # internal/analyzer/analyzer.go
package analyzer

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"pyaudit/internal/config"
	"pyaudit/internal/graph"
	"pyaudit/internal/observability"
	"pyaudit/internal/parser"
	"pyaudit/internal/resolver"
)

// Analyzer drives one full pass over a project: enumerate, parse every
// file independently, then join and run the cross-file passes. A fresh
// pass never reuses state from the previous one, so results are a pure
// function of the tree on disk.
type Analyzer struct {
	root    string
	cfg     *config.Config
	parser  *parser.Parser
	scanner *Scanner
	log     *slog.Logger
	metrics *observability.Metrics
}

func New(root string, cfg *config.Config, log *slog.Logger) (*Analyzer, error) {
	scanner, err := NewScanner(root, cfg)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		root:    root,
		cfg:     cfg,
		parser:  parser.NewParser(parser.NewGrammarLoader()),
		scanner: scanner,
		log:     log,
	}, nil
}

// WithMetrics attaches a metrics registry; nil is fine and records
// nothing.
func (a *Analyzer) WithMetrics(m *observability.Metrics) *Analyzer {
	a.metrics = m
	return a
}

// Scanner exposes the file filter so watch mode can share it.
func (a *Analyzer) Scanner() *Scanner {
	return a.scanner
}

// Run performs one analysis pass.
func (a *Analyzer) Run(ctx context.Context) (*Report, error) {
	tracer := otel.Tracer("pyaudit/analyzer")
	ctx, span := tracer.Start(ctx, "analysis")
	defer span.End()

	start := time.Now()

	_, scanSpan := tracer.Start(ctx, "scan")
	paths, err := a.scanner.Scan()
	scanSpan.End()
	if err != nil {
		return nil, err
	}

	files, skipped := a.parseAll(ctx, paths)

	_, aggSpan := tracer.Start(ctx, "aggregate")
	report := a.aggregate(paths, files, skipped)
	aggSpan.End()

	report.RunID = uuid.NewString()
	report.Root = a.root
	report.GeneratedAt = start
	report.Duration = time.Since(start)

	a.metrics.ObserveAnalysis(report.Duration)
	a.metrics.SetFindings(len(report.Undefined), len(report.Unused), len(report.Cycles))

	a.log.Info("analysis complete",
		"files", report.FilesScanned,
		"undefined", len(report.Undefined),
		"unused", len(report.Unused),
		"cycles", len(report.Cycles),
		"duration", report.Duration)

	return report, nil
}

// parseAll fans the per-file work out over a bounded worker pool. A
// file that fails to read or parse is isolated: it contributes nothing
// but a file-skipped diagnostic, and every other file proceeds.
func (a *Analyzer) parseAll(ctx context.Context, paths []string) ([]*parser.FileAnalysis, []parser.Diagnostic) {
	tracer := otel.Tracer("pyaudit/analyzer")
	_, span := tracer.Start(ctx, "parse")
	defer span.End()

	workers := a.cfg.Analysis.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*parser.FileAnalysis, len(paths))
	failures := make([]parser.Diagnostic, len(paths))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			parseStart := time.Now()
			content, err := os.ReadFile(path)
			if err == nil {
				results[i], err = a.parser.ParseFile(path, content)
			}
			if err != nil {
				a.log.Warn("skipping file", "path", path, "error", err)
				failures[i] = parser.Diagnostic{
					Kind:   parser.DiagFileSkipped,
					File:   path,
					Detail: err.Error(),
				}
			}
			a.metrics.ObserveParse(time.Since(parseStart))
			return nil
		})
	}
	_ = g.Wait()

	files := make([]*parser.FileAnalysis, 0, len(paths))
	var skipped []parser.Diagnostic
	for i := range paths {
		if results[i] != nil {
			files = append(files, results[i])
		} else {
			skipped = append(skipped, failures[i])
		}
	}
	return files, skipped
}

// aggregate is the join point: all per-file results are in, and the
// cross-file passes run sequentially over the merged data.
func (a *Analyzer) aggregate(allPaths []string, files []*parser.FileAnalysis, skipped []parser.Diagnostic) *Report {
	known := make([]string, len(files))
	for i, f := range files {
		known[i] = f.Path
	}
	res := resolver.New(a.root, known)

	// canonicalize identities to root-relative slash paths
	for _, f := range files {
		f.Path = res.Normalize(f.Path)
		f.Module = res.ModuleName(f.Path)
		for i := range f.Diagnostics {
			f.Diagnostics[i].File = f.Path
		}
	}

	g := graph.NewGraph()
	for _, f := range files {
		g.AddNode(f.Path)
		for _, imp := range f.Imports {
			for _, target := range res.Resolve(f.Path, imp) {
				g.AddEdge(f.Path, target)
			}
		}
	}

	definedNames := make(map[string]bool)
	for _, f := range files {
		for _, def := range f.Definitions {
			definedNames[def.Name] = true
		}
	}

	report := &Report{
		FilesScanned: len(allPaths),
		Undefined:    a.findUndefined(files, definedNames),
		Unused:       a.findUnused(files, definedNames),
		Cycles:       g.FindCycles(),
		Coupling:     a.couplingRows(g, res),
		Diagnostics:  a.collectDiagnostics(files, skipped, res),
		Adjacency:    g.Adjacency(),
	}
	return report
}

// findUndefined resolves every use against its own scope chain first,
// then the project-wide union of definition names, then the builtin
// set. Each (file, line, name) occurrence is reported once.
func (a *Analyzer) findUndefined(files []*parser.FileAnalysis, definedNames map[string]bool) []UndefinedSymbol {
	var out []UndefinedSymbol
	seen := make(map[UndefinedSymbol]bool)

	for _, f := range files {
		scopes := f.Scopes()
		for _, use := range f.Uses {
			if scopes.Resolves(use.Scope, use.Name) {
				continue
			}
			if definedNames[use.Name] {
				continue
			}
			if parser.IsBuiltin(use.Name) {
				continue
			}
			finding := UndefinedSymbol{Symbol: use.Name, File: f.Path, Line: use.Line}
			if !seen[finding] {
				seen[finding] = true
				out = append(out, finding)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// findUnused reports functions, classes, and module-level variables
// whose name is never read anywhere in the project. Dunder names are
// always exempt; so are names carrying the configured private prefix.
func (a *Analyzer) findUnused(files []*parser.FileAnalysis, definedNames map[string]bool) []UnusedSymbol {
	usedNames := make(map[string]bool)
	for _, f := range files {
		scopes := f.Scopes()
		for _, use := range f.Uses {
			if scopes.Resolves(use.Scope, use.Name) || definedNames[use.Name] || parser.IsBuiltin(use.Name) {
				usedNames[use.Name] = true
			}
		}
	}

	prefix := a.cfg.Analysis.PrivatePrefix

	var out []UnusedSymbol
	seen := make(map[UnusedSymbol]bool)
	for _, f := range files {
		for _, def := range f.Definitions {
			switch def.Kind {
			case parser.KindFunction, parser.KindClass:
			case parser.KindVariable:
				if def.Scope != 0 {
					continue
				}
			default:
				continue
			}
			if isDunder(def.Name) {
				continue
			}
			if prefix != "" && strings.HasPrefix(def.Name, prefix) {
				continue
			}
			if usedNames[def.Name] {
				continue
			}
			finding := UnusedSymbol{
				Symbol: def.Name,
				File:   f.Path,
				Line:   def.Line,
				Kind:   def.Kind.String(),
			}
			if !seen[finding] {
				seen[finding] = true
				out = append(out, finding)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

func (a *Analyzer) couplingRows(g *graph.Graph, res *resolver.Resolver) []CouplingRow {
	metrics := g.ComputeCoupling()
	rows := make([]CouplingRow, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, CouplingRow{
			Module:      res.ModuleName(m.File),
			File:        m.File,
			Ca:          m.Ca,
			Ce:          m.Ce,
			Instability: m.Instability,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Module < rows[j].Module })
	return rows
}

func (a *Analyzer) collectDiagnostics(files []*parser.FileAnalysis, skipped []parser.Diagnostic, res *resolver.Resolver) []parser.Diagnostic {
	var out []parser.Diagnostic
	for _, d := range skipped {
		d.File = res.Normalize(d.File)
		out = append(out, d)
	}
	if a.cfg.FlagWildcardImports() {
		for _, f := range files {
			out = append(out, f.Diagnostics...)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out
}

func isDunder(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

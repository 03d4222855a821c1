// # cmd/pyaudit/app.go
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"pyaudit/internal/analyzer"
	"pyaudit/internal/config"
	"pyaudit/internal/history"
	"pyaudit/internal/observability"
	"pyaudit/internal/report"
	"pyaudit/internal/watcher"
)

// App wires the analyzer to its sinks: stdout, report artifacts, the
// history store, and (in watch mode) the TUI. Every change batch runs
// a full fresh analysis pass; there is no incremental state to drift.
type App struct {
	Config   *config.Config
	Analyzer *analyzer.Analyzer
	Metrics  *observability.Metrics

	root       string
	log        *slog.Logger
	limiter    *watcher.Limiter
	history    *history.Store
	fsWatcher  *watcher.Watcher
	teaProgram *tea.Program

	mu         sync.Mutex
	lastReport *analyzer.Report
}

func NewApp(cfg *config.Config, log *slog.Logger) (*App, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics()
	an, err := analyzer.New(root, cfg, log)
	if err != nil {
		return nil, err
	}
	an.WithMetrics(metrics)

	app := &App{
		Config:   cfg,
		Analyzer: an,
		Metrics:  metrics,
		root:     root,
		log:      log,
	}

	if cfg.Watch.RunsPerSecond > 0 {
		burst := int(cfg.Watch.RunsPerSecond)
		if burst < 1 {
			burst = 1
		}
		app.limiter = watcher.NewLimiter(cfg.Watch.RunsPerSecond, burst)
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		app.history = store
	}

	return app, nil
}

// RunOnce performs a full analysis pass and feeds every configured
// sink. Sink failures are logged, not fatal: a findings report that
// could not be written to disk was still computed and printed.
func (a *App) RunOnce(ctx context.Context) (*analyzer.Report, error) {
	rep, err := a.Analyzer.Run(ctx)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.lastReport = rep
	a.mu.Unlock()

	if err := a.writeArtifacts(rep); err != nil {
		a.log.Error("failed to write report artifacts", "error", err)
	}
	a.saveSnapshot(rep)

	return rep, nil
}

func (a *App) writeArtifacts(rep *analyzer.Report) error {
	out := a.Config.Output

	if out.JSON != "" {
		if err := report.WriteJSON(rep, out.JSON); err != nil {
			return err
		}
	}
	if out.Mermaid != "" {
		if err := report.WriteMermaid(rep, out.Mermaid); err != nil {
			return err
		}
	}
	if out.DOT != "" {
		if err := report.WriteDOT(rep, out.DOT); err != nil {
			return err
		}
	}
	if out.HTML != "" {
		if err := report.WriteHTML(rep, out.HTML); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) saveSnapshot(rep *analyzer.Report) {
	if a.history == nil {
		return
	}
	key := filepath.Base(a.root)
	if err := a.history.SaveSnapshot(key, history.FromReport(rep)); err != nil {
		a.log.Error("failed to save history snapshot", "error", err)
	}
}

// HandleChanges is the watcher callback. The debounced batch already
// collapsed duplicate events; the limiter caps how often a full re-run
// may start so a mass rename cannot peg the CPU.
func (a *App) HandleChanges(paths []string) {
	a.Metrics.IncWatcherEvent()
	a.log.Info("detected changes", "count", len(paths))

	ctx := context.Background()
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return
		}
	}

	rep, err := a.RunOnce(ctx)
	if err != nil {
		a.log.Error("re-analysis failed", "error", err)
		return
	}

	if a.teaProgram != nil {
		a.teaProgram.Send(reportMsg{report: rep})
	} else if err := report.WriteText(os.Stdout, rep); err != nil {
		a.log.Error("failed to print report", "error", err)
	}
}

func (a *App) StartWatcher() error {
	w, err := watcher.New(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Analyzer.Scanner().Matches,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	a.fsWatcher = w
	return w.Watch(a.root)
}

func (a *App) RunUI() error {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	a.teaProgram = p

	// Seed the dashboard with the initial pass that main already ran.
	go func() {
		a.mu.Lock()
		rep := a.lastReport
		a.mu.Unlock()
		if rep != nil {
			p.Send(reportMsg{report: rep})
		}
	}()

	_, err := p.Run()
	return err
}

func (a *App) Close() error {
	if a.fsWatcher != nil {
		if err := a.fsWatcher.Close(); err != nil {
			a.log.Warn("failed to close watcher", "error", err)
		}
	}
	if a.history != nil {
		return a.history.Close()
	}
	return nil
}

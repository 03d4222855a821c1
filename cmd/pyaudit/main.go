// # cmd/pyaudit/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"pyaudit/internal/config"
	"pyaudit/internal/observability"
	"pyaudit/internal/report"
)

var (
	configPath = flag.String("config", "./pyaudit.toml", "Path to config file")
	once       = flag.Bool("once", true, "Run a single analysis pass and exit; -once=false enables watch mode")
	ui         = flag.Bool("ui", false, "Enable terminal UI in watch mode")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if *version {
		fmt.Printf("pyaudit v%s\n", VERSION)
		return 0
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stderr
	if *ui {
		// In UI mode, terminal logs would corrupt the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err == nil {
			output = f
		} else {
			fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		// No config file is fine when the caller never asked for one.
		if *configPath == "./pyaudit.toml" && os.IsNotExist(err) {
			cfg = config.Default()
		} else {
			logger.Error("failed to load config", "error", err)
			return 1
		}
	}

	if flag.NArg() > 0 {
		cfg.Root = flag.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	endpoint := ""
	if cfg.Observability.Enabled {
		endpoint = cfg.Observability.OTLPEndpoint
	}
	shutdownTracing, err := observability.InitTracing(ctx, endpoint)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		return 1
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("failed to shut down tracing", "error", err)
		}
	}()

	app, err := NewApp(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", "error", err)
		return 1
	}
	defer app.Close()

	rep, err := app.RunOnce(ctx)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		return 1
	}

	if !*ui {
		if err := report.WriteText(os.Stdout, rep); err != nil {
			logger.Error("failed to print report", "error", err)
			return 1
		}
	}

	if *once {
		if rep.HasFindings() {
			return 1
		}
		return 0
	}

	// Watch mode.
	if cfg.Observability.Enabled {
		srv := observability.NewServer(cfg.Observability.ListenAddr, app.Metrics, logger)
		srv.Start()
		defer func() {
			if err := srv.Shutdown(context.Background()); err != nil {
				logger.Warn("failed to shut down observability server", "error", err)
			}
		}()
	}

	if err := app.StartWatcher(); err != nil {
		logger.Error("failed to start watcher", "error", err)
		return 1
	}

	if *ui {
		if err := app.RunUI(); err != nil {
			logger.Error("failed to run UI", "error", err)
			return 1
		}
		return 0
	}

	<-ctx.Done()
	logger.Info("shutting down")
	return 0
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "pyaudit", "pyaudit.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "pyaudit", "pyaudit.log")
	}

	return "pyaudit.log"
}

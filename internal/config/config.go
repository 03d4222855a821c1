// # internal/config/config.go
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "pyaudit/internal/errors"
)

type Config struct {
	Root          string        `toml:"root"`
	Exclude       Exclude       `toml:"exclude"`
	Analysis      Analysis      `toml:"analysis"`
	Output        Output        `toml:"output"`
	Watch         Watch         `toml:"watch"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Analysis struct {
	// Definitions whose name starts with this prefix are exempt from
	// the unused-symbol report. Dunder names are always exempt.
	PrivatePrefix string `toml:"private_prefix"`
	// "flag" (default) reports "from x import *" as a diagnostic,
	// "ignore" silences it.
	WildcardImports string `toml:"wildcard_imports"`
	IncludeTests    bool   `toml:"include_tests"`
	Workers         int    `toml:"workers"`
}

type Output struct {
	JSON    string `toml:"json"`
	Mermaid string `toml:"mermaid"`
	DOT     string `toml:"dot"`
	HTML    string `toml:"html"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// Maximum re-analysis runs per second; bursts of editor events
	// collapse into at most this rate.
	RunsPerSecond float64 `toml:"runs_per_second"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Observability struct {
	Enabled      bool   `toml:"enabled"`
	ListenAddr   string `toml:"listen_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

func Default() *Config {
	return &Config{
		Root: ".",
		Exclude: Exclude{
			Dirs: []string{
				".git", "__pycache__", ".mypy_cache", ".pytest_cache",
				"venv", ".venv", "env", "node_modules", ".tox",
				"build", "dist", "*.egg-info",
			},
		},
		Analysis: Analysis{
			PrivatePrefix:   "_",
			WildcardImports: "flag",
			Workers:         0, // 0 = GOMAXPROCS
		},
		Watch: Watch{
			Debounce:      500 * time.Millisecond,
			RunsPerSecond: 2,
		},
		History: History{
			Path: "pyaudit-history.db",
		},
		Observability: Observability{
			ListenAddr: ":9090",
		},
	}
}

// Load reads a TOML config file and fills in defaults for everything
// it leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeValidationError, "invalid config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Root == "" {
		return apperrors.New(apperrors.CodeValidationError, "root must not be empty")
	}
	switch c.Analysis.WildcardImports {
	case "", "flag", "ignore":
	default:
		return apperrors.New(apperrors.CodeValidationError,
			"analysis.wildcard_imports must be \"flag\" or \"ignore\"")
	}
	if c.Analysis.Workers < 0 {
		return apperrors.New(apperrors.CodeValidationError, "analysis.workers must be >= 0")
	}
	if c.Watch.Debounce < 0 {
		return apperrors.New(apperrors.CodeValidationError, "watch.debounce must be >= 0")
	}
	if c.Watch.RunsPerSecond < 0 {
		return apperrors.New(apperrors.CodeValidationError, "watch.runs_per_second must be >= 0")
	}
	return nil
}

// FlagWildcardImports reports whether wildcard imports should surface
// as diagnostics.
func (c *Config) FlagWildcardImports() bool {
	return c.Analysis.WildcardImports != "ignore"
}

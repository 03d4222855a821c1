// # internal/analyzer/scanner.go
package analyzer

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"pyaudit/internal/config"
)

// Scanner enumerates the Python files of a project. Directory and file
// exclusions are glob patterns matched against the base name, the same
// scheme the watcher uses, so both always agree on what is in scope.
type Scanner struct {
	root         string
	dirGlobs     []glob.Glob
	fileGlobs    []glob.Glob
	includeTests bool
}

func NewScanner(root string, cfg *config.Config) (*Scanner, error) {
	dirGlobs, err := compileGlobs(cfg.Exclude.Dirs)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude dir pattern: %w", err)
	}
	fileGlobs, err := compileGlobs(cfg.Exclude.Files)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude file pattern: %w", err)
	}

	return &Scanner{
		root:         root,
		dirGlobs:     dirGlobs,
		fileGlobs:    fileGlobs,
		includeTests: cfg.Analysis.IncludeTests,
	}, nil
}

// Scan walks the project root and returns the absolute paths of every
// Python file in scope, sorted.
func (s *Scanner) Scan() ([]string, error) {
	var files []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		base := filepath.Base(path)
		if d.IsDir() {
			if path != s.root {
				for _, g := range s.dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
			}
			return nil
		}

		if filepath.Ext(path) != ".py" {
			return nil
		}
		if !s.includeTests && IsTestFile(path) {
			return nil
		}
		for _, g := range s.fileGlobs {
			if g.Match(base) {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Matches reports whether a single path would be included by this
// scanner; the watcher asks this for every filesystem event.
func (s *Scanner) Matches(path string) bool {
	if filepath.Ext(path) != ".py" {
		return false
	}
	if !s.includeTests && IsTestFile(path) {
		return false
	}
	base := filepath.Base(path)
	for _, g := range s.fileGlobs {
		if g.Match(base) {
			return false
		}
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.Dir(rel), string(filepath.Separator)) {
		if part == "." || part == "" {
			continue
		}
		for _, g := range s.dirGlobs {
			if g.Match(part) {
				return false
			}
		}
	}
	return true
}

// IsTestFile reports whether a path follows the pytest naming
// conventions test_*.py or *_test.py.
func IsTestFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py")
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

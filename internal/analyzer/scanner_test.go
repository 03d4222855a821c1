// # internal/analyzer/scanner_test.go
package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyaudit/internal/config"
)

func scanProject(t *testing.T, cfg *config.Config, files []string) (string, []string) {
	t.Helper()
	root := t.TempDir()
	for _, name := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
	}
	s, err := NewScanner(root, cfg)
	require.NoError(t, err)
	got, err := s.Scan()
	require.NoError(t, err)

	rel := make([]string, len(got))
	for i, p := range got {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		rel[i] = filepath.ToSlash(r)
	}
	return root, rel
}

func TestScanFiltersAndSorts(t *testing.T) {
	_, got := scanProject(t, config.Default(), []string{
		"z.py",
		"a.py",
		"pkg/mod.py",
		"README.md",
		"__pycache__/a.cpython-312.pyc",
		"__pycache__/cached.py",
		"venv/lib/thing.py",
		".git/hooks/x.py",
	})

	assert.Equal(t, []string{"a.py", "pkg/mod.py", "z.py"}, got)
}

func TestScanSkipsTestFilesByDefault(t *testing.T) {
	_, got := scanProject(t, config.Default(), []string{
		"mod.py",
		"test_mod.py",
		"mod_test.py",
	})
	assert.Equal(t, []string{"mod.py"}, got)

	cfg := config.Default()
	cfg.Analysis.IncludeTests = true
	_, got = scanProject(t, cfg, []string{
		"mod.py",
		"test_mod.py",
	})
	assert.Equal(t, []string{"mod.py", "test_mod.py"}, got)
}

func TestScanFileExcludeGlobs(t *testing.T) {
	cfg := config.Default()
	cfg.Exclude.Files = []string{"conftest.py", "gen_*.py"}

	_, got := scanProject(t, cfg, []string{
		"mod.py",
		"conftest.py",
		"gen_models.py",
	})
	assert.Equal(t, []string{"mod.py"}, got)
}

func TestMatchesAgreesWithScan(t *testing.T) {
	cfg := config.Default()
	root, _ := scanProject(t, cfg, []string{
		"pkg/mod.py",
		"__pycache__/cached.py",
	})
	s, err := NewScanner(root, cfg)
	require.NoError(t, err)

	assert.True(t, s.Matches(filepath.Join(root, "pkg", "mod.py")))
	assert.False(t, s.Matches(filepath.Join(root, "__pycache__", "cached.py")))
	assert.False(t, s.Matches(filepath.Join(root, "notes.txt")))
	assert.False(t, s.Matches(filepath.Join(root, "test_mod.py")))
}

func TestInvalidExcludePattern(t *testing.T) {
	cfg := config.Default()
	cfg.Exclude.Dirs = []string{"[unclosed"}
	_, err := NewScanner(t.TempDir(), cfg)
	assert.Error(t, err)
}

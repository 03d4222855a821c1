// # internal/resolver/resolver.go
package resolver

import (
	"path"
	"path/filepath"
	"strings"

	"pyaudit/internal/parser"
)

// Resolver maps import statements to files inside the scanned project.
// It resolves purely against the set of known files, never the
// filesystem, so the same resolver answers identically for a live tree
// and for a recorded snapshot. Imports that do not land on a known file
// are external (stdlib or third-party) and resolve to nothing.
type Resolver struct {
	root  string
	known map[string]bool
}

// New builds a resolver for the project rooted at root. files may be
// absolute or root-relative; they are normalized to root-relative
// slash-separated paths, which is also the form Resolve returns.
func New(root string, files []string) *Resolver {
	r := &Resolver{
		root:  root,
		known: make(map[string]bool, len(files)),
	}
	for _, f := range files {
		r.known[r.Normalize(f)] = true
	}
	return r
}

// Normalize converts a file path to the root-relative slash form used
// as the node identity everywhere downstream.
func (r *Resolver) Normalize(file string) string {
	if filepath.IsAbs(file) {
		if rel, err := filepath.Rel(r.root, file); err == nil {
			file = rel
		}
	}
	return filepath.ToSlash(file)
}

// ModuleName derives the dotted module name for a file: the
// root-relative path with the extension dropped, path separators turned
// into dots, and a trailing __init__ elided so a package maps to its
// directory name.
func (r *Resolver) ModuleName(file string) string {
	rel := strings.TrimSuffix(r.Normalize(file), ".py")
	parts := strings.Split(rel, "/")
	if parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, ".")
}

// Resolve returns the known files an import from fromFile points at.
// A plain or from-import contributes its module file; from-import items
// that are themselves submodule files contribute those files as well.
// An empty result means the import is external or unresolvable and
// carries no dependency edge.
func (r *Resolver) Resolve(fromFile string, imp parser.Import) []string {
	var base string
	if imp.Level == 0 {
		base = strings.ReplaceAll(imp.Module, ".", "/")
	} else {
		dir, ok := r.ascend(fromFile, imp.Level)
		if !ok {
			return nil
		}
		base = dir
		if imp.Module != "" {
			base = path.Join(dir, strings.ReplaceAll(imp.Module, ".", "/"))
		}
	}

	var targets []string
	seen := make(map[string]bool)
	add := func(file string, ok bool) {
		if ok && !seen[file] {
			seen[file] = true
			targets = append(targets, file)
		}
	}

	// "from pkg import name": pkg itself is a dependency when it is a
	// project module; relative "from . import x" has no module part
	// and contributes item edges only.
	if imp.Level == 0 || imp.Module != "" {
		add(r.moduleFile(base))
	}
	for _, item := range imp.Items {
		add(r.moduleFile(path.Join(base, strings.ReplaceAll(item, ".", "/"))))
	}
	return targets
}

// moduleFile checks the two spellings of a module on disk, preferring
// the plain file over the package directory.
func (r *Resolver) moduleFile(base string) (string, bool) {
	if base == "" || base == "." {
		return "", false
	}
	if f := base + ".py"; r.known[f] {
		return f, true
	}
	if f := base + "/__init__.py"; r.known[f] {
		return f, true
	}
	return "", false
}

// ascend walks level-1 directories up from fromFile's directory. A
// relative import that climbs past the project root resolves to
// nothing.
func (r *Resolver) ascend(fromFile string, level int) (string, bool) {
	dir := path.Dir(r.Normalize(fromFile))
	for i := 1; i < level; i++ {
		if dir == "." {
			return "", false
		}
		dir = path.Dir(dir)
	}
	return dir, true
}

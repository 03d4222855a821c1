// # internal/parser/symbols_test.go
package parser

import (
	"testing"
)

func parse(t *testing.T, path, code string) *FileAnalysis {
	t.Helper()
	p := NewParser(NewGrammarLoader())
	file, err := p.ParseFile(path, []byte(code))
	if err != nil {
		t.Fatal(err)
	}
	return file
}

// unresolved returns the names of uses that resolve neither through the
// scope chain nor as builtins, the same check the undefined-symbol pass
// runs after the walk.
func unresolved(file *FileAnalysis) []string {
	var out []string
	for _, use := range file.Uses {
		if file.Scopes().Resolves(use.Scope, use.Name) || IsBuiltin(use.Name) {
			continue
		}
		out = append(out, use.Name)
	}
	return out
}

func TestImportForms(t *testing.T) {
	file := parse(t, "test.py", `
import os
import os.path
import numpy as np
from auth.utils import login, logout as out
from . import sibling
from ..pkg import helper
from helpers import *
`)

	if len(file.Imports) != 7 {
		for i, imp := range file.Imports {
			t.Logf("Import %d: %+v", i, imp)
		}
		t.Fatalf("expected 7 imports, got %d", len(file.Imports))
	}

	checks := []struct {
		module   string
		alias    string
		level    int
		items    []string
		wildcard bool
	}{
		{module: "os"},
		{module: "os.path"},
		{module: "numpy", alias: "np"},
		{module: "auth.utils", items: []string{"login", "logout"}},
		{module: "", level: 1, items: []string{"sibling"}},
		{module: "pkg", level: 2, items: []string{"helper"}},
		{module: "helpers", wildcard: true},
	}
	for i, c := range checks {
		imp := file.Imports[i]
		if imp.Module != c.module {
			t.Errorf("import %d module = %q, want %q", i, imp.Module, c.module)
		}
		if imp.Alias != c.alias {
			t.Errorf("import %d alias = %q, want %q", i, imp.Alias, c.alias)
		}
		if imp.Level != c.level {
			t.Errorf("import %d level = %d, want %d", i, imp.Level, c.level)
		}
		if imp.IsWildcard != c.wildcard {
			t.Errorf("import %d wildcard = %v, want %v", i, imp.IsWildcard, c.wildcard)
		}
		if len(imp.Items) != len(c.items) {
			t.Errorf("import %d items = %v, want %v", i, imp.Items, c.items)
			continue
		}
		for j, item := range c.items {
			if imp.Items[j] != item {
				t.Errorf("import %d item %d = %q, want %q", i, j, imp.Items[j], item)
			}
		}
	}

	// the wildcard import is surfaced as a diagnostic, not a binding
	found := false
	for _, d := range file.Diagnostics {
		if d.Kind == DiagWildcardImport {
			found = true
			if d.Line != 8 {
				t.Errorf("wildcard diagnostic line = %d, want 8", d.Line)
			}
		}
	}
	if !found {
		t.Error("wildcard import produced no diagnostic")
	}
}

func TestImportBindings(t *testing.T) {
	file := parse(t, "test.py", `
import os.path
import numpy as np
from auth import login as do_login

os.getcwd()
np.zeros(3)
do_login()
login()
`)

	if got := unresolved(file); len(got) != 1 || got[0] != "login" {
		t.Errorf("unresolved = %v, want [login]", got)
	}
}

func TestDefinitionsAndHoisting(t *testing.T) {
	file := parse(t, "test.py", `
def caller():
    return helper()

def helper():
    return VERSION

VERSION = "1.0"

class Config:
    default = VERSION
`)

	if got := unresolved(file); len(got) != 0 {
		t.Errorf("unresolved = %v, want none", got)
	}

	wantKinds := map[string]DefinitionKind{
		"caller":  KindFunction,
		"helper":  KindFunction,
		"VERSION": KindVariable,
		"Config":  KindClass,
	}
	for name, kind := range wantKinds {
		found := false
		for _, def := range file.Definitions {
			if def.Name == name && def.Kind == kind && def.Scope == 0 {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing module-level %s of kind %s", name, kind)
		}
	}
}

func TestFunctionScopeIsolation(t *testing.T) {
	file := parse(t, "test.py", `
def work(items, limit=10):
    total = 0
    for item in items:
        total += item
    return total

def other():
    return total
`)

	got := unresolved(file)
	if len(got) != 1 || got[0] != "total" {
		t.Errorf("unresolved = %v, want [total]", got)
	}
}

func TestUndefinedUse(t *testing.T) {
	file := parse(t, "test.py", `
def process(data):
    return transform(data)
`)

	got := unresolved(file)
	if len(got) != 1 || got[0] != "transform" {
		t.Errorf("unresolved = %v, want [transform]", got)
	}
}

func TestBuiltinsNotUndefined(t *testing.T) {
	file := parse(t, "test.py", `
print(len([1, 2]))
x = isinstance(3, int)
if x is None:
    raise ValueError("bad")
`)

	if got := unresolved(file); len(got) != 0 {
		t.Errorf("unresolved = %v, want none", got)
	}
}

func TestComprehensionScope(t *testing.T) {
	file := parse(t, "test.py", `
rows = [[1, 2], [3]]
flat = [cell for row in rows for cell in row if cell > 0]
pairs = {k: v for k, v in items}
gen = (x * x for x in rows)
`)

	got := unresolved(file)
	if len(got) != 1 || got[0] != "items" {
		t.Errorf("unresolved = %v, want [items]", got)
	}

	// loop variables must not leak into the module scope
	for _, name := range []string{"cell", "row", "k", "v", "x"} {
		if file.Scopes().Resolves(0, name) {
			t.Errorf("comprehension variable %s leaked into module scope", name)
		}
	}
}

func TestLambdaScope(t *testing.T) {
	file := parse(t, "test.py", `
scale = 2
double = lambda n: n * scale
bad = lambda: missing
`)

	got := unresolved(file)
	if len(got) != 1 || got[0] != "missing" {
		t.Errorf("unresolved = %v, want [missing]", got)
	}
	if file.Scopes().Resolves(0, "n") {
		t.Error("lambda parameter leaked into module scope")
	}
}

func TestClassScope(t *testing.T) {
	file := parse(t, "test.py", `
class Base:
    pass

class Widget(Base):
    size = 4

    def area(self):
        return self.size * other_field

other_field = 3
`)

	if got := unresolved(file); len(got) != 0 {
		t.Errorf("unresolved = %v, want none", got)
	}
	if file.Scopes().Resolves(0, "size") {
		t.Error("class attribute leaked into module scope")
	}
	if file.Scopes().Resolves(0, "self") {
		t.Error("method parameter leaked into module scope")
	}
}

func TestExceptAndWithBindings(t *testing.T) {
	file := parse(t, "test.py", `
def read(path):
    try:
        with open(path) as fh:
            return fh.read()
    except OSError as err:
        return str(err)
`)

	if got := unresolved(file); len(got) != 0 {
		t.Errorf("unresolved = %v, want none", got)
	}
}

func TestDestructuringAndWalrus(t *testing.T) {
	file := parse(t, "test.py", `
a, b = 1, 2
(c, (d, e)) = (3, (4, 5))
first, *rest = [a, b, c]
if (n := d + e) > 0:
    print(n, first, rest)
`)

	if got := unresolved(file); len(got) != 0 {
		t.Errorf("unresolved = %v, want none", got)
	}
}

func TestDecoratorsAndDefaults(t *testing.T) {
	file := parse(t, "test.py", `
def wrap(f):
    return f

LIMIT = 5

@wrap
def handler(count=LIMIT, factor=undefined_default):
    return count
`)

	got := unresolved(file)
	if len(got) != 1 || got[0] != "undefined_default" {
		t.Errorf("unresolved = %v, want [undefined_default]", got)
	}
}

func TestAttributeBaseOnly(t *testing.T) {
	file := parse(t, "test.py", `
import os
p = os.path.join("a", "b")
q = p.upper().strip()
`)

	if got := unresolved(file); len(got) != 0 {
		t.Errorf("unresolved = %v, want none", got)
	}

	// "path", "join", "upper", "strip" must not appear as uses
	for _, use := range file.Uses {
		switch use.Name {
		case "path", "join", "upper", "strip":
			t.Errorf("attribute name %s recorded as a use", use.Name)
		}
	}
}

func TestGlobalStatement(t *testing.T) {
	file := parse(t, "test.py", `
counter = 0

def bump():
    global counter
    counter = counter + 1
`)

	if got := unresolved(file); len(got) != 0 {
		t.Errorf("unresolved = %v, want none", got)
	}
}

func TestRejectsNonPython(t *testing.T) {
	p := NewParser(NewGrammarLoader())
	if p.IsSupportedPath("main.go") {
		t.Error("main.go should not be supported")
	}
	if !p.IsSupportedPath("pkg/mod.py") {
		t.Error("pkg/mod.py should be supported")
	}
	if _, err := p.ParseFile("main.go", []byte("package main")); err == nil {
		t.Error("expected error for unsupported file type")
	}
	if _, err := p.ParseFile("bad.py", []byte{0xff, 0xfe, 0x00}); err == nil {
		t.Error("expected error for invalid UTF-8")
	}
}

func TestUseLines(t *testing.T) {
	file := parse(t, "test.py", `
x = value_one
y = value_two
`)

	want := map[string]int{"value_one": 2, "value_two": 3}
	for _, use := range file.Uses {
		if line, ok := want[use.Name]; ok && use.Line != line {
			t.Errorf("%s line = %d, want %d", use.Name, use.Line, line)
		}
	}
}

// # internal/parser/symbols.go
package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// symbolWalker performs the scope-aware symbol walk over one parsed
// file. Binding order inside a scope is intentionally not tracked:
// uses are recorded with their scope id and resolved only after the
// whole file has been walked, which gives whole-module hoisting
// semantics (a use before its binding in the same scope still
// resolves).
type symbolWalker struct {
	path    string
	src     []byte
	arena   *ScopeArena
	current ScopeID
	file    *FileAnalysis
}

func newSymbolWalker(path string, src []byte) *symbolWalker {
	arena := NewScopeArena()
	return &symbolWalker{
		path:    path,
		src:     src,
		arena:   arena,
		current: ScopeID(0),
		file: &FileAnalysis{
			Path:   path,
			scopes: arena,
		},
	}
}

func (w *symbolWalker) finish() *FileAnalysis {
	return w.file
}

func (w *symbolWalker) walkModule(root *sitter.Node) {
	for i := uint(0); i < root.ChildCount(); i++ {
		w.visit(root.Child(i))
	}
}

func (w *symbolWalker) visit(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "import_statement":
		w.visitImport(node)
	case "import_from_statement":
		w.visitImportFrom(node)
	case "function_definition":
		w.visitFunction(node)
	case "class_definition":
		w.visitClass(node)
	case "decorated_definition":
		w.visitDecorated(node)
	case "lambda":
		w.visitLambda(node)
	case "assignment":
		w.visitAssignment(node)
	case "augmented_assignment":
		w.visit(node.ChildByFieldName("left"))
		w.bindTargets(node.ChildByFieldName("left"), KindVariable)
		w.visit(node.ChildByFieldName("right"))
	case "named_expression":
		w.bindTargets(node.ChildByFieldName("name"), KindVariable)
		w.visit(node.ChildByFieldName("value"))
	case "for_statement":
		w.visit(node.ChildByFieldName("right"))
		w.bindTargets(node.ChildByFieldName("left"), KindVariable)
		w.visit(node.ChildByFieldName("body"))
		w.visit(node.ChildByFieldName("alternative"))
	case "as_pattern":
		// with ... as x, except E as x
		w.visit(node.Child(0))
		if alias := node.ChildByFieldName("alias"); alias != nil {
			w.bindTargets(alias, KindVariable)
		}
	case "global_statement", "nonlocal_statement":
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.Kind() == "identifier" {
				w.bind(child, KindVariable)
			}
		}
	case "list_comprehension", "set_comprehension", "generator_expression", "dictionary_comprehension":
		w.visitComprehension(node)
	case "attribute":
		// only the base object is a name read; the attribute itself
		// is opaque to the symbol table
		w.visit(node.ChildByFieldName("object"))
	case "keyword_argument":
		w.visit(node.ChildByFieldName("value"))
	case "identifier":
		w.recordUse(node)
	default:
		for i := uint(0); i < node.ChildCount(); i++ {
			w.visit(node.Child(i))
		}
	}
}

func (w *symbolWalker) visitFunction(node *sitter.Node) {
	if name := node.ChildByFieldName("name"); name != nil {
		w.bind(name, KindFunction)
	}

	params := node.ChildByFieldName("parameters")

	// Annotations and default values are evaluated in the enclosing
	// scope, before the function scope exists.
	w.visitParamExpressions(params)
	w.visit(node.ChildByFieldName("return_type"))

	prev := w.current
	w.current = w.arena.Push(ScopeFunction, prev)
	w.bindParameters(params)
	w.visit(node.ChildByFieldName("body"))
	w.current = prev
}

func (w *symbolWalker) visitClass(node *sitter.Node) {
	if name := node.ChildByFieldName("name"); name != nil {
		w.bind(name, KindClass)
	}
	w.visit(node.ChildByFieldName("superclasses"))

	prev := w.current
	w.current = w.arena.Push(ScopeClass, prev)
	w.visit(node.ChildByFieldName("body"))
	w.current = prev
}

func (w *symbolWalker) visitDecorated(node *sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "decorator" {
			w.visit(child)
		}
	}
	w.visit(node.ChildByFieldName("definition"))
}

func (w *symbolWalker) visitLambda(node *sitter.Node) {
	params := node.ChildByFieldName("parameters")
	w.visitParamExpressions(params)

	prev := w.current
	w.current = w.arena.Push(ScopeLambda, prev)
	w.bindParameters(params)
	w.visit(node.ChildByFieldName("body"))
	w.current = prev
}

// visitComprehension opens a fresh scope, binds every generator
// clause's loop targets, then visits the yielded expression. Iterables
// and filter conditions are visited inside the same scope, which keeps
// chained clauses ("for y in x for z in y") resolvable.
func (w *symbolWalker) visitComprehension(node *sitter.Node) {
	prev := w.current
	w.current = w.arena.Push(ScopeComprehension, prev)

	var rest []*sitter.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "for_in_clause":
			w.visit(child.ChildByFieldName("right"))
			w.bindTargets(child.ChildByFieldName("left"), KindVariable)
		case "if_clause":
			for j := uint(0); j < child.ChildCount(); j++ {
				w.visit(child.Child(j))
			}
		default:
			rest = append(rest, child)
		}
	}
	for _, child := range rest {
		w.visit(child)
	}

	w.current = prev
}

func (w *symbolWalker) visitAssignment(node *sitter.Node) {
	w.bindTargets(node.ChildByFieldName("left"), KindVariable)
	w.visit(node.ChildByFieldName("type"))
	w.visit(node.ChildByFieldName("right"))
}

// visitParamExpressions visits the parts of a parameter list evaluated
// in the enclosing scope: type annotations and default values.
func (w *symbolWalker) visitParamExpressions(params *sitter.Node) {
	if params == nil {
		return
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		child := params.NamedChild(i)
		switch child.Kind() {
		case "typed_parameter":
			w.visit(child.ChildByFieldName("type"))
		case "default_parameter":
			w.visit(child.ChildByFieldName("value"))
		case "typed_default_parameter":
			w.visit(child.ChildByFieldName("type"))
			w.visit(child.ChildByFieldName("value"))
		}
	}
}

// bindParameters seeds a freshly opened function or lambda scope with
// every parameter name: positional, defaulted, keyword-only, *args and
// **kwargs forms.
func (w *symbolWalker) bindParameters(params *sitter.Node) {
	if params == nil {
		return
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		child := params.NamedChild(i)
		switch child.Kind() {
		case "identifier":
			w.bind(child, KindParameter)
		case "typed_parameter":
			w.bindTargets(child.Child(0), KindParameter)
		case "default_parameter", "typed_default_parameter":
			w.bindTargets(child.ChildByFieldName("name"), KindParameter)
		case "list_splat_pattern", "dictionary_splat_pattern", "tuple_pattern":
			w.bindTargets(child, KindParameter)
		}
	}
}

// bindTargets binds every plain name in a store-target pattern,
// descending through tuple/list destructuring. Attribute and subscript
// stores bind nothing but their base expressions are still name reads.
func (w *symbolWalker) bindTargets(node *sitter.Node, kind DefinitionKind) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "identifier":
		w.bind(node, kind)
	case "attribute", "subscript":
		w.visit(node)
	case "as_pattern_target", "pattern_list", "tuple_pattern", "list_pattern",
		"list_splat_pattern", "dictionary_splat_pattern", "splat_pattern":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			w.bindTargets(node.NamedChild(i), kind)
		}
	}
}

func (w *symbolWalker) visitImport(node *sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name", "identifier":
			module := w.text(child)
			// "import a.b" binds a in the current scope
			w.bindName(strings.SplitN(module, ".", 2)[0], KindImportAlias, w.line(child))
			w.file.Imports = append(w.file.Imports, Import{
				Module: module,
				Line:   w.line(child),
			})
		case "aliased_import":
			name := child.ChildByFieldName("name")
			alias := child.ChildByFieldName("alias")
			if name == nil || alias == nil {
				continue
			}
			w.bind(alias, KindImportAlias)
			w.file.Imports = append(w.file.Imports, Import{
				Module: w.text(name),
				Alias:  w.text(alias),
				Line:   w.line(child),
			})
		}
	}
}

func (w *symbolWalker) visitImportFrom(node *sitter.Node) {
	imp := Import{Line: w.line(node)}

	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode != nil {
		switch moduleNode.Kind() {
		case "relative_import":
			raw := w.text(moduleNode)
			imp.Level = len(raw) - len(strings.TrimLeft(raw, "."))
			imp.Module = strings.TrimLeft(raw, ".")
		case "dotted_name", "identifier":
			imp.Module = w.text(moduleNode)
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if moduleNode != nil && child.StartByte() == moduleNode.StartByte() {
			continue
		}
		switch child.Kind() {
		case "wildcard_import":
			imp.IsWildcard = true
			w.file.Diagnostics = append(w.file.Diagnostics, Diagnostic{
				Kind:   DiagWildcardImport,
				File:   w.path,
				Line:   w.line(child),
				Detail: "from " + strings.Repeat(".", imp.Level) + imp.Module + " import *",
			})
		case "dotted_name", "identifier":
			item := w.text(child)
			imp.Items = append(imp.Items, item)
			w.bindName(strings.SplitN(item, ".", 2)[0], KindImportAlias, w.line(child))
		case "aliased_import":
			name := child.ChildByFieldName("name")
			alias := child.ChildByFieldName("alias")
			if name == nil || alias == nil {
				continue
			}
			imp.Items = append(imp.Items, w.text(name))
			w.bind(alias, KindImportAlias)
		}
	}

	w.file.Imports = append(w.file.Imports, imp)
}

func (w *symbolWalker) bind(node *sitter.Node, kind DefinitionKind) {
	w.bindName(w.text(node), kind, w.line(node))
}

func (w *symbolWalker) bindName(name string, kind DefinitionKind, line int) {
	if name == "" {
		return
	}
	w.arena.Bind(w.current, name)
	w.file.Definitions = append(w.file.Definitions, Definition{
		Name:  name,
		Kind:  kind,
		Line:  line,
		Scope: w.current,
	})
}

func (w *symbolWalker) recordUse(node *sitter.Node) {
	w.file.Uses = append(w.file.Uses, Use{
		Name:  w.text(node),
		Line:  w.line(node),
		Scope: w.current,
	})
}

func (w *symbolWalker) text(node *sitter.Node) string {
	return string(w.src[node.StartByte():node.EndByte()])
}

func (w *symbolWalker) line(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

// # internal/parser/parser.go
package parser

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parser turns Python source into a per-file FileAnalysis. The syntax
// tree itself comes from tree-sitter; this package only walks it.
type Parser struct {
	loader *GrammarLoader
}

func NewParser(loader *GrammarLoader) *Parser {
	return &Parser{loader: loader}
}

// IsSupportedPath reports whether path is a source file this parser handles.
func (p *Parser) IsSupportedPath(path string) bool {
	return filepath.Ext(path) == ".py"
}

// ParseFile parses content and runs the scope-aware symbol walk. The
// returned FileAnalysis owns its scope arena; the tree is released
// before returning.
func (p *Parser) ParseFile(path string, content []byte) (*FileAnalysis, error) {
	if !p.IsSupportedPath(path) {
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("not valid UTF-8: %s", path)
	}

	grammar := p.loader.Language("python")
	if grammar == nil {
		return nil, fmt.Errorf("python grammar not loaded")
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse failed: %s", path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parse produced no tree: %s", path)
	}

	w := newSymbolWalker(path, content)
	w.walkModule(root)
	return w.finish(), nil
}

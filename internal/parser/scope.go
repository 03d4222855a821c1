// # internal/parser/scope.go
package parser

type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeFunction
	ScopeClass
	ScopeLambda
	ScopeComprehension
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeClass:
		return "class"
	case ScopeLambda:
		return "lambda"
	case ScopeComprehension:
		return "comprehension"
	default:
		return "unknown"
	}
}

// ScopeID is an index into a file's ScopeArena. Scopes reference their
// parent by index rather than by pointer, so the arena owns every scope
// and lookup walks upward without any shared mutable state.
type ScopeID int

const NoScope ScopeID = -1

type scope struct {
	kind   ScopeKind
	parent ScopeID
	names  map[string]bool
}

// ScopeArena holds every lexical scope created while walking one file.
// Index 0 is always the module scope.
type ScopeArena struct {
	scopes []scope
}

func NewScopeArena() *ScopeArena {
	a := &ScopeArena{}
	a.scopes = append(a.scopes, scope{kind: ScopeModule, parent: NoScope, names: make(map[string]bool)})
	return a
}

// Push creates a new scope nested under parent and returns its id.
func (a *ScopeArena) Push(kind ScopeKind, parent ScopeID) ScopeID {
	a.scopes = append(a.scopes, scope{kind: kind, parent: parent, names: make(map[string]bool)})
	return ScopeID(len(a.scopes) - 1)
}

// Bind records name as bound in the given scope.
func (a *ScopeArena) Bind(id ScopeID, name string) {
	a.scopes[id].names[name] = true
}

// Resolves reports whether name is visible from the given scope,
// walking the chain innermost first. Binding order within a scope is
// deliberately ignored: a name bound anywhere in a scope resolves for
// every use in that scope.
func (a *ScopeArena) Resolves(id ScopeID, name string) bool {
	for id != NoScope {
		if a.scopes[id].names[name] {
			return true
		}
		id = a.scopes[id].parent
	}
	return false
}

// Kind returns the kind of the given scope.
func (a *ScopeArena) Kind(id ScopeID) ScopeKind {
	return a.scopes[id].kind
}

// Parent returns the parent of the given scope, or NoScope for the root.
func (a *ScopeArena) Parent(id ScopeID) ScopeID {
	return a.scopes[id].parent
}

// Len returns the number of scopes in the arena.
func (a *ScopeArena) Len() int {
	return len(a.scopes)
}

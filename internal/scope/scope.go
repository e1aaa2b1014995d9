// Package scope implements the lexical scope stack and symbol tables
// that bind identifiers, tags (struct/union/enum names), typedefs, and
// statement labels while the parser walks one translation unit.
package scope

import (
	"fmt"

	"github.com/cwbudde/goalc/internal/types"
)

// ScopeKind distinguishes why a Scope frame exists, for diagnostics: a
// for-loop init and a plain compound statement both report ScopeBlock.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeFunction
	ScopeBlock
)

// Label is a function-scoped goto target. Labeled distinguishes a
// definition (`ident:`) from a forward reference collected before the
// definition is seen; either order is legal.
type Label struct {
	Name    string
	Labeled bool
}

// Scope is one frame on the lexical stack. idents and tags are separate
// namespaces: `struct Point` and a variable named `Point` do not
// collide.
type Scope struct {
	Parent *Scope
	Kind   ScopeKind

	idents map[string]*Ident
	order  []string // insertion order, retained for codegen
	tags   map[string]*types.Type
}

// NewScope creates an empty scope frame chained to parent.
func NewScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{
		Kind:   kind,
		Parent: parent,
		idents: make(map[string]*Ident),
		tags:   make(map[string]*types.Type),
	}
}

// declareLocal adds ident to this scope only. Redeclaring an existing
// name in the same scope is an error; shadowing an outer scope's name is
// always permitted.
func (s *Scope) declareLocal(ident *Ident) error {
	if _, exists := s.idents[ident.Name]; exists {
		return fmt.Errorf("redeclaration of %q", ident.Name)
	}
	s.idents[ident.Name] = ident
	s.order = append(s.order, ident.Name)
	return nil
}

func (s *Scope) findLocal(name string) (*Ident, bool) {
	id, ok := s.idents[name]
	return id, ok
}

func (s *Scope) declareTagLocal(name string, t *types.Type) error {
	if _, exists := s.tags[name]; exists {
		return fmt.Errorf("redefinition of tag %q", name)
	}
	s.tags[name] = t
	return nil
}

func (s *Scope) findTagLocal(name string) (*types.Type, bool) {
	t, ok := s.tags[name]
	return t, ok
}

// Idents returns this scope's bindings in declaration order.
func (s *Scope) Idents() []*Ident {
	out := make([]*Ident, len(s.order))
	for i, name := range s.order {
		out[i] = s.idents[name]
	}
	return out
}

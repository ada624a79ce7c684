package syntax

import "vanadium/internal/source"

// Tree is the parse of one module text. It may hold several modules.
type Tree struct {
	Modules []*Module
}

// TagDefault is the module's default tagging mode.
type TagDefault uint8

const (
	TagsExplicit TagDefault = iota
	TagsImplicit
	TagsAutomatic
)

// Module is one "Name DEFINITIONS ::= BEGIN ... END" block.
type Module struct {
	Name       string
	NameRange  source.Span
	Range      source.Span
	TagDefault TagDefault
	Extensible bool // EXTENSIBILITY IMPLIED
	Exports    []Symbol
	ExportAll  bool
	Imports    []*Import
	Members    []*Expr

	members map[string]*Expr
}

// Import is one "symbols FROM Module" clause.
type Import struct {
	From      string
	FromRange source.Span
	Symbols   []Symbol
}

// Symbol is an imported or exported name.
type Symbol struct {
	Name  string
	Range source.Span
}

// AddMember appends e and indexes it by name. A later member with the same
// name shadows the earlier one in Member.
func (m *Module) AddMember(e *Expr) {
	if m.members == nil {
		m.members = make(map[string]*Expr)
	}
	e.Module = m
	m.Members = append(m.Members, e)
	m.members[e.Identifier] = e
}

// Member looks up an assignment by name.
func (m *Module) Member(name string) *Expr {
	if m == nil {
		return nil
	}
	return m.members[name]
}

// ImportOf returns the import clause that brings name into scope.
func (m *Module) ImportOf(name string) *Import {
	for _, imp := range m.Imports {
		for _, sym := range imp.Symbols {
			if sym.Name == name {
				return imp
			}
		}
	}
	return nil
}

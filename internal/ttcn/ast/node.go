// Package ast is the TTCN-3 target tree that ASN.1 modules are lowered
// into. Nodes live in an arena and are addressed by generation-stamped
// NodeIDs, so a tree that outlived its arena generation cannot be read.
package ast

import (
	"vanadium/internal/arena"
	"vanadium/internal/source"
)

type Kind uint8

const (
	KindInvalid Kind = iota
	KindRoot
	KindModule
	KindDefinition
	KindStructTypeDecl
	KindStructSpec
	KindEnumTypeDecl
	KindEnumSpec
	KindListSpec
	KindSubTypeDecl
	KindField
	KindRefSpec
	KindIdent
	KindValueDecl
	KindDeclarator
)

var kindNames = [...]string{
	KindInvalid:        "Invalid",
	KindRoot:           "Root",
	KindModule:         "Module",
	KindDefinition:     "Definition",
	KindStructTypeDecl: "StructTypeDecl",
	KindStructSpec:     "StructSpec",
	KindEnumTypeDecl:   "EnumTypeDecl",
	KindEnumSpec:       "EnumSpec",
	KindListSpec:       "ListSpec",
	KindSubTypeDecl:    "SubTypeDecl",
	KindField:          "Field",
	KindRefSpec:        "RefSpec",
	KindIdent:          "Ident",
	KindValueDecl:      "ValueDecl",
	KindDeclarator:     "Declarator",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// IsTypeSpec reports whether nodes of kind k can stand in a type position.
func (k Kind) IsTypeSpec() bool {
	switch k {
	case KindStructSpec, KindEnumSpec, KindListSpec, KindRefSpec:
		return true
	}
	return false
}

// Token is the keyword a declaration or spec carries.
type Token uint8

const (
	TokNone Token = iota
	TokRecord
	TokSet
	TokUnion
	TokConst
)

func (t Token) String() string {
	switch t {
	case TokRecord:
		return "record"
	case TokSet:
		return "set"
	case TokUnion:
		return "union"
	case TokConst:
		return "const"
	}
	return ""
}

type NodeID = arena.Ref[Node]

// Name is an optional name range into the adjusted source.
type Name struct {
	Span  source.Span
	Valid bool
}

func (n Name) Text(src string) string {
	if !n.Valid {
		return ""
	}
	return n.Span.Text(src)
}

// Node is one target tree node. Which fields are meaningful depends on Kind:
//
//	Root, Module      Children: modules / definitions; Module has Name
//	Definition        Type: the declaration
//	StructTypeDecl    Tok, Name, Children: fields
//	StructSpec        Tok, Children: fields
//	EnumTypeDecl      Name, Children: value idents
//	EnumSpec          Children: value idents
//	ListSpec          Tok, Type: element spec
//	SubTypeDecl       Type: the field
//	Field             Name, Optional, Type: spec
//	RefSpec           Type: ident
//	Ident             Span
//	ValueDecl         Tok, Type, Children: declarators
//	Declarator        Name
type Node struct {
	Kind     Kind
	Span     source.Span
	Parent   NodeID
	Name     Name
	Tok      Token
	Optional bool
	Type     NodeID
	Children []NodeID
}

// Tree gives access to nodes stored in an arena.
type Tree struct {
	a *arena.Arena
}

func NewTree(a *arena.Arena) *Tree {
	return &Tree{a: a}
}

func (t *Tree) Arena() *arena.Arena {
	return t.a
}

// New allocates a zero node of the given kind.
func (t *Tree) New(kind Kind) (NodeID, *Node) {
	id, n := arena.Alloc[Node](t.a)
	n.Kind = kind
	return id, n
}

// Get resolves id. Nil ids give (nil, nil); ids from an earlier arena
// generation give arena.ErrStale.
func (t *Tree) Get(id NodeID) (*Node, error) {
	return id.Get(t.a)
}

// Node is Get for ids known to be live.
func (t *Tree) Node(id NodeID) *Node {
	return id.MustGet(t.a)
}

// Walk visits id and its descendants depth-first, Type before Children.
// Returning false from fn skips the node's subtree.
func (t *Tree) Walk(id NodeID, fn func(id NodeID, n *Node, depth int) bool) error {
	return t.walk(id, fn, 0)
}

func (t *Tree) walk(id NodeID, fn func(NodeID, *Node, int) bool, depth int) error {
	n, err := t.Get(id)
	if err != nil || n == nil {
		return err
	}
	if !fn(id, n, depth) {
		return nil
	}
	if err := t.walk(n.Type, fn, depth+1); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := t.walk(c, fn, depth+1); err != nil {
			return err
		}
	}
	return nil
}

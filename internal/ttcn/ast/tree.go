package ast

import (
	"vanadium/internal/diag"
	"vanadium/internal/source"
)

// Error is a lowering or ingestion error positioned in Src.
type Error struct {
	Span    source.Span
	Message string
	Code    diag.Code
}

// AST is a lowered module: the adjusted source all node spans index into,
// the root node, and the errors collected on the way.
type AST struct {
	Src    string
	Root   NodeID
	Tree   *Tree
	Lines  source.LineIndex
	Errors []Error
	// Revision is the input revision the tree was lowered from.
	Revision uint64
}

// Module returns the module node under the root, or nil.
func (a *AST) Module() *Node {
	if a.Tree == nil {
		return nil
	}
	root, err := a.Tree.Get(a.Root)
	if err != nil || root == nil || len(root.Children) == 0 {
		return nil
	}
	mod, err := a.Tree.Get(root.Children[0])
	if err != nil {
		return nil
	}
	return mod
}

// Definitions returns the declaration under each Definition of the module.
func (a *AST) Definitions() []*Node {
	mod := a.Module()
	if mod == nil {
		return nil
	}
	defs := make([]*Node, 0, len(mod.Children))
	for _, id := range mod.Children {
		def, err := a.Tree.Get(id)
		if err != nil || def == nil {
			continue
		}
		if decl, err := a.Tree.Get(def.Type); err == nil && decl != nil {
			defs = append(defs, decl)
		}
	}
	return defs
}

// Text returns the source text under sp.
func (a *AST) Text(sp source.Span) string {
	return sp.Text(a.Src)
}

// Diagnostics converts Errors for the file they belong to.
func (a *AST) Diagnostics(file source.FileID) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(a.Errors))
	for _, e := range a.Errors {
		code := e.Code
		if code == diag.UnknownCode {
			code = diag.TrUnsupportedConstruct
		}
		out = append(out, diag.NewError(code, e.Span, e.Message).InFile(file))
	}
	return out
}

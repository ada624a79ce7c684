// Package ingest runs the ASN.1 parser inside an arena scope and owns its
// result.
package ingest

import (
	"vanadium/internal/arena"
	"vanadium/internal/asn1/parser"
	"vanadium/internal/asn1/syntax"
	"vanadium/internal/diag"
	"vanadium/internal/source"
)

// SyntaxError is a parser error with its position in the module text.
type SyntaxError struct {
	Code    diag.Code
	Span    source.Span
	Message string
}

func (e SyntaxError) Error() string {
	return e.Span.String() + ": " + e.Message
}

// noCopy makes go vet flag copies of Tree.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Tree owns a parsed syntax tree and the allocator scope it was built in.
// It is always handled by pointer.
type Tree struct {
	_     noCopy
	raw   *syntax.Tree
	arena *arena.Arena
	al    *syntax.Allocator
}

// Parse parses text with every node allocated in a. On failure the tree is
// nil and the errors are non-empty. The arena is not rolled back; reset it
// before parsing into it again.
func Parse(a *arena.Arena, text string) (*Tree, []SyntaxError) {
	al := syntax.NewAllocator()
	defer al.Bind(a)()

	var errs errorSink
	raw, ok := parser.Parse(text, al, parser.Options{Reporter: &errs})
	if !ok {
		if len(errs) == 0 {
			errs = append(errs, SyntaxError{Code: diag.UnknownCode, Message: "parse failed"})
		}
		return nil, errs
	}
	return &Tree{raw: raw, arena: a, al: al}, nil
}

// Raw returns the parser tree, nil after Close.
func (t *Tree) Raw() *syntax.Tree {
	if t == nil {
		return nil
	}
	return t.raw
}

// Module returns the first module of the text.
func (t *Tree) Module() *syntax.Module {
	raw := t.Raw()
	if raw == nil || len(raw.Modules) == 0 {
		return nil
	}
	return raw.Modules[0]
}

// Arena returns the arena the tree lives in.
func (t *Tree) Arena() *arena.Arena {
	if t == nil {
		return nil
	}
	return t.arena
}

// Close releases the tree inside the same arena scope it was built in.
// Calling it again is a no-op.
func (t *Tree) Close() {
	if t == nil || t.raw == nil {
		return
	}
	defer t.al.Bind(t.arena)()
	t.raw.Modules = nil
	t.raw = nil
}

type errorSink []SyntaxError

func (s *errorSink) Report(d diag.Diagnostic) {
	if d.Severity < diag.SevError {
		return
	}
	*s = append(*s, SyntaxError{Code: d.Code, Span: d.Primary, Message: d.Message})
}

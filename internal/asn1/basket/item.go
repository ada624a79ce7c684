package basket

import (
	"sync"

	"vanadium/internal/arena"
	"vanadium/internal/asn1/ingest"
	"vanadium/internal/asn1/syntax"
	"vanadium/internal/source"
)

// Item is the state of one document. It is updated in place: every
// Update resets its arena and parses the new text from scratch.
type Item struct {
	mu sync.Mutex // serializes updates of this item

	src        string
	lines      source.LineIndex
	arena      *arena.Arena
	tree       *ingest.Tree
	errors     []ingest.SyntaxError
	moduleName string
	registered bool
	dirty      bool
	revision   uint64
}

// Src returns the text of the last update.
func (it *Item) Src() string { return it.src }

// Lines returns the line index of Src.
func (it *Item) Lines() source.LineIndex { return it.lines }

// Tree returns the ingested tree, nil when ingestion failed.
func (it *Item) Tree() *ingest.Tree { return it.tree }

// Module returns the first module of the ingested tree, or nil.
func (it *Item) Module() *syntax.Module { return it.tree.Module() }

// Errors returns the ingestion errors, followed by a redefinition error
// when the module name is taken.
func (it *Item) Errors() []ingest.SyntaxError { return it.errors }

// ModuleName returns the name of the module the item defines, or "".
func (it *Item) ModuleName() string { return it.moduleName }

// Dirty reports whether the item changed since MarkClean.
func (it *Item) Dirty() bool { return it.dirty }

// Revision counts the updates of the item.
func (it *Item) Revision() uint64 { return it.revision }

// Package basket keeps the ASN.1 documents of a workspace, parsed and
// registered by module name, and lowers them on demand.
package basket

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"vanadium/internal/arena"
	"vanadium/internal/asn1/ingest"
	"vanadium/internal/asn1/syntax"
	"vanadium/internal/asn1/transform"
	"vanadium/internal/compext"
	"vanadium/internal/diag"
	"vanadium/internal/source"
	"vanadium/internal/trace"
	"vanadium/internal/ttcn/ast"
)

// ErrUnknownKey is returned for keys that were never updated.
var ErrUnknownKey = errors.New("unknown basket key")

// Provider resolves module names to items. Baskets of any key type
// implement it and can reference each other.
type Provider interface {
	FindModuleProvider(name string) *Item
	findModule(name string, seen map[Provider]bool) *Item
}

// Basket maps caller keys to documents. Names registered by documents
// are weak: they never keep an item alive past Remove.
//
// Update may run concurrently for different keys. Transform takes no lock;
// callers must not update a key while transforming it.
type Basket[K comparable] struct {
	itemsMu sync.Mutex
	items   map[K]*Item
	order   []K

	namesMu sync.Mutex
	names   map[string]*Item
	refs    []Provider

	tracer trace.Tracer
	ext    *compext.Flags
}

// New creates an empty basket.
func New[K comparable]() *Basket[K] {
	return &Basket[K]{
		items:  make(map[K]*Item),
		names:  make(map[string]*Item),
		tracer: trace.Nop,
	}
}

// WithTracer sets the tracer Update and Transform report to.
func (b *Basket[K]) WithTracer(t trace.Tracer) *Basket[K] {
	if t == nil {
		t = trace.Nop
	}
	b.tracer = t
	return b
}

// WithExtensions sets the compiler extensions Transform lowers with.
func (b *Basket[K]) WithExtensions(f *compext.Flags) *Basket[K] {
	b.ext = f
	return b
}

// AddReference makes modules of other visible to this basket. Lookups
// try references in the order they were added.
func (b *Basket[K]) AddReference(other Provider) {
	b.namesMu.Lock()
	defer b.namesMu.Unlock()
	b.refs = append(b.refs, other)
}

// Update replaces the text of key and parses it.
func (b *Basket[K]) Update(key K, text string) {
	item := b.acquire(key)
	item.mu.Lock()
	defer item.mu.Unlock()
	b.reparse(key, item, text)
	b.register(item)
}

// acquire returns the item of key, creating it at the end of the key order.
func (b *Basket[K]) acquire(key K) *Item {
	b.itemsMu.Lock()
	defer b.itemsMu.Unlock()
	item, ok := b.items[key]
	if !ok {
		item = &Item{arena: arena.New()}
		b.items[key] = item
		b.order = append(b.order, key)
	}
	return item
}

// reparse resets item and ingests text into it. The module name is
// recorded but not registered. item.mu must be held.
func (b *Basket[K]) reparse(key K, item *Item, text string) {
	sp := trace.Begin(b.tracer, trace.ScopeDocument, "basket.update", b.docName(key), 0)

	if item.revision > 0 {
		b.unregister(item)
		item.tree.Close()
		item.arena.Reset()
	}
	item.src = text
	item.lines = source.NewLineIndex(text)
	item.revision++
	item.dirty = true
	item.tree, item.errors = ingest.Parse(item.arena, text)
	if mod := item.Module(); mod != nil {
		item.moduleName = mod.Name
	}

	sp.WithExtra("module", item.moduleName).End(fmt.Sprintf("errors=%d", len(item.errors)))
}

// register claims the module name of item. A name already held by
// another item is reported on item. item.mu must be held.
func (b *Basket[K]) register(item *Item) {
	mod := item.Module()
	if mod == nil {
		return
	}

	b.namesMu.Lock()
	defer b.namesMu.Unlock()
	if other, taken := b.names[mod.Name]; taken && other != item {
		item.errors = append(item.errors, ingest.SyntaxError{
			Code:    diag.BasketModuleRedefined,
			Span:    mod.NameRange,
			Message: fmt.Sprintf("module '%s' is already defined in another file", mod.Name),
		})
		return
	}
	b.names[mod.Name] = item
	item.registered = true
}

func (b *Basket[K]) unregister(item *Item) {
	b.namesMu.Lock()
	defer b.namesMu.Unlock()
	if item.registered && b.names[item.moduleName] == item {
		delete(b.names, item.moduleName)
	}
	item.moduleName = ""
	item.registered = false
}

// FindModuleProvider returns the item defining module name, looking in
// this basket first and then in the references. Nil means not found.
func (b *Basket[K]) FindModuleProvider(name string) *Item {
	return b.findModule(name, make(map[Provider]bool))
}

func (b *Basket[K]) findModule(name string, seen map[Provider]bool) *Item {
	if seen[b] {
		return nil
	}
	seen[b] = true

	b.namesMu.Lock()
	item := b.names[name]
	refs := b.refs
	b.namesMu.Unlock()
	if item != nil {
		return item
	}
	for _, ref := range refs {
		if item := ref.findModule(name, seen); item != nil {
			return item
		}
	}
	return nil
}

func (b *Basket[K]) moduleProvider(name string) *syntax.Module {
	item := b.FindModuleProvider(name)
	if item == nil {
		return nil
	}
	return item.Module()
}

// Transform lowers the document of key into dst. A document that failed
// ingestion yields a root-only tree carrying its errors. Errors are
// ingestion errors first, then lowering errors.
func (b *Basket[K]) Transform(key K, dst *arena.Arena) (ast.AST, error) {
	item := b.Item(key)
	if item == nil {
		return ast.AST{}, fmt.Errorf("%w: %v", ErrUnknownKey, key)
	}
	sp := trace.Begin(b.tracer, trace.ScopeDocument, "basket.transform", b.docName(key), 0)

	errs := make([]ast.Error, 0, len(item.errors))
	for _, e := range item.errors {
		errs = append(errs, ast.Error{Span: e.Span, Message: e.Message, Code: e.Code})
	}

	out := ast.AST{Src: item.src, Lines: item.lines, Revision: item.revision}
	if item.tree == nil {
		out.Tree = ast.NewTree(dst)
		out.Root, _ = out.Tree.New(ast.KindRoot)
		out.Errors = errs
		sp.WithExtra("module", "").End("ingestion failed")
		return out, nil
	}

	res := transform.Transform(item.tree.Raw(), item.src, dst, b.moduleProvider, transform.Options{Extensions: b.ext, Trace: sp})
	out.Src = res.Src
	out.Root = res.Root
	out.Tree = res.Nodes
	out.Errors = append(errs, res.Errors...)
	sp.WithExtra("module", item.moduleName).End(fmt.Sprintf("errors=%d", len(out.Errors)))
	return out, nil
}

// docName renders key for trace events. Formatting is skipped when
// nothing is listening.
func (b *Basket[K]) docName(key K) string {
	if b.tracer == nil || !b.tracer.Enabled() {
		return ""
	}
	return fmt.Sprint(key)
}

// IsCurrent reports whether a was lowered from the latest text of key.
func (b *Basket[K]) IsCurrent(key K, a *ast.AST) bool {
	item := b.Item(key)
	return item != nil && a != nil && a.Revision == item.revision
}

// Item returns the item of key, or nil.
func (b *Basket[K]) Item(key K) *Item {
	b.itemsMu.Lock()
	defer b.itemsMu.Unlock()
	return b.items[key]
}

// Len returns the number of documents.
func (b *Basket[K]) Len() int {
	b.itemsMu.Lock()
	defer b.itemsMu.Unlock()
	return len(b.items)
}

// Remove drops key and the module name it registered.
func (b *Basket[K]) Remove(key K) bool {
	b.itemsMu.Lock()
	item, ok := b.items[key]
	if ok {
		delete(b.items, key)
		for i, k := range b.order {
			if k == key {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
	b.itemsMu.Unlock()
	if !ok {
		return false
	}

	item.mu.Lock()
	defer item.mu.Unlock()
	b.unregister(item)
	item.tree.Close()
	item.tree = nil
	item.arena.Reset()
	return true
}

// MarkClean clears the dirty flag of key.
func (b *Basket[K]) MarkClean(key K) {
	if item := b.Item(key); item != nil {
		item.mu.Lock()
		item.dirty = false
		item.mu.Unlock()
	}
}

// Keys yields every key in the order it was first updated.
func (b *Basket[K]) Keys() iter.Seq[K] {
	return b.keys(func(*Item) bool { return true })
}

// DirtyKeys yields the keys updated since their last MarkClean.
func (b *Basket[K]) DirtyKeys() iter.Seq[K] {
	return b.keys(func(it *Item) bool { return it.dirty })
}

func (b *Basket[K]) keys(keep func(*Item) bool) iter.Seq[K] {
	return func(yield func(K) bool) {
		b.itemsMu.Lock()
		var keys []K
		for _, k := range b.order {
			if keep(b.items[k]) {
				keys = append(keys, k)
			}
		}
		b.itemsMu.Unlock()
		for _, k := range keys {
			if !yield(k) {
				return
			}
		}
	}
}

// Doc is one input of UpdateAll.
type Doc[K comparable] struct {
	Key  K
	Text string
}

// UpdateAll updates docs on up to jobs goroutines. jobs <= 0 means
// GOMAXPROCS. It stops early when ctx is cancelled.
//
// The result does not depend on scheduling: new keys are ordered as in
// docs, and module names are claimed in docs order once parsing is done,
// so a redefinition is reported on the later document.
func (b *Basket[K]) UpdateAll(ctx context.Context, docs []Doc[K], jobs int) error {
	if len(docs) == 0 {
		return nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	ctx, sp := trace.Start(ctx, trace.ScopeWorkspace, "basket.update_all")
	defer sp.End(fmt.Sprintf("docs=%d", len(docs)))

	items := make([]*Item, len(docs))
	for i, doc := range docs {
		items[i] = b.acquire(doc.Key)
	}
	parsed := make([]bool, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(docs)))
	for i, doc := range docs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			item := items[i]
			item.mu.Lock()
			defer item.mu.Unlock()
			b.reparse(doc.Key, item, doc.Text)
			// indexes are unique per goroutine
			parsed[i] = true
			return nil
		})
	}
	err := g.Wait()

	for i, item := range items {
		if !parsed[i] {
			continue
		}
		item.mu.Lock()
		b.register(item)
		item.mu.Unlock()
	}
	return err
}

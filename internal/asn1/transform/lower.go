// Package transform lowers a parsed ASN.1 module into the TTCN-3 target
// tree. Names in the target tree are ranges into an adjusted copy of the
// module text; builtin type names and class object values that have no
// place in the original text are appended to it.
package transform

import (
	"fmt"

	"fortio.org/safecast"

	"vanadium/internal/arena"
	"vanadium/internal/asn1/syntax"
	"vanadium/internal/compext"
	"vanadium/internal/diag"
	"vanadium/internal/source"
	"vanadium/internal/trace"
	"vanadium/internal/ttcn/ast"
)

// ModuleProvider finds an imported module by name. It returns nil when
// no such module is known.
type ModuleProvider func(name string) *syntax.Module

// Options tune lowering.
type Options struct {
	Extensions *compext.Flags
	// Trace receives one decl-scope point per lowered assignment. nil is
	// allowed.
	Trace *trace.Span
}

// Result is a lowered module. Src is the adjusted source every span in
// Nodes points into; it is allocated in the destination arena.
type Result struct {
	Src    string
	Root   ast.NodeID
	Nodes  *ast.Tree
	Errors []ast.Error
	// Versions is the number of version tokens appended to Src.
	Versions int
}

// Transform lowers the first module of tree. src is the text tree was
// parsed from. provider resolves imports and may be nil.
func Transform(tree *syntax.Tree, src string, dst *arena.Arena, provider ModuleProvider, opts Options) Result {
	l := &lowerer{
		src:          src,
		buf:          make([]byte, len(src), len(src)+256),
		nodes:        ast.NewTree(dst),
		dst:          dst,
		provider:     provider,
		opts:         opts,
		appended:     make(map[string]source.Span),
		classNames:   make(map[string]bool),
		activeFields: make(map[*syntax.Expr]bool),
		maxVersion:   1,
	}
	copy(l.buf, src)
	if tree != nil && len(tree.Modules) > 0 {
		l.mod = tree.Modules[0]
	}

	root := l.lowerRoot()
	l.appendVersions()

	out := dst.AllocStringBuffer(len(l.buf))
	copy(out, l.buf)
	return Result{
		Src:      dst.String(out),
		Root:     root,
		Nodes:    l.nodes,
		Errors:   l.errors,
		Versions: l.maxVersion,
	}
}

// lowerer holds the state of one Transform call.
type lowerer struct {
	src      string
	buf      []byte // adjusted source
	nodes    *ast.Tree
	dst      *arena.Arena
	mod      *syntax.Module
	provider ModuleProvider
	opts     Options
	errors   []ast.Error

	parent ast.NodeID // node new nodes are linked to

	appended   map[string]source.Span
	classNames map[string]bool
	params     *paramScope

	// fixed type fields whose type is being lowered
	activeFields map[*syntax.Expr]bool

	maxVersion int
	versioned  []versionedName
}

func (l *lowerer) lowerRoot() ast.NodeID {
	return l.newNode(ast.KindRoot, func(_ ast.NodeID, n *ast.Node) {
		n.Span = l.wholeSource()
		if l.mod != nil {
			n.Children = append(n.Children, l.lowerModule(l.mod))
		}
	})
}

func (l *lowerer) lowerModule(mod *syntax.Module) ast.NodeID {
	return l.newNode(ast.KindModule, func(id ast.NodeID, n *ast.Node) {
		n.Span = l.wholeSource()
		n.Name = l.name(mod.NameRange)
		for _, member := range mod.Members {
			decl := l.lowerOutermost(member)
			if decl.IsNil() {
				continue
			}
			l.opts.Trace.Point(trace.ScopeDecl, "transform.decl", member.Identifier)
			def := l.newNode(ast.KindDefinition, func(_ ast.NodeID, d *ast.Node) {
				d.Type = decl
				d.Span = l.nodes.Node(decl).Span
			})
			l.adopt(def, decl)
			n.Children = append(n.Children, def)
		}
	})
}

func (l *lowerer) wholeSource() source.Span {
	end, err := safecast.Conv[uint32](len(l.src))
	if err != nil {
		panic(fmt.Errorf("source length overflow: %w", err))
	}
	return source.Span{Start: 0, End: end}
}

// newNode allocates a node linked to the current parent and runs init
// with the node as the current parent.
func (l *lowerer) newNode(kind ast.Kind, init func(id ast.NodeID, n *ast.Node)) ast.NodeID {
	id, n := l.nodes.New(kind)
	n.Parent = l.parent
	saved := l.parent
	l.parent = id
	if init != nil {
		init(id, n)
	}
	l.parent = saved
	return id
}

// adopt relinks child under parent.
func (l *lowerer) adopt(parent, child ast.NodeID) {
	if child.IsNil() {
		return
	}
	l.nodes.Node(child).Parent = parent
}

func (l *lowerer) errorf(sp source.Span, code diag.Code, format string, args ...any) {
	l.errors = append(l.errors, ast.Error{Span: sp, Message: fmt.Sprintf(format, args...), Code: code})
}

func (l *lowerer) name(sp source.Span) ast.Name {
	return ast.Name{Span: l.consumeRange(sp), Valid: true}
}

// consumeRange claims sp of the adjusted source as a target name: dashes
// become underscores, and a TTCN-3 keyword gets a trailing underscore
// written over the byte after it.
func (l *lowerer) consumeRange(sp source.Span) source.Span {
	if sp.Start > sp.End || int(sp.End) > len(l.buf) {
		l.errorf(sp, diag.TrInvalidRange, "invalid source range %s", sp)
		return source.Span{}
	}
	return l.normalize(sp)
}

func (l *lowerer) normalize(sp source.Span) source.Span {
	tok := l.buf[sp.Start:sp.End]
	for i, c := range tok {
		if c == '-' {
			tok[i] = '_'
		}
	}
	if !ast.IsKeyword(string(tok)) {
		return sp
	}
	if int(sp.End) < len(l.buf) {
		l.buf[sp.End] = '_'
	} else {
		l.buf = append(l.buf, '_')
	}
	sp.End++
	return sp
}

// appendSource appends s to the adjusted source once and returns its
// range. Normalized text gets the same treatment as consumeRange.
func (l *lowerer) appendSource(s string, normalize bool) source.Span {
	key := s
	if !normalize {
		key = "\x00" + s
	}
	if sp, ok := l.appended[key]; ok {
		return sp
	}
	sp := source.Span{Start: l.offset(), End: l.offset()}
	l.buf = append(l.buf, s...)
	sp.End = l.offset()
	if normalize {
		sp = l.normalize(sp)
	}
	l.appended[key] = sp
	return sp
}

func (l *lowerer) offset() uint32 {
	off, err := safecast.Conv[uint32](len(l.buf))
	if err != nil {
		panic(fmt.Errorf("adjusted source overflow: %w", err))
	}
	return off
}

package transform

import (
	"vanadium/internal/asn1/syntax"
	"vanadium/internal/diag"
	"vanadium/internal/ttcn/ast"
)

// maxParamDepth bounds nested parametrized instantiations.
const maxParamDepth = 64

// paramScope is one active instantiation: the parametrized target and the
// reference that supplies its actual parameters.
type paramScope struct {
	parent   *paramScope
	target   *syntax.Expr
	provider *syntax.Expr
	depth    int
}

// resolveReference finds the assignment ref names, looking at active
// parameters first, then the module and its imports. Unresolved
// references are reported.
func (l *lowerer) resolveReference(ref *syntax.Reference) *syntax.Expr {
	if ref == nil || len(ref.Components) != 1 {
		return nil
	}
	if arg, _ := l.resolveParam(ref, l.params); arg != nil {
		if arg.Kind == syntax.KindReference {
			return l.resolveInModule(l.moduleOf(arg.Reference), arg.Reference.First().Name)
		}
		return arg
	}
	if e := l.resolveInModule(l.moduleOf(ref), ref.First().Name); e != nil {
		return e
	}
	first := ref.First()
	l.errorf(first.Range, diag.TrUnresolvedReference, "unresolved reference to '%s'", first.Name)
	return nil
}

func (l *lowerer) moduleOf(ref *syntax.Reference) *syntax.Module {
	if ref != nil && ref.Module != nil {
		return ref.Module
	}
	return l.mod
}

// resolveInModule looks name up among the members of mod, then follows
// the import that names it into the providing module.
func (l *lowerer) resolveInModule(mod *syntax.Module, name string) *syntax.Expr {
	seen := make(map[*syntax.Module]bool)
	for mod != nil && !seen[mod] {
		seen[mod] = true
		if e := mod.Member(name); e != nil {
			return e
		}
		imp := mod.ImportOf(name)
		if imp == nil || l.provider == nil {
			return nil
		}
		mod = l.provider(imp.From)
	}
	return nil
}

// resolveParam maps ref to an actual parameter of the innermost scope
// that declares it. The returned scope is where the argument was written
// and must be active when the argument is lowered.
func (l *lowerer) resolveParam(ref *syntax.Reference, scope *paramScope) (*syntax.Expr, *paramScope) {
	name := ref.First().Name
	for ; scope != nil; scope = scope.parent {
		for i, slot := range scope.target.LHSParams {
			if slot.Argument != name {
				continue
			}
			arg := scope.provider.RHSArgs[i]
			if arg.Kind == syntax.KindValueSet {
				arg = containedType(arg)
			}
			at := scope.parent
			if arg != nil && arg.Kind == syntax.KindReference && len(arg.RHSArgs) == 0 {
				// A { T } ::= SEQUENCE { t T }
				// B { T } ::= A { T }
				// C ::= B { INTEGER }
				// inside A, T is INTEGER through B
				if terminal, from := l.resolveParam(arg.Reference, scope.parent); terminal != nil {
					arg, at = terminal, from
				}
			}
			return arg, at
		}
	}
	return nil, nil
}

// containedType returns T for a value set argument written as {T}.
func containedType(arg *syntax.Expr) *syntax.Expr {
	c := arg.Constraints
	for c != nil && (c.Kind == syntax.CaUnion || c.Kind == syntax.CaSet) && len(c.Elements) == 1 {
		c = c.Elements[0]
	}
	if c == nil || c.Kind != syntax.ElType {
		return nil
	}
	return c.Type
}

// parametrize checks the actual parameters of provider against target
// and runs fn with the instantiation active.
func (l *lowerer) parametrize(target, provider *syntax.Expr, fn func() ast.NodeID) ast.NodeID {
	for i, slot := range target.LHSParams {
		if i >= len(provider.RHSArgs) {
			break
		}
		arg := provider.RHSArgs[i]
		if arg.Kind != syntax.KindValueSet {
			continue
		}
		if t := containedType(arg); t != nil {
			l.checkGovernor(slot, t)
		}
	}
	if len(provider.RHSArgs) != len(target.LHSParams) {
		l.errorf(provider.TypeRange, diag.TrParamCount, "expected %d parameters, got %d",
			len(target.LHSParams), len(provider.RHSArgs))
		return ast.NodeID{}
	}

	for scope := l.params; scope != nil; scope = scope.parent {
		if scope.target == target {
			l.errorf(provider.TypeRange, diag.TrUnsupportedConstruct, "recursive instantiation of '%s'", target.Identifier)
			return ast.NodeID{}
		}
	}

	depth := 1
	if l.params != nil {
		depth = l.params.depth + 1
	}
	if depth > maxParamDepth {
		l.errorf(provider.TypeRange, diag.TrUnsupportedConstruct, "instantiation of '%s' nests too deeply", target.Identifier)
		return ast.NodeID{}
	}
	saved := l.params
	l.params = &paramScope{parent: saved, target: target, provider: provider, depth: depth}
	defer func() { l.params = saved }()
	return fn()
}

// checkGovernor reports a value set argument whose class differs from the
// governor of its slot.
func (l *lowerer) checkGovernor(slot syntax.Param, arg *syntax.Expr) {
	if arg.Reference == nil || slot.Governor == nil {
		return
	}
	set := l.resolveReference(arg.Reference)
	if set == nil || set.Kind != syntax.KindReference || set.Reference == nil {
		return
	}
	if !slot.Governor.Equal(set.Reference) {
		l.errorf(arg.Reference.First().Range, diag.TrParamGovernor, "expected parameter of type '%s', got '%s'",
			slot.Governor.String(), set.Reference.String())
	}
}

// isClassRef reports whether ref names an information object class.
func (l *lowerer) isClassRef(ref *syntax.Reference) bool {
	if ref == nil || len(ref.Components) == 0 {
		return false
	}
	name := ref.First().Name
	if l.classNames[name] {
		return true
	}
	e := l.resolveInModule(l.moduleOf(ref), name)
	if e != nil && e.Meta == syntax.MetaObjectClass {
		l.classNames[name] = true
		return true
	}
	return false
}

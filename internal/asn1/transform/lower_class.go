package transform

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"vanadium/internal/asn1/class"
	"vanadium/internal/asn1/syntax"
	"vanadium/internal/diag"
	"vanadium/internal/source"
	"vanadium/internal/ttcn/ast"
)

// maxClassAlias bounds "A-CLASS ::= B-CLASS" chains.
const maxClassAlias = 8

// lowerTypeName lowers the reference of e. It yields an Ident for plain
// names, the inlined target of a parametrized instantiation, a formal
// parameter's argument, or the spec of a class field.
func (l *lowerer) lowerTypeName(e *syntax.Expr) ast.NodeID {
	ref := e.Reference
	if ref == nil || len(ref.Components) == 0 {
		return ast.NodeID{}
	}

	switch len(ref.Components) {
	case 1:
		if len(e.RHSArgs) > 0 {
			target := l.resolveReference(ref)
			if target == nil {
				return ast.NodeID{}
			}
			return l.parametrize(target, e, func() ast.NodeID {
				return l.lowerExpr(target)
			})
		}
		if arg, scope := l.resolveParam(ref, l.params); arg != nil {
			return l.lowerArgument(arg, scope)
		}
		return l.ident(l.consumeRange(ref.First().Range))
	case 2:
		return l.lowerClassField(e)
	}
	l.errorf(ref.Range, diag.TrUnsupportedConstruct, "unsupported reference '%s'", ref)
	return ast.NodeID{}
}

// lowerArgument lowers an actual parameter in the scope it was written in.
func (l *lowerer) lowerArgument(arg *syntax.Expr, scope *paramScope) ast.NodeID {
	saved := l.params
	l.params = scope
	defer func() { l.params = saved }()
	return l.lowerExpr(arg)
}

// lowerClassField lowers "CLASS.&field". A fixed type value field lowers
// to its type; an open type field constrained by a component relation
// lowers to a union with one alternative per object of the set.
func (l *lowerer) lowerClassField(e *syntax.Expr) ast.NodeID {
	ref := e.Reference
	clsComp, selComp := ref.Components[0], ref.Components[1]
	if selComp.Lex != syntax.LexAmpUppercase && selComp.Lex != syntax.LexAmpLowercase {
		l.errorf(selComp.Range, diag.TrUnknownClassField, "expression does not look like a CLASS field reference")
		return ast.NodeID{}
	}

	cls := l.resolveClass(ref)
	if cls == nil {
		return ast.NodeID{}
	}
	field := cls.Member(selComp.Name)
	if field == nil {
		l.errorf(clsComp.Range, diag.TrUnknownClassField, "unresolved reference to field '%s' of CLASS '%s'",
			selComp.Name, clsComp.Name)
		return ast.NodeID{}
	}
	if field.Meta != syntax.MetaObjectField {
		l.errorf(selComp.Range, diag.TrUnknownClassField, "'%s' is not a field", selComp.Name)
		return ast.NodeID{}
	}

	switch field.Kind {
	case syntax.KindClassFieldFTVFS:
		if len(field.Members) == 0 {
			return ast.NodeID{}
		}
		if l.activeFields[field] {
			l.errorf(selComp.Range, diag.TrUnsupportedConstruct, "recursive class field '%s' of CLASS '%s'",
				selComp.Name, clsComp.Name)
			return ast.NodeID{}
		}
		l.activeFields[field] = true
		defer delete(l.activeFields, field)
		return l.lowerExpr(field.Members[0])
	case syntax.KindClassFieldTFS:
		return l.lowerOpenType(e, cls, selComp)
	}
	l.errorf(selComp.Range, diag.TrUnsupportedConstruct, "unexpected field expression type: %s", field.Kind)
	return ast.NodeID{}
}

// resolveClass resolves the class component of ref, following class
// aliases.
func (l *lowerer) resolveClass(ref *syntax.Reference) *syntax.Expr {
	comp := ref.Components[0]
	cls := l.resolveInModule(l.moduleOf(ref), comp.Name)
	for i := 0; cls != nil && cls.Kind == syntax.KindReference && cls.Meta == syntax.MetaObjectClass && i < maxClassAlias; i++ {
		cls = l.resolveInModule(l.moduleOf(cls.Reference), cls.Reference.First().Name)
	}
	switch {
	case cls == nil:
		l.errorf(comp.Range, diag.TrUnresolvedReference, "unresolved reference to '%s'", comp.Name)
		return nil
	case cls.Kind != syntax.KindClassDef:
		l.errorf(comp.Range, diag.TrNotAClass, "'%s' is not a CLASS", comp.Name)
		return nil
	}
	return cls
}

func (l *lowerer) lowerOpenType(e, cls *syntax.Expr, selComp syntax.RefComponent) ast.NodeID {
	crc := e.FindConstraint(syntax.CaCRC)
	if crc == nil || len(crc.Elements) == 0 {
		l.errorf(selComp.Range, diag.TrConstraintRequired, "component relation constraint required")
		return ast.NodeID{}
	}
	objects := crc.Elements[0]
	if objects.Value == nil || objects.Value.Kind != syntax.ValueReferenced {
		l.errorf(selComp.Range, diag.TrConstraintRequired, "reference required")
		return ast.NodeID{}
	}
	setRef := objects.Value.Reference
	if len(setRef.Components) != 1 {
		l.errorf(setRef.Range, diag.TrUnsupportedConstruct, "unsupported set reference '%s'", setRef)
		return ast.NodeID{}
	}
	set := l.resolveReference(setRef)
	if set == nil {
		return ast.NodeID{}
	}
	if set.Reference == nil || len(set.Reference.Components) != 1 || set.Reference.First().Name != cls.Identifier {
		l.errorf(e.Reference.Components[0].Range, diag.TrSetTypeMismatch,
			"referenced set is not of type '%s', but of type '%s'", cls.Identifier, set.Reference.First().Name)
		return ast.NodeID{}
	}

	emit := func(sp source.Span, code diag.Code, msg string) {
		l.errors = append(l.errors, ast.Error{Span: sp, Message: msg, Code: code})
	}
	return l.newNode(ast.KindStructSpec, func(_ ast.NodeID, n *ast.Node) {
		n.Span = e.Range
		n.Tok = ast.TokUnion
		acceptRow := func(row class.Row) bool {
			if row.Name != selComp.Name {
				return true
			}
			n.Children = append(n.Children, l.objectAlternative(row))
			return false
		}
		class.ResolveSet(set, cls, class.SetConsumer{
			Resolve: l.resolveReference,
			AcceptClass: func(inspect class.Inspector) bool {
				inspect(class.ObjectConsumer{AcceptRow: acceptRow, EmitError: emit})
				return true
			},
			EmitError: emit,
		})
	})
}

// objectAlternative is the union field for one object: it is named by the
// value text and typed by the same text with a lowercase first letter.
func (l *lowerer) objectAlternative(row class.Row) ast.NodeID {
	return l.newNode(ast.KindField, func(_ ast.NodeID, f *ast.Node) {
		f.Span = row.Span
		f.Name = ast.Name{Span: l.appendSource(row.Value, true), Valid: true}
		f.Type = l.refSpec(func() ast.NodeID {
			return l.ident(l.appendSource(lowerFirst(row.Value), true))
		})
	})
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(unicode.ToLower(r))
	b.WriteString(s[size:])
	return b.String()
}

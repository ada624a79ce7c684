package class

import (
	"fmt"

	"vanadium/internal/asn1/syntax"
	"vanadium/internal/diag"
	"vanadium/internal/source"
)

// Inspector runs ParseObject for one object against a consumer chosen by
// the caller.
type Inspector func(ObjectConsumer)

// SetConsumer drives ResolveSet. Resolve returns nil for unknown
// references; those are skipped. AcceptClass returning false stops the
// walk.
type SetConsumer struct {
	Resolve     func(*syntax.Reference) *syntax.Expr
	AcceptClass func(Inspector) bool
	EmitError   func(sp source.Span, code diag.Code, msg string)
}

// ResolveSet visits every object of set, an object set of class cls, in
// source order.
func ResolveSet(set, cls *syntax.Expr, c SetConsumer) {
	r := setResolver{cls: cls, c: c, seen: make(map[*syntax.Expr]bool)}
	r.resolveSet(set)
}

type setResolver struct {
	cls  *syntax.Expr
	c    SetConsumer
	seen map[*syntax.Expr]bool // sets and objects on the current path
}

func (r *setResolver) emit(sp source.Span, code diag.Code, msg string) {
	if r.c.EmitError != nil {
		r.c.EmitError(sp, code, msg)
	}
}

func (r *setResolver) resolveSet(set *syntax.Expr) bool {
	if r.seen[set] {
		return true
	}
	r.seen[set] = true
	defer delete(r.seen, set)

	top := set.Constraints
	if top == nil || (top.Kind != syntax.CaUnion && top.Kind != syntax.CaSet) {
		r.emit(set.IdentRange, diag.TrSetNotUnion, fmt.Sprintf("referenced set '%s' is not union-constrained", set.Identifier))
		return true
	}
	return r.visit(top)
}

func (r *setResolver) visit(c *syntax.Constraint) bool {
	switch c.Kind {
	case syntax.CaUnion, syntax.CaSet:
		for _, el := range c.Elements {
			if !r.visit(el) {
				return false
			}
		}
	case syntax.ElExt:
	case syntax.ElValue:
		return r.visitValue(c.Value, c.Range)
	case syntax.ElType:
		if c.Type == nil || c.Type.Reference == nil {
			r.emit(c.Range, diag.TrConstraintKind, fmt.Sprintf("unexpected constraint type: '%s'", c.Kind))
			return true
		}
		if ref := r.c.Resolve(c.Type.Reference); ref != nil {
			return r.resolveSet(ref)
		}
	default:
		r.emit(c.Range, diag.TrConstraintKind, fmt.Sprintf("unexpected constraint type: '%s'", c.Kind))
	}
	return true
}

func (r *setResolver) visitValue(v *syntax.Value, sp source.Span) bool {
	if v == nil {
		return true
	}
	switch v.Kind {
	case syntax.ValueUnparsed:
		return r.c.AcceptClass(func(oc ObjectConsumer) {
			ParseObject(v.Text, v.Range.Start, r.cls.WithSyntax, oc)
		})
	case syntax.ValueReferenced:
		obj := r.c.Resolve(v.Reference)
		if obj == nil || r.seen[obj] {
			return true
		}
		r.seen[obj] = true
		defer delete(r.seen, obj)
		return r.visitValue(obj.Value, obj.Range)
	default:
		r.emit(sp, diag.TrConstraintValue, fmt.Sprintf("unexpected constraint value type: '%s'", v.Kind))
	}
	return true
}

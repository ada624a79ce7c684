package parser

import (
	"strconv"

	"vanadium/internal/asn1/syntax"
	"vanadium/internal/asn1/token"
	"vanadium/internal/diag"
)

// parseValue parses a simple value, a value reference, or keeps a braced
// value as unparsed text.
func (p *Parser) parseValue(mod *syntax.Module) *syntax.Value {
	t := p.tok()
	v := p.al.Value()
	switch t.Kind {
	case token.LBrace:
		v.Kind = syntax.ValueUnparsed
		v.Range = p.skipBalanced()
		v.Text = p.text(v.Range)
		return v

	case token.Minus:
		p.next()
		n := p.tok()
		if !n.Is(token.Number, token.RealNumber) {
			p.unexpected("number")
		}
		p.next()
		v.Range = p.spanFrom(t.Span.Start)
		v.Text = p.text(v.Range)
		p.numericValue(v, n, true)
		return v

	case token.Number, token.RealNumber:
		p.next()
		v.Range = t.Span
		v.Text = t.Text
		p.numericValue(v, t, false)
		return v

	case token.CString:
		v.Kind = syntax.ValueString
	case token.BString:
		v.Kind = syntax.ValueBitVector
	case token.HString:
		v.Kind = syntax.ValueHexString
	case token.KwTrue:
		v.Kind = syntax.ValueTrue
	case token.KwFalse:
		v.Kind = syntax.ValueFalse
	case token.KwNull:
		v.Kind = syntax.ValueNull
	case token.KwMin:
		v.Kind = syntax.ValueMin
	case token.KwMax:
		v.Kind = syntax.ValueMax
	case token.KwPlusInfinity, token.KwMinusInfinity:
		v.Kind = syntax.ValueReal

	case token.Ident, token.TypeRef:
		if t.Kind == token.TypeRef && !(p.peek(1).Kind == token.Dot && p.peek(2).Kind == token.Ident) {
			p.unexpected("value")
		}
		v.Kind = syntax.ValueReferenced
		v.Reference = p.parseReference(mod)
		v.Range = v.Reference.Range
		v.Text = p.text(v.Range)
		return v

	default:
		p.unexpected("value")
	}
	p.next()
	v.Range = t.Span
	v.Text = t.Text
	return v
}

func (p *Parser) numericValue(v *syntax.Value, t token.Token, negative bool) {
	if t.Kind == token.RealNumber {
		f, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			p.fail(diag.LexBadNumber, t.Span, "malformed real number")
		}
		if negative {
			f = -f
		}
		v.Kind = syntax.ValueReal
		v.Real = f
		return
	}
	n, err := strconv.ParseInt(t.Text, 10, 64)
	if err != nil {
		p.fail(diag.LexBadNumber, t.Span, "integer value out of range")
	}
	if negative {
		n = -n
	}
	v.Kind = syntax.ValueInteger
	v.Int = n
}

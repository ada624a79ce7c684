package parser

import (
	"vanadium/internal/asn1/syntax"
	"vanadium/internal/asn1/token"
	"vanadium/internal/diag"
	"vanadium/internal/source"
)

func (p *Parser) newConstraint(kind syntax.ConstraintKind, sp source.Span) *syntax.Constraint {
	c := p.al.Constraint()
	c.Kind = kind
	c.Range = sp
	return c
}

// parseConstraint parses one parenthesized constraint. A table constraint
// "({Set})" or "({Set}{@a, @.b})" yields a CaCRC whose first element
// references the set.
func (p *Parser) parseConstraint(mod *syntax.Module) *syntax.Constraint {
	open := p.expect(token.LParen, "'('")
	var c *syntax.Constraint
	if p.at(token.LBrace) && p.isTableConstraint() {
		c = p.parseTableConstraint(mod)
	} else {
		c = p.parseElementSetSpecs(mod, token.RParen)
	}
	p.expect(token.RParen, "')'")
	c.Range = p.spanFrom(open.Span.Start)
	return c
}

// isTableConstraint looks for "{ Ref }" followed by ")" or "{@".
func (p *Parser) isTableConstraint() bool {
	i := 1
	for p.peek(i).Is(token.TypeRef, token.Ident, token.Dot) {
		i++
	}
	if i == 1 || p.peek(i).Kind != token.RBrace {
		return false
	}
	after := p.peek(i + 1)
	return after.Kind == token.RParen || (after.Kind == token.LBrace && p.peek(i+2).Kind == token.At)
}

func (p *Parser) parseTableConstraint(mod *syntax.Module) *syntax.Constraint {
	start := p.expect(token.LBrace, "'{'").Span.Start
	ref := p.parseReference(mod)
	p.expect(token.RBrace, "'}'")

	crc := p.newConstraint(syntax.CaCRC, source.Span{})
	set := p.newConstraint(syntax.ElValue, ref.Range)
	set.Value = p.al.Value()
	set.Value.Kind = syntax.ValueReferenced
	set.Value.Reference = ref
	set.Value.Range = ref.Range
	set.Value.Text = p.text(ref.Range)
	crc.Elements = append(crc.Elements, set)

	if _, ok := p.accept(token.LBrace); ok {
		for {
			crc.Elements = append(crc.Elements, p.parseAtNotation())
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		p.expect(token.RBrace, "'}'")
	}
	crc.Range = p.spanFrom(start)
	return crc
}

// parseAtNotation parses "@comp.sub" and "@.comp".
func (p *Parser) parseAtNotation() *syntax.Constraint {
	at := p.expect(token.At, "'@'")
	for p.at(token.Dot) {
		p.next()
	}
	p.expect(token.Ident, "component name")
	for p.at(token.Dot) && p.peek(1).Kind == token.Ident {
		p.next()
		p.next()
	}
	sp := p.spanFrom(at.Span.Start)
	c := p.newConstraint(syntax.AtNotation, sp)
	c.Value = p.al.Value()
	c.Value.Kind = syntax.ValueString
	c.Value.Range = sp
	c.Value.Text = p.text(sp)
	return c
}

// parseElementSetSpecs parses "root [, ... [, additions]]". Without a comma
// the root is returned as is.
func (p *Parser) parseElementSetSpecs(mod *syntax.Module, closing token.Kind) *syntax.Constraint {
	start := p.tok().Span.Start
	first := p.parseSetPart(mod, closing)
	if !p.at(token.Comma) {
		return first
	}
	set := p.newConstraint(syntax.CaSet, source.Span{})
	set.Elements = append(set.Elements, first)
	for {
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
		set.Elements = append(set.Elements, p.parseSetPart(mod, closing))
	}
	set.Range = p.spanFrom(start)
	return set
}

func (p *Parser) parseSetPart(mod *syntax.Module, closing token.Kind) *syntax.Constraint {
	if p.at(token.Ellipsis) {
		t := p.next()
		if _, ok := p.accept(token.Bang); ok {
			p.parseExceptionSpec(mod)
		}
		return p.newConstraint(syntax.ElExt, p.spanFrom(t.Span.Start))
	}
	if p.at(closing) {
		p.unexpected("constraint")
	}
	return p.parseUnions(mod)
}

func (p *Parser) parseUnions(mod *syntax.Module) *syntax.Constraint {
	start := p.tok().Span.Start
	first := p.parseIntersections(mod)
	if !p.at(token.Pipe) && !p.at(token.KwUnion) {
		return first
	}
	u := p.newConstraint(syntax.CaUnion, source.Span{})
	u.Elements = append(u.Elements, first)
	for p.at(token.Pipe) || p.at(token.KwUnion) {
		p.next()
		u.Elements = append(u.Elements, p.parseIntersections(mod))
	}
	u.Range = p.spanFrom(start)
	return u
}

func (p *Parser) parseIntersections(mod *syntax.Module) *syntax.Constraint {
	start := p.tok().Span.Start
	first := p.parseExcept(mod)
	if !p.at(token.Caret) && !p.at(token.KwIntersection) {
		return first
	}
	in := p.newConstraint(syntax.CaIntersection, source.Span{})
	in.Elements = append(in.Elements, first)
	for p.at(token.Caret) || p.at(token.KwIntersection) {
		p.next()
		in.Elements = append(in.Elements, p.parseExcept(mod))
	}
	in.Range = p.spanFrom(start)
	return in
}

func (p *Parser) parseExcept(mod *syntax.Module) *syntax.Constraint {
	start := p.tok().Span.Start
	el := p.parseElement(mod)
	if _, ok := p.accept(token.KwExcept); !ok {
		return el
	}
	ex := p.newConstraint(syntax.CaExcept, source.Span{})
	ex.Elements = []*syntax.Constraint{el, p.parseElement(mod)}
	ex.Range = p.spanFrom(start)
	return ex
}

// parseElement parses one subtype element.
func (p *Parser) parseElement(mod *syntax.Module) *syntax.Constraint {
	t := p.tok()
	start := t.Span.Start
	switch t.Kind {
	case token.LParen:
		return p.parseConstraint(mod)

	case token.KwSize:
		return p.parseSizeConstraint(mod)

	case token.KwFrom:
		p.next()
		c := p.newConstraint(syntax.CtFrom, source.Span{})
		c.Elements = []*syntax.Constraint{p.parseConstraint(mod)}
		c.Range = p.spanFrom(start)
		return c

	case token.KwWith:
		p.next()
		if !p.at(token.KwComponent) && !p.at(token.KwComponents) {
			p.unexpected("COMPONENT or COMPONENTS")
		}
		if _, single := p.accept(token.KwComponent); single {
			p.parseConstraint(mod)
		} else {
			p.next()
			p.skipBalanced()
		}
		return p.newConstraint(syntax.CtWithComponents, p.spanFrom(start))

	case token.KwContaining:
		p.next()
		c := p.newConstraint(syntax.CtContaining, source.Span{})
		c.Type = p.parseType(mod)
		if _, ok := p.accept(token.KwEncoded); ok {
			p.expect(token.KwBy, "BY")
			p.parseValue(mod)
		}
		c.Range = p.spanFrom(start)
		return c

	case token.KwPattern:
		p.next()
		s := p.expect(token.CString, "pattern string")
		c := p.newConstraint(syntax.CtPattern, p.spanFrom(start))
		c.Value = &syntax.Value{Kind: syntax.ValueString, Range: s.Span, Text: s.Text}
		return c

	case token.KwIncludes:
		p.next()
		c := p.newConstraint(syntax.ElType, source.Span{})
		c.Type = p.parseType(mod)
		c.Range = p.spanFrom(start)
		return c

	case token.TypeRef:
		if p.peek(1).Kind == token.Dot && p.peek(2).Kind == token.Ident {
			break // Module.value
		}
		c := p.newConstraint(syntax.ElType, source.Span{})
		c.Type = p.parseType(mod)
		c.Range = p.spanFrom(start)
		return c
	}

	if _, isType := simpleTypes[t.Kind]; isType || t.Is(token.KwInteger, token.KwOctet, token.KwBit,
		token.KwSequence, token.KwSet, token.KwChoice, token.KwEnumerated, token.KwObject, token.KwCharacter) {
		c := p.newConstraint(syntax.ElType, source.Span{})
		c.Type = p.parseType(mod)
		c.Range = p.spanFrom(start)
		return c
	}
	return p.parseValueOrRange(mod)
}

func (p *Parser) parseSizeConstraint(mod *syntax.Module) *syntax.Constraint {
	kw := p.expect(token.KwSize, "SIZE")
	c := p.newConstraint(syntax.CtSize, source.Span{})
	c.Elements = []*syntax.Constraint{p.parseConstraint(mod)}
	c.Range = p.spanFrom(kw.Span.Start)
	return c
}

// parseValueOrRange parses "v", "a..b", "MIN<..<MAX" and friends.
func (p *Parser) parseValueOrRange(mod *syntax.Module) *syntax.Constraint {
	start := p.tok().Span.Start
	lower := p.parseValue(mod)
	_, exclLower := p.accept(token.Lt)
	if !p.at(token.DotDot) {
		if exclLower {
			p.unexpected("'..'")
		}
		c := p.newConstraint(syntax.ElValue, lower.Range)
		c.Value = lower
		return c
	}
	p.next()
	_, exclUpper := p.accept(token.Lt)
	upper := p.parseValue(mod)
	if lower.Kind == syntax.ValueUnparsed || upper.Kind == syntax.ValueUnparsed {
		p.fail(diag.SynBadConstraint, p.spanFrom(start), "range bounds must be simple values")
	}
	c := p.newConstraint(syntax.ElRange, p.spanFrom(start))
	c.Lower, c.Upper = lower, upper
	c.ExcludeLower, c.ExcludeUpper = exclLower, exclUpper
	return c
}

// parseObjectSet parses the braces of an object set or value set. A set
// without a comma is a CaUnion even with a single element; with commas it
// is a CaSet of CaUnion parts and ElExt markers.
func (p *Parser) parseObjectSet(mod *syntax.Module) *syntax.Constraint {
	open := p.expect(token.LBrace, "'{'")
	var parts []*syntax.Constraint
	for {
		if p.at(token.Ellipsis) {
			t := p.next()
			parts = append(parts, p.newConstraint(syntax.ElExt, t.Span))
		} else if !p.at(token.RBrace) {
			parts = append(parts, p.parseObjectUnion(mod))
		}
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RBrace, "'}'")
	sp := p.spanFrom(open.Span.Start)

	if len(parts) == 1 && parts[0].Kind == syntax.CaUnion {
		parts[0].Range = sp
		return parts[0]
	}
	if len(parts) <= 1 {
		u := p.newConstraint(syntax.CaUnion, sp)
		u.Elements = parts
		return u
	}
	set := p.newConstraint(syntax.CaSet, sp)
	set.Elements = parts
	return set
}

func (p *Parser) parseObjectUnion(mod *syntax.Module) *syntax.Constraint {
	start := p.tok().Span.Start
	u := p.newConstraint(syntax.CaUnion, source.Span{})
	for {
		u.Elements = append(u.Elements, p.parseObjectSetElement(mod))
		if !p.at(token.Pipe) && !p.at(token.KwUnion) {
			break
		}
		p.next()
	}
	u.Range = p.spanFrom(start)
	return u
}

// parseObjectSetElement parses an inline object "{...}", an object
// reference, an object set reference or a plain value.
func (p *Parser) parseObjectSetElement(mod *syntax.Module) *syntax.Constraint {
	t := p.tok()
	switch t.Kind {
	case token.LBrace:
		v := p.parseValue(mod)
		c := p.newConstraint(syntax.ElValue, v.Range)
		c.Value = v
		return c
	case token.Ident:
		v := p.parseValue(mod)
		c := p.newConstraint(syntax.ElValue, v.Range)
		c.Value = v
		return c
	case token.TypeRef:
		if p.peek(1).Kind == token.Dot && p.peek(2).Kind == token.Ident {
			v := p.parseValue(mod)
			c := p.newConstraint(syntax.ElValue, v.Range)
			c.Value = v
			return c
		}
		c := p.newConstraint(syntax.ElType, source.Span{})
		c.Type = p.parseTypeReference(mod)
		c.Type.Module = mod
		c.Type.Range = p.spanFrom(t.Span.Start)
		c.Range = c.Type.Range
		return c
	case token.LParen:
		return p.parseConstraint(mod)
	}
	return p.parseValueOrRange(mod)
}

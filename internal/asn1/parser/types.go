package parser

import (
	"strconv"

	"vanadium/internal/asn1/syntax"
	"vanadium/internal/asn1/token"
	"vanadium/internal/diag"
)

// parseType parses a tagged or untagged type with trailing constraints.
func (p *Parser) parseType(mod *syntax.Module) *syntax.Expr {
	start := p.tok().Span.Start
	tag := p.parseTagOpt()

	e := p.parseUntaggedType(mod)
	e.Tag = tag
	e.Module = mod
	for p.at(token.LParen) {
		p.appendConstraint(e, p.parseConstraint(mod))
	}
	e.Range = p.spanFrom(start)
	return e
}

func (p *Parser) appendConstraint(e *syntax.Expr, c *syntax.Constraint) {
	if e.Constraints == nil {
		e.Constraints = p.al.Constraint()
		e.Constraints.Kind = syntax.CaSet
		e.Constraints.Range = c.Range
	}
	e.Constraints.Elements = append(e.Constraints.Elements, c)
	e.Constraints.Range = e.Constraints.Range.Cover(c.Range)
}

func (p *Parser) newType(kind syntax.ExprKind, start uint32) *syntax.Expr {
	e := p.al.Expr()
	e.Meta = syntax.MetaType
	e.Kind = kind
	e.TypeRange = p.spanFrom(start)
	return e
}

func (p *Parser) parseUntaggedType(mod *syntax.Module) *syntax.Expr {
	t := p.tok()
	start := t.Span.Start
	switch t.Kind {
	case token.KwSequence, token.KwSet:
		return p.parseSequenceOrSet(mod)
	case token.KwChoice:
		p.next()
		e := p.newType(syntax.KindChoice, start)
		e.Members = p.parseComponents(mod)
		return e
	case token.KwEnumerated:
		p.next()
		e := p.newType(syntax.KindEnumerated, start)
		e.Members = p.parseNamedItems(mod, true)
		return e
	case token.KwInteger:
		p.next()
		e := p.newType(syntax.KindInteger, start)
		if p.at(token.LBrace) {
			e.Members = p.parseNamedItems(mod, false)
		}
		return e
	case token.KwBit:
		p.next()
		p.expect(token.KwString, "STRING")
		e := p.newType(syntax.KindBitString, start)
		if p.at(token.LBrace) {
			e.Members = p.parseNamedItems(mod, false)
		}
		return e
	case token.KwOctet:
		p.next()
		p.expect(token.KwString, "STRING")
		return p.newType(syntax.KindOctetString, start)
	case token.KwCharacter:
		p.next()
		p.expect(token.KwString, "STRING")
		return p.newType(syntax.KindCharacterString, start)
	case token.KwObject:
		p.next()
		p.expect(token.KwIdentifier, "IDENTIFIER")
		return p.newType(syntax.KindObjectIdentifier, start)
	case token.KwEmbedded:
		p.next()
		p.expect(token.KwPdv, "PDV")
		return p.newType(syntax.KindEmbeddedPDV, start)
	case token.KwInstance:
		p.next()
		p.expect(token.KwOf, "OF")
		e := p.newType(syntax.KindInstanceOf, start)
		e.Reference = p.parseReference(mod)
		return e
	case token.KwClass:
		return p.parseClass(mod)
	case token.KwTypeIdentifier:
		p.next()
		return p.typeIdentifier(mod, start)
	case token.TypeRef:
		return p.parseTypeReference(mod)
	}

	if kind, ok := simpleTypes[t.Kind]; ok {
		p.next()
		return p.newType(kind, start)
	}
	p.unexpected("type")
	return nil
}

var simpleTypes = map[token.Kind]syntax.ExprKind{
	token.KwNull:             syntax.KindNull,
	token.KwBoolean:          syntax.KindBoolean,
	token.KwReal:             syntax.KindReal,
	token.KwRelativeOID:      syntax.KindRelativeOID,
	token.KwExternal:         syntax.KindExternal,
	token.KwObjectDescriptor: syntax.KindObjectDescriptor,
	token.KwStringType:       syntax.KindRestrictedString,
}

// parseSequenceOrSet handles SEQUENCE {...}, SEQUENCE OF T,
// SEQUENCE SIZE(..) OF T and SEQUENCE (SIZE(..)) OF T, and the SET forms.
func (p *Parser) parseSequenceOrSet(mod *syntax.Module) *syntax.Expr {
	kw := p.next()
	start := kw.Span.Start
	isSet := kw.Kind == token.KwSet

	if p.at(token.LBrace) {
		kind := syntax.KindSequence
		if isSet {
			kind = syntax.KindSet
		}
		e := p.newType(kind, start)
		e.Members = p.parseComponents(mod)
		return e
	}

	kind := syntax.KindSequenceOf
	if isSet {
		kind = syntax.KindSetOf
	}
	var size *syntax.Constraint
	switch {
	case p.at(token.KwSize):
		size = p.parseSizeConstraint(mod)
	case p.at(token.LParen):
		size = p.parseConstraint(mod)
	}
	p.expect(token.KwOf, "OF")
	e := p.newType(kind, start)
	if size != nil {
		p.appendConstraint(e, size)
	}

	// SEQUENCE OF item Type names the element
	var elemName token.Token
	if p.at(token.Ident) && p.peek(1).Kind != token.Dot {
		elemName = p.next()
	}
	elem := p.parseType(mod)
	if elemName.Kind == token.Ident {
		elem.Identifier = elemName.Text
		elem.IdentRange = elemName.Span
	}
	e.Members = []*syntax.Expr{elem}
	return e
}

// parseTypeReference parses T, M.T, CLASS.&field, CLASS.&Field.&f and the
// instantiation T{args}.
func (p *Parser) parseTypeReference(mod *syntax.Module) *syntax.Expr {
	start := p.tok().Span.Start
	ref := p.parseReference(mod)
	e := p.newType(syntax.KindReference, start)
	e.Meta = syntax.MetaTypeRef
	e.Reference = ref
	if p.at(token.LBrace) {
		e.RHSArgs = p.parseActualParams(mod)
	}
	e.TypeRange = p.spanFrom(start)
	return e
}

// parseReference parses a dotted reference whose first component is the
// current token.
func (p *Parser) parseReference(mod *syntax.Module) *syntax.Reference {
	ref := p.al.Reference()
	ref.Module = mod
	first := p.tok()
	if !first.Is(token.TypeRef, token.Ident, token.FieldRef) {
		p.unexpected("reference")
	}
	for {
		t := p.next()
		ref.Components = append(ref.Components, syntax.RefComponent{
			Name: t.Text, Range: t.Span, Lex: syntax.LexOf(t.Text),
		})
		if !p.at(token.Dot) || !p.peek(1).Is(token.TypeRef, token.Ident, token.FieldRef) {
			break
		}
		p.next()
	}
	ref.Range = p.spanFrom(first.Span.Start)
	return ref
}

// parseActualParams parses "{ A, {Set}, value, INTEGER }".
func (p *Parser) parseActualParams(mod *syntax.Module) []*syntax.Expr {
	p.expect(token.LBrace, "'{'")
	var args []*syntax.Expr
	for {
		args = append(args, p.parseActualParam(mod))
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RBrace, "'}'")
	return args
}

func (p *Parser) parseActualParam(mod *syntax.Module) *syntax.Expr {
	t := p.tok()
	switch {
	case t.Kind == token.LBrace:
		e := p.al.Expr()
		e.Meta = syntax.MetaValueSet
		e.Kind = syntax.KindValueSet
		e.Module = mod
		e.Constraints = p.parseObjectSet(mod)
		e.Range = e.Constraints.Range
		return e
	case t.Kind == token.Ident, t.Kind == token.Number, t.Kind == token.Minus,
		t.Kind == token.CString, t.Kind == token.BString, t.Kind == token.HString,
		t.Kind == token.KwTrue, t.Kind == token.KwFalse, t.Kind == token.RealNumber:
		e := p.al.Expr()
		e.Meta = syntax.MetaValue
		e.Module = mod
		e.Value = p.parseValue(mod)
		if e.Value.Kind == syntax.ValueReferenced {
			e.Kind = syntax.KindReference
			e.Reference = e.Value.Reference
		}
		e.Range = e.Value.Range
		return e
	}
	return p.parseType(mod)
}

// parseTagOpt parses "[APPLICATION 3] IMPLICIT".
func (p *Parser) parseTagOpt() *syntax.Tag {
	if !p.at(token.LBracket) {
		return nil
	}
	open := p.next()
	tag := &syntax.Tag{}
	switch p.tok().Kind {
	case token.KwUniversal:
		p.next()
		tag.Class = syntax.TagUniversal
	case token.KwApplication:
		p.next()
		tag.Class = syntax.TagApplication
	case token.KwPrivate:
		p.next()
		tag.Class = syntax.TagPrivate
	}
	switch t := p.tok(); t.Kind {
	case token.Number:
		p.next()
		n, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			p.fail(diag.SynUnexpectedToken, t.Span, "tag number out of range")
		}
		tag.Number = n
	case token.Ident:
		p.next()
	default:
		p.unexpected("tag number")
	}
	p.expect(token.RBracket, "']'")
	switch p.tok().Kind {
	case token.KwImplicit:
		p.next()
		tag.Mode = syntax.TagModeImplicit
	case token.KwExplicit:
		p.next()
		tag.Mode = syntax.TagModeExplicit
	}
	tag.Range = p.spanFrom(open.Span.Start)
	return tag
}

// parseComponents parses the braces of SEQUENCE, SET and CHOICE.
func (p *Parser) parseComponents(mod *syntax.Module) []*syntax.Expr {
	p.expect(token.LBrace, "'{'")
	var members []*syntax.Expr
	if _, ok := p.accept(token.RBrace); ok {
		return members
	}
	for {
		members = append(members, p.parseComponent(mod))
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RBrace, "'}'")
	return members
}

func (p *Parser) parseComponent(mod *syntax.Module) *syntax.Expr {
	t := p.tok()
	switch t.Kind {
	case token.Ellipsis:
		return p.parseExtensionMarker(mod)

	case token.LVersion:
		p.next()
		e := p.al.Expr()
		e.Kind = syntax.KindExtensionGroup
		e.Meta = syntax.MetaType
		e.Module = mod
		if num, ok := p.accept(token.Number); ok {
			v, err := strconv.Atoi(num.Text)
			if err != nil || v < 1 {
				p.fail(diag.SynUnexpectedToken, num.Span, "invalid extension group version")
			}
			e.Version = v
			p.expect(token.Colon, "':'")
		}
		for {
			e.Members = append(e.Members, p.parseComponent(mod))
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		p.expect(token.RVersion, "']]'")
		e.Range = p.spanFrom(t.Span.Start)
		return e

	case token.KwComponents:
		p.next()
		p.expect(token.KwOf, "OF")
		e := p.al.Expr()
		e.Kind = syntax.KindComponentsOf
		e.Meta = syntax.MetaType
		e.Module = mod
		e.Members = []*syntax.Expr{p.parseType(mod)}
		e.Range = p.spanFrom(t.Span.Start)
		return e

	case token.Ident:
		p.next()
		e := p.parseType(mod)
		e.Identifier = t.Text
		e.IdentRange = t.Span
		switch p.tok().Kind {
		case token.KwOptional:
			p.next()
			e.Marker.Flags |= syntax.MarkOptional
		case token.KwDefault:
			p.next()
			e.Marker.Flags |= syntax.MarkDefault
			e.Marker.Default = p.parseValue(mod)
		}
		e.Range = p.spanFrom(t.Span.Start)
		return e
	}
	p.unexpected("component")
	return nil
}

// parseExtensionMarker parses "..." with an optional exception spec.
func (p *Parser) parseExtensionMarker(mod *syntax.Module) *syntax.Expr {
	t := p.expect(token.Ellipsis, "'...'")
	if _, ok := p.accept(token.Bang); ok {
		p.parseExceptionSpec(mod)
	}
	e := p.al.Expr()
	e.Kind = syntax.KindExtensible
	e.Meta = syntax.MetaType
	e.Module = mod
	e.Identifier = "..."
	e.Range = p.spanFrom(t.Span.Start)
	return e
}

// parseExceptionSpec skips "!value" or "!Type:value".
func (p *Parser) parseExceptionSpec(mod *syntax.Module) {
	if p.peek(1).Kind == token.Colon {
		p.parseType(mod)
		p.next()
	}
	p.parseValue(mod)
}

// parseNamedItems parses ENUMERATED items, INTEGER named numbers and BIT
// STRING named bits. Only enumerations accept bare names and "...".
func (p *Parser) parseNamedItems(mod *syntax.Module, enum bool) []*syntax.Expr {
	p.expect(token.LBrace, "'{'")
	var items []*syntax.Expr
	for {
		t := p.tok()
		switch {
		case enum && t.Kind == token.Ellipsis:
			items = append(items, p.parseExtensionMarker(mod))
		case t.Kind == token.Ident:
			p.next()
			e := p.al.Expr()
			e.Kind = syntax.KindUniversal
			e.Meta = syntax.MetaValue
			e.Module = mod
			e.Identifier = t.Text
			e.IdentRange = t.Span
			if enum && !p.at(token.LParen) {
				e.Range = t.Span
				items = append(items, e)
				break
			}
			p.expect(token.LParen, "'('")
			e.Value = p.parseValue(mod)
			p.expect(token.RParen, "')'")
			e.Range = p.spanFrom(t.Span.Start)
			items = append(items, e)
		default:
			p.unexpected("identifier")
		}
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RBrace, "'}'")
	return items
}

// typeIdentifier expands TYPE-IDENTIFIER into its X.681 Annex A class.
func (p *Parser) typeIdentifier(mod *syntax.Module, start uint32) *syntax.Expr {
	sp := p.spanFrom(start)
	cls := p.newType(syntax.KindClassDef, start)
	cls.Meta = syntax.MetaObjectClass
	cls.Module = mod

	id := p.al.Expr()
	id.Identifier = "&id"
	id.Meta = syntax.MetaObjectField
	id.Kind = syntax.KindClassFieldFTVFS
	id.Marker.Flags = syntax.MarkUnique
	id.Range = sp
	oid := p.al.Expr()
	oid.Meta = syntax.MetaType
	oid.Kind = syntax.KindObjectIdentifier
	oid.Range, oid.TypeRange = sp, sp
	id.Members = []*syntax.Expr{oid}

	typ := p.al.Expr()
	typ.Identifier = "&Type"
	typ.Meta = syntax.MetaObjectField
	typ.Kind = syntax.KindClassFieldTFS
	typ.Range = sp
	cls.Members = []*syntax.Expr{id, typ}

	ws := p.al.WithSyntax()
	ws.Range = sp
	for _, c := range []struct {
		kind syntax.ChunkKind
		text string
	}{
		{syntax.ChunkField, "&Type"},
		{syntax.ChunkWhitespace, " "},
		{syntax.ChunkLiteral, "IDENTIFIED"},
		{syntax.ChunkWhitespace, " "},
		{syntax.ChunkLiteral, "BY"},
		{syntax.ChunkWhitespace, " "},
		{syntax.ChunkField, "&id"},
	} {
		ch := p.al.Chunk()
		ch.Kind, ch.Token, ch.Range = c.kind, c.text, sp
		ws.Chunks = append(ws.Chunks, ch)
	}
	cls.WithSyntax = ws
	return cls
}

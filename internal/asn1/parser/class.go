package parser

import (
	"vanadium/internal/asn1/syntax"
	"vanadium/internal/asn1/token"
	"vanadium/internal/diag"
	"vanadium/internal/source"
)

// parseClass parses "CLASS { fields } [WITH SYNTAX { template }]".
func (p *Parser) parseClass(mod *syntax.Module) *syntax.Expr {
	kw := p.expect(token.KwClass, "CLASS")
	cls := p.newType(syntax.KindClassDef, kw.Span.Start)
	cls.Meta = syntax.MetaObjectClass
	cls.Module = mod

	p.expect(token.LBrace, "'{'")
	for {
		cls.Members = append(cls.Members, p.parseFieldSpec(mod))
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RBrace, "'}'")

	if p.at(token.KwWith) && p.peek(1).Kind == token.KwSyntax {
		p.next()
		p.next()
		cls.WithSyntax = p.parseWithSyntax()
	}
	return cls
}

// parseFieldSpec classifies a field by the case of its name and what
// follows it:
//
//	&Type [OPTIONAL | DEFAULT Type]         type field
//	&value Type [UNIQUE] [OPTIONAL | DEFAULT v] fixed-type value field
//	&value &Type [OPTIONAL | DEFAULT v]     variable-type value field
//	&Values Type [OPTIONAL | DEFAULT {..}]  fixed-type value set field
func (p *Parser) parseFieldSpec(mod *syntax.Module) *syntax.Expr {
	name := p.expect(token.FieldRef, "field name")
	f := p.al.Expr()
	f.Identifier = name.Text
	f.IdentRange = name.Span
	f.Meta = syntax.MetaObjectField
	f.Module = mod

	upper := name.IsUpper()
	switch {
	case upper && p.fieldSpecEnds():
		f.Kind = syntax.KindClassFieldTFS
	case upper:
		f.Kind = syntax.KindClassFieldFTVSFS
		f.Members = []*syntax.Expr{p.parseType(mod)}
	case p.at(token.FieldRef):
		f.Kind = syntax.KindClassFieldVTVFS
		f.Reference = p.parseReference(mod)
	default:
		f.Kind = syntax.KindClassFieldFTVFS
		f.Members = []*syntax.Expr{p.parseType(mod)}
		if _, ok := p.accept(token.KwUnique); ok {
			f.Marker.Flags |= syntax.MarkUnique
		}
	}

	switch p.tok().Kind {
	case token.KwOptional:
		p.next()
		f.Marker.Flags |= syntax.MarkOptional
	case token.KwDefault:
		p.next()
		f.Marker.Flags |= syntax.MarkDefault
		if f.Kind == syntax.KindClassFieldTFS {
			f.Marker.DefType = p.parseType(mod)
		} else {
			f.Marker.Default = p.parseValue(mod)
		}
	}
	f.Range = p.spanFrom(name.Span.Start)
	return f
}

func (p *Parser) fieldSpecEnds() bool {
	return p.tok().Is(token.Comma, token.RBrace, token.KwOptional, token.KwDefault)
}

// parseWithSyntax chunks the raw text between the braces of WITH SYNTAX.
// Brackets open and close optional groups.
func (p *Parser) parseWithSyntax() *syntax.WithSyntax {
	body := p.skipBalanced()
	inner := source.Span{Start: body.Start + 1, End: body.End - 1}

	root := p.al.WithSyntax()
	root.Range = body
	cur := root
	text := p.src

	emit := func(kind syntax.ChunkKind, start, end uint32) {
		ch := p.al.Chunk()
		ch.Kind = kind
		ch.Range = source.Span{Start: start, End: end}
		ch.Token = text[start:end]
		cur.Chunks = append(cur.Chunks, ch)
	}

	i := inner.Start
	for i < inner.End {
		c := text[i]
		switch {
		case isSpace(c):
			j := i
			for j < inner.End && isSpace(text[j]) {
				j++
			}
			emit(syntax.ChunkWhitespace, i, j)
			i = j

		case c == '[':
			grp := p.al.WithSyntax()
			grp.Parent = cur
			grp.ParentIndex = len(cur.Chunks)
			grp.Range = source.Span{Start: i, End: i}
			emit(syntax.ChunkOptionalGroup, i, i+1)
			cur.Chunks[len(cur.Chunks)-1].Group = grp
			cur = grp
			i++

		case c == ']':
			if cur.Parent == nil {
				p.fail(diag.SynBadWithSyntax, source.Span{Start: i, End: i + 1}, "unbalanced ']' in WITH SYNTAX")
			}
			cur.Range.End = i + 1
			holder := cur.Parent.Chunks[cur.ParentIndex]
			holder.Range.End = i + 1
			holder.Token = text[holder.Range.Start:holder.Range.End]
			cur = cur.Parent
			i++

		case c == '&':
			j := i + 1
			for j < inner.End && isWordByte(text[j]) {
				j++
			}
			if j == i+1 {
				p.fail(diag.SynBadWithSyntax, source.Span{Start: i, End: j}, "expected field name after '&'")
			}
			emit(syntax.ChunkField, i, j)
			i = j

		case isWordByte(c):
			j := i
			for j < inner.End && isWordByte(text[j]) {
				j++
			}
			emit(syntax.ChunkLiteral, i, j)
			i = j

		default:
			emit(syntax.ChunkLiteral, i, i+1)
			i++
		}
	}
	if cur != root {
		p.fail(diag.SynBadWithSyntax, cur.Parent.Chunks[cur.ParentIndex].Range, "unclosed '[' in WITH SYNTAX")
	}
	return root
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isWordByte(c byte) bool {
	return c == '-' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

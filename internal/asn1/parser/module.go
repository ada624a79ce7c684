package parser

import (
	"vanadium/internal/asn1/syntax"
	"vanadium/internal/asn1/token"
	"vanadium/internal/diag"
)

func (p *Parser) parseTree() *syntax.Tree {
	tree := p.al.Tree()
	if p.at(token.EOF) {
		p.fail(diag.SynEmptyModule, p.tok().Span, "no module definition found")
	}
	for !p.at(token.EOF) {
		tree.Modules = append(tree.Modules, p.parseModule())
	}
	return tree
}

// parseModule parses
//
//	Name [{oid}] DEFINITIONS [tagging TAGS] [EXTENSIBILITY IMPLIED] ::=
//	BEGIN [exports] [imports] assignments END
func (p *Parser) parseModule() *syntax.Module {
	mod := p.al.Module()
	name := p.expect(token.TypeRef, "module name")
	mod.Name = name.Text
	mod.NameRange = name.Span

	if p.at(token.LBrace) {
		p.skipBalanced()
	}
	p.expect(token.KwDefinitions, "DEFINITIONS")

	switch p.tok().Kind {
	case token.KwExplicit:
		p.next()
		p.expect(token.KwTags, "TAGS")
	case token.KwImplicit:
		p.next()
		p.expect(token.KwTags, "TAGS")
		mod.TagDefault = syntax.TagsImplicit
	case token.KwAutomatic:
		p.next()
		p.expect(token.KwTags, "TAGS")
		mod.TagDefault = syntax.TagsAutomatic
	}
	if _, ok := p.accept(token.KwExtensibility); ok {
		p.expect(token.KwImplied, "IMPLIED")
		mod.Extensible = true
	}
	p.expect(token.Assign, "'::='")
	p.expect(token.KwBegin, "BEGIN")

	if _, ok := p.accept(token.KwExports); ok {
		p.parseExports(mod)
	}
	if _, ok := p.accept(token.KwImports); ok {
		p.parseImports(mod)
	}

	for !p.at(token.KwEnd) {
		mod.AddMember(p.parseAssignment(mod))
	}
	p.next()
	mod.Range = p.spanFrom(name.Span.Start)
	return mod
}

func (p *Parser) parseExports(mod *syntax.Module) {
	if _, ok := p.accept(token.KwAll); ok {
		mod.ExportAll = true
		p.expect(token.Semicolon, "';'")
		return
	}
	for !p.at(token.Semicolon) {
		mod.Exports = append(mod.Exports, p.parseSymbol())
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.Semicolon, "';'")
}

// parseImports parses "a, B{} FROM Mod [oid] ... ;".
func (p *Parser) parseImports(mod *syntax.Module) {
	for !p.at(token.Semicolon) {
		imp := &syntax.Import{}
		for {
			imp.Symbols = append(imp.Symbols, p.parseSymbol())
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		p.expect(token.KwFrom, "FROM")
		from := p.expect(token.TypeRef, "module name")
		imp.From = from.Text
		imp.FromRange = from.Span

		// AssignedIdentifier: an OID value, or a value reference that is
		// not the first symbol of the next list
		switch {
		case p.at(token.LBrace):
			p.skipBalanced()
		case p.at(token.Ident) && !p.peek(1).Is(token.Comma, token.KwFrom, token.LBrace):
			p.next()
		}
		mod.Imports = append(mod.Imports, imp)
	}
	p.expect(token.Semicolon, "';'")
}

func (p *Parser) parseSymbol() syntax.Symbol {
	t := p.tok()
	if !t.Is(token.TypeRef, token.Ident) {
		p.unexpected("symbol name")
	}
	p.next()
	if p.at(token.LBrace) && p.peek(1).Kind == token.RBrace {
		p.next()
		p.next()
	}
	return syntax.Symbol{Name: t.Text, Range: t.Span}
}

// parseAssignment dispatches on the shape of the left-hand side:
//
//	Type [params] ::= Type | CLASS {...}
//	Type [params] Governor ::= { set }
//	value [params] Governor ::= Value
func (p *Parser) parseAssignment(mod *syntax.Module) *syntax.Expr {
	name := p.tok()
	switch name.Kind {
	case token.TypeRef:
		p.next()
		params := p.parseParamsOpt(mod)
		if _, ok := p.accept(token.Assign); ok {
			e := p.parseAssignedType(mod, name)
			e.LHSParams = params
			return e
		}
		gov := p.parseType(mod)
		p.expect(token.Assign, "'::='")
		return p.finishSetAssignment(mod, name, params, gov)

	case token.Ident:
		p.next()
		params := p.parseParamsOpt(mod)
		gov := p.parseType(mod)
		p.expect(token.Assign, "'::='")
		e := gov
		e.Identifier = name.Text
		e.IdentRange = name.Span
		e.Meta = syntax.MetaValue
		e.LHSParams = params
		e.Value = p.parseValue(mod)
		e.Range = p.spanFrom(name.Span.Start)
		return e
	}
	p.unexpected("assignment or END")
	return nil
}

func (p *Parser) parseAssignedType(mod *syntax.Module, name token.Token) *syntax.Expr {
	var e *syntax.Expr
	if p.at(token.KwClass) {
		e = p.parseClass(mod)
	} else {
		e = p.parseType(mod)
		if name.IsCapitals() && isClassReference(e) {
			e.Meta = syntax.MetaObjectClass
		}
	}
	e.Identifier = name.Text
	e.IdentRange = name.Span
	e.Range = p.spanFrom(name.Span.Start)
	return e
}

// isClassReference reports whether e is a bare reference written in
// capitals, like "MY-CLASS ::= OTHER-CLASS".
func isClassReference(e *syntax.Expr) bool {
	if e.Kind == syntax.KindClassDef {
		return true
	}
	return e.Kind == syntax.KindReference && e.Reference != nil &&
		len(e.Reference.Components) == 1 && e.Reference.First().Lex == syntax.LexCapitals &&
		len(e.RHSArgs) == 0
}

func (p *Parser) finishSetAssignment(mod *syntax.Module, name token.Token, params []syntax.Param, gov *syntax.Expr) *syntax.Expr {
	e := gov
	e.Identifier = name.Text
	e.IdentRange = name.Span
	e.Meta = syntax.MetaValueSet
	e.LHSParams = params
	e.Constraints = p.parseObjectSet(mod)
	e.Range = p.spanFrom(name.Span.Start)
	return e
}

// parseParamsOpt parses "{ Gov : name, Name, ... }" after an assignment
// name. The governor is a reference or a single builtin type keyword.
func (p *Parser) parseParamsOpt(mod *syntax.Module) []syntax.Param {
	if !p.at(token.LBrace) {
		return nil
	}
	p.next()
	var params []syntax.Param
	for {
		start := p.tok().Span.Start
		var prm syntax.Param
		if p.peek(1).Kind == token.Colon || (p.peek(1).Kind == token.Dot && p.hasColonBefore(token.Comma, token.RBrace)) {
			prm.Governor = p.parseGovernor(mod)
			p.expect(token.Colon, "':'")
		}
		arg := p.tok()
		if !arg.Is(token.TypeRef, token.Ident) {
			p.unexpected("parameter name")
		}
		p.next()
		prm.Argument = arg.Text
		prm.Range = p.spanFrom(start)
		params = append(params, prm)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RBrace, "'}'")
	return params
}

// hasColonBefore scans ahead in the current parameter for ':'.
func (p *Parser) hasColonBefore(stops ...token.Kind) bool {
	for i := 0; ; i++ {
		t := p.peek(i)
		if t.Kind == token.Colon {
			return true
		}
		if t.Kind == token.EOF || t.Is(stops...) {
			return false
		}
	}
}

func (p *Parser) parseGovernor(mod *syntax.Module) *syntax.Reference {
	t := p.tok()
	if t.Kind.IsKeyword() {
		p.next()
		return &syntax.Reference{
			Module:     mod,
			Components: []syntax.RefComponent{{Name: t.Text, Range: t.Span, Lex: syntax.LexCapitals}},
			Range:      t.Span,
		}
	}
	return p.parseReference(mod)
}

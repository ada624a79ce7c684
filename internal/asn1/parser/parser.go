package parser

import (
	"fmt"

	"vanadium/internal/asn1/lexer"
	"vanadium/internal/asn1/syntax"
	"vanadium/internal/asn1/token"
	"vanadium/internal/diag"
	"vanadium/internal/source"
)

type Options struct {
	// Reporter receives the error that stopped the parse. Nil drops it.
	Reporter diag.Reporter
}

// Parser is the state for one module text.
type Parser struct {
	src  string
	toks []token.Token
	pos  int
	al   *syntax.Allocator
	opts Options

	// lexical errors by token start; raw regions drop theirs
	lexErrs map[uint32]diag.Diagnostic
	lastEnd uint32
}

// bailout unwinds the parser after the first error.
type bailout struct{}

// Parse parses every module in src. Nodes come from al, which may be bound
// to an arena. On error it reports once to opts.Reporter and returns
// (nil, false).
func Parse(src string, al *syntax.Allocator, opts Options) (tree *syntax.Tree, ok bool) {
	p := &Parser{
		src:     src,
		al:      al,
		opts:    opts,
		lexErrs: make(map[uint32]diag.Diagnostic),
	}
	p.toks = lexer.New(src, lexer.Options{Reporter: lexSink{p}}).Tokenize()

	defer func() {
		if r := recover(); r != nil {
			if _, isBail := r.(bailout); !isBail {
				panic(r)
			}
			tree, ok = nil, false
		}
	}()

	tree = p.parseTree()
	if d, pending := p.firstLexError(); pending {
		p.report(d.Code, d.Primary, d.Message)
		return nil, false
	}
	return tree, true
}

type lexSink struct{ p *Parser }

func (s lexSink) Report(d diag.Diagnostic) {
	if d.Severity < diag.SevError {
		return
	}
	if _, dup := s.p.lexErrs[d.Primary.Start]; !dup {
		s.p.lexErrs[d.Primary.Start] = d
	}
}

func (p *Parser) firstLexError() (diag.Diagnostic, bool) {
	var (
		first diag.Diagnostic
		found bool
	)
	for _, d := range p.lexErrs {
		if !found || d.Primary.Start < first.Primary.Start {
			first, found = d, true
		}
	}
	return first, found
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	diag.ReportError(p.opts.Reporter, code, sp, msg)
}

// fail reports the error that ends the parse. An invalid token, or an
// unexpected end caused by an unterminated comment, is reported with the
// lexer's message instead.
func (p *Parser) fail(code diag.Code, sp source.Span, msg string) {
	if t := p.tok(); t.Kind == token.Invalid || t.Kind == token.EOF {
		if d, ok := p.firstLexError(); ok {
			p.report(d.Code, d.Primary, d.Message)
			panic(bailout{})
		}
	}
	p.report(code, sp, msg)
	panic(bailout{})
}

func (p *Parser) unexpected(want string) {
	t := p.tok()
	code := diag.SynUnexpectedToken
	if t.Kind == token.EOF {
		code = diag.SynUnexpectedEOF
	}
	p.fail(code, t.Span, fmt.Sprintf("unexpected %s; expected %s", describe(t), want))
}

func describe(t token.Token) string {
	if t.Kind == token.EOF {
		return "end of file"
	}
	return "'" + t.Text + "'"
}

func (p *Parser) tok() token.Token {
	return p.toks[p.pos]
}

// peek looks n tokens ahead, saturating at EOF.
func (p *Parser) peek(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.tok().Kind == k
}

func (p *Parser) next() token.Token {
	t := p.tok()
	if t.Kind != token.EOF {
		p.pos++
		p.lastEnd = t.Span.End
	}
	return t
}

// accept consumes the current token when it has kind k.
func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.next(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(k token.Kind, want string) token.Token {
	if !p.at(k) {
		p.unexpected(want)
	}
	return p.next()
}

// spanFrom covers start up to the end of the last consumed token.
func (p *Parser) spanFrom(start uint32) source.Span {
	return source.Span{Start: start, End: max(start, p.lastEnd)}
}

// skipBalanced consumes a {...} group and returns its span, braces
// included. Lexical errors inside it are forgotten: the text is kept raw.
func (p *Parser) skipBalanced() source.Span {
	open := p.expect(token.LBrace, "'{'")
	depth := 1
	for depth > 0 {
		t := p.tok()
		switch t.Kind {
		case token.EOF:
			p.fail(diag.SynUnclosedBrace, open.Span, "unclosed '{'")
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		case token.Invalid:
			delete(p.lexErrs, t.Span.Start)
		}
		p.next()
	}
	return p.spanFrom(open.Span.Start)
}

func (p *Parser) text(sp source.Span) string {
	return p.src[sp.Start:sp.End]
}

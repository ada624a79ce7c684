package lexer

import (
	"vanadium/internal/asn1/token"
	"vanadium/internal/diag"
	"vanadium/internal/source"
)

// Options configures the lexer.
type Options struct {
	// Reporter receives lexical errors. Nil drops them.
	Reporter diag.Reporter
}

// Lexer splits ASN.1 module text into tokens. Comments and white space are
// skipped; the parser never sees them.
type Lexer struct {
	src    string
	cursor Cursor
	opts   Options
	look   *token.Token
}

func New(src string, opts Options) *Lexer {
	return &Lexer{
		src:    src,
		cursor: NewCursor(src),
		opts:   opts,
	}
}

// Next returns the next token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: source.Span{Start: lx.cursor.Off, End: lx.cursor.Off}}
	}

	ch := lx.cursor.Peek()
	switch {
	case isLetter(ch):
		return lx.scanWord()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '&':
		return lx.scanFieldRef()
	case ch == '"':
		return lx.scanCString()
	case ch == '\'':
		return lx.scanBinString()
	default:
		return lx.scanPunct()
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Tokenize consumes the whole text. The last token is always EOF.
func (lx *Lexer) Tokenize() []token.Token {
	toks := make([]token.Token, 0, max(len(lx.src)/5, 16))
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func (lx *Lexer) tok(kind token.Kind, m Mark) token.Token {
	sp := lx.cursor.SpanFrom(m)
	return token.Token{Kind: kind, Span: sp, Text: lx.src[sp.Start:sp.End]}
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	diag.ReportError(lx.opts.Reporter, code, sp, msg)
}

package lexer

import (
	"fmt"
	"strings"

	"vanadium/internal/asn1/token"
	"vanadium/internal/diag"
)

// scanWord scans identifiers, type references and reserved words. A hyphen
// belongs to the word only when a letter or digit follows it and it does not
// start a comment.
func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.scanWordTail()

	t := lx.tok(token.Ident, start)
	if k, ok := token.LookupKeyword(t.Text); ok {
		t.Kind = k
	} else if isUpper(t.Text[0]) {
		t.Kind = token.TypeRef
	}
	return t
}

func (lx *Lexer) scanWordTail() {
	for {
		b := lx.cursor.Peek()
		switch {
		case isLetter(b) || isDec(b):
			lx.cursor.Bump()
		case b == '-' && lx.cursor.PeekAt(1) != '-' && isAlnum(lx.cursor.PeekAt(1)):
			lx.cursor.Bump()
		default:
			return
		}
	}
}

// scanFieldRef scans "&name" and "&Name".
func (lx *Lexer) scanFieldRef() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	if !isLetter(lx.cursor.Peek()) {
		t := lx.tok(token.Invalid, start)
		lx.errLex(diag.LexUnknownChar, t.Span, "expected field name after '&'")
		return t
	}
	lx.scanWordTail()
	return lx.tok(token.FieldRef, start)
}

// scanNumber scans decimal numbers and reals. "0..5" is a number followed by
// a range, not a real.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	kind := token.Number
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = token.RealNumber
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.cursor.Eat('-')
		if !isDec(lx.cursor.Peek()) {
			lx.cursor.Reset(m)
		} else {
			kind = token.RealNumber
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	}
	if isLetter(lx.cursor.Peek()) {
		lx.scanWordTail()
		t := lx.tok(token.Invalid, start)
		lx.errLex(diag.LexBadNumber, t.Span, fmt.Sprintf("malformed number %q", t.Text))
		return t
	}
	return lx.tok(kind, start)
}

// scanCString scans "..." where "" stands for a quote.
func (lx *Lexer) scanCString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == '"' {
			if lx.cursor.Peek() == '"' {
				lx.cursor.Bump()
				continue
			}
			return lx.tok(token.CString, start)
		}
	}
	t := lx.tok(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, t.Span, "unterminated string literal")
	return t
}

// scanBinString scans '0101'B and '0F'H.
func (lx *Lexer) scanBinString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\'' {
		lx.cursor.Bump()
	}
	if !lx.cursor.Eat('\'') {
		t := lx.tok(token.Invalid, start)
		lx.errLex(diag.LexUnterminatedString, t.Span, "unterminated bit string")
		return t
	}
	switch lx.cursor.Peek() {
	case 'B':
		lx.cursor.Bump()
		t := lx.tok(token.BString, start)
		if !onlyDigits(t.Text[1:len(t.Text)-2], "01") {
			lx.errLex(diag.LexBadBitString, t.Span, fmt.Sprintf("invalid bit string %s", t.Text))
			t.Kind = token.Invalid
		}
		return t
	case 'H':
		lx.cursor.Bump()
		t := lx.tok(token.HString, start)
		if !onlyDigits(t.Text[1:len(t.Text)-2], "0123456789ABCDEF") {
			lx.errLex(diag.LexBadBitString, t.Span, fmt.Sprintf("invalid hex string %s", t.Text))
			t.Kind = token.Invalid
		}
		return t
	}
	t := lx.tok(token.Invalid, start)
	lx.errLex(diag.LexBadBitString, t.Span, "expected 'B' or 'H' after quoted string")
	return t
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	kind := token.Invalid
	switch b {
	case ':':
		kind = token.Colon
		if lx.cursor.Peek() == ':' && lx.cursor.PeekAt(1) == '=' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			kind = token.Assign
		}
	case '.':
		kind = token.Dot
		if lx.cursor.Eat('.') {
			kind = token.DotDot
			if lx.cursor.Eat('.') {
				kind = token.Ellipsis
			}
		}
	case '[':
		kind = token.LBracket
		if lx.cursor.Eat('[') {
			kind = token.LVersion
		}
	case ']':
		kind = token.RBracket
		if lx.cursor.Eat(']') {
			kind = token.RVersion
		}
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case ',':
		kind = token.Comma
	case ';':
		kind = token.Semicolon
	case '|':
		kind = token.Pipe
	case '^':
		kind = token.Caret
	case '@':
		kind = token.At
	case '!':
		kind = token.Bang
	case '<':
		kind = token.Lt
	case '>':
		kind = token.Gt
	case '-':
		kind = token.Minus
	case '+':
		kind = token.Plus
	}
	if b >= 0x80 {
		for lx.cursor.Peek()&0xC0 == 0x80 {
			lx.cursor.Bump()
		}
	}
	t := lx.tok(kind, start)
	if kind == token.Invalid {
		lx.errLex(diag.LexUnknownChar, t.Span, fmt.Sprintf("unexpected character %q", t.Text))
	}
	return t
}

func isLetter(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isUpper(b byte) bool  { return b >= 'A' && b <= 'Z' }
func isDec(b byte) bool    { return b >= '0' && b <= '9' }
func isAlnum(b byte) bool  { return isLetter(b) || isDec(b) }

func onlyDigits(s, alphabet string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && strings.IndexByte(alphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}

package lexer

import "vanadium/internal/diag"

// skipTrivia skips white space and both comment forms:
//   - "--" up to the next "--" or end of line;
//   - "/* ... */", nested.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v':
			lx.cursor.Bump()
		case b == '-' && lx.cursor.PeekAt(1) == '-':
			lx.skipLineComment()
		case b == '/' && lx.cursor.PeekAt(1) == '*':
			lx.skipBlockComment()
		default:
			return
		}
	}
}

func (lx *Lexer) skipLineComment() {
	lx.cursor.Bump()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || b == '\r' {
			return
		}
		if b == '-' && lx.cursor.PeekAt(1) == '-' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	depth := 1
	for !lx.cursor.EOF() {
		switch {
		case lx.cursor.Peek() == '/' && lx.cursor.PeekAt(1) == '*':
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth++
		case lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/':
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth--
			if depth == 0 {
				return
			}
		default:
			lx.cursor.Bump()
		}
	}
	lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
}

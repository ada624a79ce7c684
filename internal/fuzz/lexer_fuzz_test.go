package fuzztests

import (
	"testing"

	"vanadium/internal/asn1/lexer"
	"vanadium/internal/asn1/token"
	"vanadium/internal/diag"
)


func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		src := clampInput(input)
		bag := diag.NewBag(64)
		lx := lexer.New(src, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		var prevEnd uint32
		for i := 0; ; i++ {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			if tok.Span.Start < prevEnd || tok.Span.End < tok.Span.Start || int(tok.Span.End) > len(src) {
				t.Fatalf("token %d %s has span %v after %d (len %d)", i, tok.Kind, tok.Span, prevEnd, len(src))
			}
			prevEnd = tok.Span.End
			if i > len(src)+1 {
				t.Fatalf("lexer does not advance: %d tokens for %d bytes", i, len(src))
			}
		}
	})
}

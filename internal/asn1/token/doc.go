// Package token defines the lexical tokens of ASN.1 module text.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly.
//   - Reserved words are upper case and case sensitive; "integer" is an
//     identifier, "INTEGER" is KwInteger.
//   - Restricted character string types (IA5String, UTF8String, ...) share
//     the kind KwStringType; the parser looks at Text.
package token

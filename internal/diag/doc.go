// Package diag defines the diagnostic model shared by ingestion, lowering
// and the driver.
//
// Diagnostic is the central record: a Severity, a numeric Code with a stable
// string form, a short Message, the FileID it belongs to and a primary
// source.Span. Notes add secondary spans and should say something the
// message does not.
//
// Code ranges:
//
//   - 1xxx lexical errors of the bundled ASN.1 lexer
//   - 2xxx syntax errors of the bundled ASN.1 parser
//   - 30xx lowering errors of the transformer
//   - 31xx WITH SYNTAX / object set errors
//   - 4xxx module basket errors
//   - 5xxx io
//   - 6xxx project manifest
//
// Producers emit through a Reporter (usually BagReporter) or build a
// Diagnostic directly. Package diag does no formatting; see
// internal/diagfmt.
package diag

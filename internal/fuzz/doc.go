// Package fuzztests houses Go fuzz harnesses for the ASN.1 front end
// (text -> lexer -> ingestion -> lowering). They guard against panics,
// hangs and broken tree structure on arbitrary input.
package fuzztests

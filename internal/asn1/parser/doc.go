// Package parser builds a syntax.Tree from ASN.1 module text.
//
// It understands the part of X.680, X.681 and X.683 the lowering needs:
// module headers, imports and exports, type, value, value-set, class,
// object and object-set assignments, parametrized assignments, tags,
// constraints including component relation constraints, and WITH SYNTAX.
//
// Object values are not parsed; their text is kept, braces included, for
// matching against the class WITH SYNTAX later on.
//
// The parser stops at the first error. A failed parse yields exactly one
// diagnostic and no tree.
package parser

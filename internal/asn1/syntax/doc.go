// Package syntax is the typed tree produced by the ASN.1 parser and read by
// the transformer. The shapes follow the asn1c parser model so that the
// lowering rules can be stated in its terms:
//
//   - every assignment and every nested type is an *Expr with a MetaType
//     (type, value, value set, class, class field) and an ExprKind;
//   - constraints are trees of *Constraint whose leaves carry a *Value or a
//     contained type;
//   - object values are kept unparsed (ValueUnparsed), including braces,
//     because their grammar is defined by the class WITH SYNTAX;
//   - WITH SYNTAX is a chunk list with optional groups linked to their
//     parent scope.
//
// Nodes are allocated through an Allocator, which the ingestion layer binds
// to an arena for the duration of a parse. The tree is read-only after the
// parse.
package syntax

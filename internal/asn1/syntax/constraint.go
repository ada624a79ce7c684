package syntax

import "vanadium/internal/source"

// ConstraintKind tags a Constraint.
type ConstraintKind uint8

const (
	ConstraintInvalid ConstraintKind = iota
	ElValue                          // single value
	ElType                           // contained subtype or referenced set
	ElRange                          // a..b
	ElExt                            // ...
	CaUnion                          // a | b
	CaIntersection                   // a ^ b
	CaExcept                         // a EXCEPT b
	CaSet                            // container: parenthesized constraints, or "root, ..., additions"
	CaCRC                            // ({Set}{@comp})
	AtNotation                       // @comp or @.comp
	CtSize                           // SIZE (...)
	CtFrom                           // FROM (...)
	CtWithComponents                 // WITH COMPONENT(S) { ... }, kept unparsed
	CtContaining                     // CONTAINING Type
	CtPattern                        // PATTERN "..."
)

var constraintKindNames = [...]string{
	ConstraintInvalid: "Invalid",
	ElValue:           "ElValue",
	ElType:            "ElType",
	ElRange:           "ElRange",
	ElExt:             "ElExt",
	CaUnion:           "CaUnion",
	CaIntersection:    "CaIntersection",
	CaExcept:          "CaExcept",
	CaSet:             "CaSet",
	CaCRC:             "CaCRC",
	AtNotation:        "AtNotation",
	CtSize:            "CtSize",
	CtFrom:            "CtFrom",
	CtWithComponents:  "CtWithComponents",
	CtContaining:      "CtContaining",
	CtPattern:         "CtPattern",
}

func (k ConstraintKind) String() string {
	if int(k) < len(constraintKindNames) {
		return constraintKindNames[k]
	}
	return "Unknown"
}

// Constraint is a node of a constraint tree.
type Constraint struct {
	Kind     ConstraintKind
	Range    source.Span
	Elements []*Constraint

	Value *Value // ElValue, AtNotation, CtPattern
	Type  *Expr  // ElType, CtContaining

	// ElRange bounds. Open bounds ("a<..<b") set the Exclude flags.
	Lower, Upper               *Value
	ExcludeLower, ExcludeUpper bool
}

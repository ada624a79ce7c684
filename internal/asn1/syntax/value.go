package syntax

import "vanadium/internal/source"

// ValueKind tags a Value.
type ValueKind uint8

const (
	ValueInvalid ValueKind = iota
	ValueNull
	ValueInteger
	ValueReal
	ValueTrue
	ValueFalse
	ValueString
	ValueBitVector
	ValueHexString
	ValueMin
	ValueMax
	ValueReferenced
	ValueUnparsed // raw text, braces included
)

var valueKindNames = [...]string{
	ValueInvalid:    "Invalid",
	ValueNull:       "Null",
	ValueInteger:    "Integer",
	ValueReal:       "Real",
	ValueTrue:       "True",
	ValueFalse:      "False",
	ValueString:     "String",
	ValueBitVector:  "BitVector",
	ValueHexString:  "HexString",
	ValueMin:        "Min",
	ValueMax:        "Max",
	ValueReferenced: "Referenced",
	ValueUnparsed:   "Unparsed",
}

func (k ValueKind) String() string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "Unknown"
}

// Value is a literal, a reference to a value, or unparsed text.
type Value struct {
	Kind      ValueKind
	Range     source.Span
	Text      string // source text of the value
	Int       int64
	Real      float64
	Reference *Reference
}

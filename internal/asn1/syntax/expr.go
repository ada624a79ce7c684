package syntax

import "vanadium/internal/source"

// Meta is the broad category of an Expr.
type Meta uint8

const (
	MetaInvalid     Meta = iota
	MetaType                    // a type
	MetaTypeRef                 // a reference to a type
	MetaValue                   // a value or information object
	MetaValueSet                // a value set or object set
	MetaObjectClass             // CLASS { ... }
	MetaObjectField             // a field of a CLASS
)

var metaNames = [...]string{
	MetaInvalid:     "Invalid",
	MetaType:        "Type",
	MetaTypeRef:     "TypeRef",
	MetaValue:       "Value",
	MetaValueSet:    "ValueSet",
	MetaObjectClass: "ObjectClass",
	MetaObjectField: "ObjectField",
}

func (m Meta) String() string {
	if int(m) < len(metaNames) {
		return metaNames[m]
	}
	return "Unknown"
}

// ExprKind is the construct an Expr stands for.
type ExprKind uint8

const (
	KindInvalid ExprKind = iota
	KindReference
	KindExtensible     // ...
	KindExtensionGroup // [[ n: ... ]]
	KindComponentsOf
	KindUniversal // enumeration item or named number
	KindValueSet  // { Set } given as a parameter
	KindClassDef
	KindClassFieldTFS   // &Type
	KindClassFieldFTVFS // &value Type
	KindClassFieldVTVFS // &value &Type
	KindClassFieldFTVSFS
	KindSequence
	KindSet
	KindChoice
	KindSequenceOf
	KindSetOf
	KindEnumerated
	KindNull
	KindBoolean
	KindInteger
	KindReal
	KindBitString
	KindOctetString
	KindObjectIdentifier
	KindRelativeOID
	KindCharacterString
	KindRestrictedString // IA5String, UTF8String, UTCTime, ...
	KindExternal
	KindEmbeddedPDV
	KindObjectDescriptor
	KindInstanceOf
)

var kindNames = [...]string{
	KindInvalid:          "Invalid",
	KindReference:        "Reference",
	KindExtensible:       "Extensible",
	KindExtensionGroup:   "ExtensionGroup",
	KindComponentsOf:     "ComponentsOf",
	KindUniversal:        "Universal",
	KindValueSet:         "ValueSet",
	KindClassDef:         "ClassDef",
	KindClassFieldTFS:    "ClassFieldTFS",
	KindClassFieldFTVFS:  "ClassFieldFTVFS",
	KindClassFieldVTVFS:  "ClassFieldVTVFS",
	KindClassFieldFTVSFS: "ClassFieldFTVSFS",
	KindSequence:         "Sequence",
	KindSet:              "Set",
	KindChoice:           "Choice",
	KindSequenceOf:       "SequenceOf",
	KindSetOf:            "SetOf",
	KindEnumerated:       "Enumerated",
	KindNull:             "Null",
	KindBoolean:          "Boolean",
	KindInteger:          "Integer",
	KindReal:             "Real",
	KindBitString:        "BitString",
	KindOctetString:      "OctetString",
	KindObjectIdentifier: "ObjectIdentifier",
	KindRelativeOID:      "RelativeOID",
	KindCharacterString:  "CharacterString",
	KindRestrictedString: "RestrictedString",
	KindExternal:         "External",
	KindEmbeddedPDV:      "EmbeddedPDV",
	KindObjectDescriptor: "ObjectDescriptor",
	KindInstanceOf:       "InstanceOf",
}

func (k ExprKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// MarkerFlags are the component markers.
type MarkerFlags uint8

const (
	MarkOptional MarkerFlags = 1 << iota
	MarkDefault
	MarkUnique
)

// Marker holds OPTIONAL / DEFAULT / UNIQUE of a component or class field.
type Marker struct {
	Flags   MarkerFlags
	Default *Value // DEFAULT value
	DefType *Expr  // DEFAULT type of a type field
}

func (m Marker) Has(f MarkerFlags) bool { return m.Flags&f == f }

// TagClass is the class of an explicit tag.
type TagClass uint8

const (
	TagContext TagClass = iota
	TagUniversal
	TagApplication
	TagPrivate
)

// TagMode is IMPLICIT, EXPLICIT or the module default.
type TagMode uint8

const (
	TagModeDefault TagMode = iota
	TagModeImplicit
	TagModeExplicit
)

// Tag is "[APPLICATION 3] IMPLICIT".
type Tag struct {
	Class  TagClass
	Number int64
	Mode   TagMode
	Range  source.Span
}

// Param is one formal parameter of a parametrized assignment:
// "Governor : name" or just "Name".
type Param struct {
	Governor *Reference
	Argument string
	Range    source.Span
}

// Expr is a type, value, class or field.
type Expr struct {
	Identifier string
	IdentRange source.Span
	// Range covers the whole construct.
	Range source.Span
	// TypeRange covers the type keyword(s) or the reference of a type.
	TypeRange source.Span

	Meta   Meta
	Kind   ExprKind
	Module *Module

	Reference   *Reference
	Members     []*Expr
	Marker      Marker
	Tag         *Tag
	Constraints *Constraint // CaSet of parenthesized constraints, or the object set body
	LHSParams   []Param
	RHSArgs     []*Expr
	Value       *Value
	WithSyntax  *WithSyntax
	Version     int // extension group version
}

// IsParametrized reports whether e declares formal parameters.
func (e *Expr) IsParametrized() bool {
	return len(e.LHSParams) > 0
}

// Member returns the direct member named name.
func (e *Expr) Member(name string) *Expr {
	for _, m := range e.Members {
		if m.Identifier == name {
			return m
		}
	}
	return nil
}

// FindConstraint returns the first top-level constraint of kind k.
func (e *Expr) FindConstraint(k ConstraintKind) *Constraint {
	if e.Constraints == nil {
		return nil
	}
	if e.Constraints.Kind == k {
		return e.Constraints
	}
	for _, c := range e.Constraints.Elements {
		if c.Kind == k {
			return c
		}
	}
	return nil
}

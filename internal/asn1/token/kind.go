package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident      // starts with a lower case letter: valuereference, identifier
	TypeRef    // starts with an upper case letter: typereference, modulereference
	FieldRef   // &field or &Field
	Number     // 123
	RealNumber // 1.5, 2e10
	CString    // "text"
	BString    // '0101'B
	HString    // '0F'H

	Assign     // ::=
	Ellipsis   // ...
	DotDot     // ..
	LVersion   // [[
	RVersion   // ]]
	LBrace     // {
	RBrace     // }
	LParen     // (
	RParen     // )
	LBracket   // [
	RBracket   // ]
	Comma      // ,
	Semicolon  // ;
	Colon      // :
	Dot        // .
	Pipe       // |
	Caret      // ^
	At         // @
	Bang       // !
	Lt         // <
	Gt         // >
	Minus      // -
	Plus       // +

	kwStart
	KwAbsent
	KwAll
	KwApplication
	KwAutomatic
	KwBegin
	KwBit
	KwBoolean
	KwBy
	KwCharacter
	KwChoice
	KwClass
	KwComponent
	KwComponents
	KwConstrained
	KwContaining
	KwDefault
	KwDefinitions
	KwEmbedded
	KwEncoded
	KwEnd
	KwEnumerated
	KwExcept
	KwExplicit
	KwExports
	KwExtensibility
	KwExternal
	KwFalse
	KwFrom
	KwIdentifier
	KwImplicit
	KwImplied
	KwImports
	KwIncludes
	KwInstance
	KwInteger
	KwIntersection
	KwMax
	KwMin
	KwMinusInfinity
	KwNull
	KwObject
	KwObjectDescriptor
	KwOctet
	KwOf
	KwOptional
	KwPattern
	KwPdv
	KwPlusInfinity
	KwPresent
	KwPrivate
	KwReal
	KwRelativeOID
	KwSequence
	KwSet
	KwSize
	KwString
	KwStringType // IA5String, UTF8String, GeneralizedTime, ...
	KwSyntax
	KwTags
	KwTrue
	KwTypeIdentifier
	KwUnion
	KwUnique
	KwUniversal
	KwWith
	kwEnd
)

var kindNames = [...]string{
	Invalid:    "invalid",
	EOF:        "end of file",
	Ident:      "identifier",
	TypeRef:    "type reference",
	FieldRef:   "field reference",
	Number:     "number",
	RealNumber: "real number",
	CString:    "string",
	BString:    "bit string",
	HString:    "hex string",
	Assign:     "'::='",
	Ellipsis:   "'...'",
	DotDot:     "'..'",
	LVersion:   "'[['",
	RVersion:   "']]'",
	LBrace:     "'{'",
	RBrace:     "'}'",
	LParen:     "'('",
	RParen:     "')'",
	LBracket:   "'['",
	RBracket:   "']'",
	Comma:      "','",
	Semicolon:  "';'",
	Colon:      "':'",
	Dot:        "'.'",
	Pipe:       "'|'",
	Caret:      "'^'",
	At:         "'@'",
	Bang:       "'!'",
	Lt:         "'<'",
	Gt:         "'>'",
	Minus:      "'-'",
	Plus:       "'+'",
}

// String returns a human-readable name of the kind, suitable for messages.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	if k.IsKeyword() {
		for word, kw := range keywords {
			if kw == k && k != KwStringType {
				return word
			}
		}
		return "string type"
	}
	return "unknown"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k > kwStart && k < kwEnd
}

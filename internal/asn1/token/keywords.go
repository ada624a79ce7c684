package token

var keywords = map[string]Kind{
	"ABSENT":          KwAbsent,
	"ALL":             KwAll,
	"APPLICATION":     KwApplication,
	"AUTOMATIC":       KwAutomatic,
	"BEGIN":           KwBegin,
	"BIT":             KwBit,
	"BOOLEAN":         KwBoolean,
	"BY":              KwBy,
	"CHARACTER":       KwCharacter,
	"CHOICE":          KwChoice,
	"CLASS":           KwClass,
	"COMPONENT":       KwComponent,
	"COMPONENTS":      KwComponents,
	"CONSTRAINED":     KwConstrained,
	"CONTAINING":      KwContaining,
	"DEFAULT":         KwDefault,
	"DEFINITIONS":     KwDefinitions,
	"EMBEDDED":        KwEmbedded,
	"ENCODED":         KwEncoded,
	"END":             KwEnd,
	"ENUMERATED":      KwEnumerated,
	"EXCEPT":          KwExcept,
	"EXPLICIT":        KwExplicit,
	"EXPORTS":         KwExports,
	"EXTENSIBILITY":   KwExtensibility,
	"EXTERNAL":        KwExternal,
	"FALSE":           KwFalse,
	"FROM":            KwFrom,
	"IDENTIFIER":      KwIdentifier,
	"IMPLICIT":        KwImplicit,
	"IMPLIED":         KwImplied,
	"IMPORTS":         KwImports,
	"INCLUDES":        KwIncludes,
	"INSTANCE":        KwInstance,
	"INTEGER":         KwInteger,
	"INTERSECTION":    KwIntersection,
	"MAX":             KwMax,
	"MIN":             KwMin,
	"MINUS-INFINITY":  KwMinusInfinity,
	"NULL":            KwNull,
	"OBJECT":          KwObject,
	"OCTET":           KwOctet,
	"OF":              KwOf,
	"OPTIONAL":        KwOptional,
	"PATTERN":         KwPattern,
	"PDV":             KwPdv,
	"PLUS-INFINITY":   KwPlusInfinity,
	"PRESENT":         KwPresent,
	"PRIVATE":         KwPrivate,
	"REAL":            KwReal,
	"RELATIVE-OID":    KwRelativeOID,
	"SEQUENCE":        KwSequence,
	"SET":             KwSet,
	"SIZE":            KwSize,
	"STRING":          KwString,
	"SYNTAX":          KwSyntax,
	"TAGS":            KwTags,
	"TRUE":            KwTrue,
	"TYPE-IDENTIFIER": KwTypeIdentifier,
	"UNION":           KwUnion,
	"UNIQUE":          KwUnique,
	"UNIVERSAL":       KwUniversal,
	"WITH":            KwWith,

	"ObjectDescriptor": KwObjectDescriptor,

	"BMPString":       KwStringType,
	"GeneralString":   KwStringType,
	"GraphicString":   KwStringType,
	"IA5String":       KwStringType,
	"ISO646String":    KwStringType,
	"NumericString":   KwStringType,
	"PrintableString": KwStringType,
	"T61String":       KwStringType,
	"TeletexString":   KwStringType,
	"UniversalString": KwStringType,
	"UTF8String":      KwStringType,
	"VideotexString":  KwStringType,
	"VisibleString":   KwStringType,
	"UTCTime":         KwStringType,
	"GeneralizedTime": KwStringType,
}

// LookupKeyword reports whether ident is a reserved word.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

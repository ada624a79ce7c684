package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadBitString             Code = 1005

	// syntax
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynUnexpectedEOF    Code = 2002
	SynUnclosedBrace    Code = 2003
	SynExpectIdentifier Code = 2004
	SynExpectAssignment Code = 2005
	SynBadModuleHeader  Code = 2006
	SynBadWithSyntax    Code = 2007
	SynBadConstraint    Code = 2008
	SynEmptyModule      Code = 2009

	// lowering
	TrInfo                 Code = 3000
	TrInvalidRange         Code = 3001
	TrUnsupportedConstruct Code = 3002
	TrUnresolvedReference  Code = 3003
	TrNotAClass            Code = 3004
	TrUnknownClassField    Code = 3005
	TrConstraintRequired   Code = 3006
	TrSetTypeMismatch      Code = 3007
	TrParamCount           Code = 3008
	TrParamGovernor        Code = 3009
	TrConstraintValue      Code = 3010
	TrConstraintKind       Code = 3011
	TrSetNotUnion          Code = 3012

	// information object classes
	ClsTemplateMismatch Code = 3101
	ClsLiteralNotFound  Code = 3102

	// basket
	BasketInfo            Code = 4000
	BasketModuleRedefined Code = 4001

	// io
	IOLoadFileError Code = 5001

	// project
	ProjInfo            Code = 6000
	ProjManifestInvalid Code = 6001
	ProjUnknownRef      Code = 6002
	ProjUnknownExt      Code = 6003
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number",
	LexBadBitString:             "Malformed bit or hex string",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnexpectedEOF:            "Unexpected end of module",
	SynUnclosedBrace:            "Unclosed brace",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectAssignment:         "Expected '::='",
	SynBadModuleHeader:          "Malformed module header",
	SynBadWithSyntax:            "Malformed WITH SYNTAX clause",
	SynBadConstraint:            "Malformed constraint",
	SynEmptyModule:              "No module definition found",
	TrInfo:                      "Lowering information",
	TrInvalidRange:              "Invalid target range",
	TrUnsupportedConstruct:      "Construct cannot be lowered",
	TrUnresolvedReference:       "Unresolved reference",
	TrNotAClass:                 "Reference is not a CLASS",
	TrUnknownClassField:         "Unknown CLASS field",
	TrConstraintRequired:        "Component relation constraint required",
	TrSetTypeMismatch:           "Object set has a different class",
	TrParamCount:                "Wrong number of parameters",
	TrParamGovernor:             "Parameter governor mismatch",
	TrConstraintValue:           "Unexpected constraint value",
	TrConstraintKind:            "Unexpected constraint kind",
	TrSetNotUnion:               "Object set is not union-constrained",
	ClsTemplateMismatch:         "Object does not match WITH SYNTAX",
	ClsLiteralNotFound:          "WITH SYNTAX literal not found",
	BasketInfo:                  "Basket information",
	BasketModuleRedefined:       "Module defined in more than one file",
	IOLoadFileError:             "Failed to load file",
	ProjInfo:                    "Project information",
	ProjManifestInvalid:         "Invalid project manifest",
	ProjUnknownRef:              "Unknown project reference",
	ProjUnknownExt:              "Unknown compiler extension",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 3100:
		return fmt.Sprintf("TR%04d", ic)
	case ic >= 3100 && ic < 4000:
		return fmt.Sprintf("CLS%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("BSK%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

package ast

// keywords are the TTCN-3 reserved words. Lowered names that collide with
// one get a trailing underscore.
var keywords = map[string]struct{}{}

func init() {
	for _, kw := range []string{
		"mod", "rem", "and", "or", "xor", "not", "and4b", "or4b", "xor4b", "not4b",
		"address", "alive", "all", "alt", "altstep", "any",
		"break",
		"case", "charstring", "class", "component", "const", "continue", "control", "create",
		"decmatch", "display", "do",
		"else", "encode", "enumerated", "error", "except", "exception", "extends", "extension", "external",
		"fail", "false", "for", "friend", "from", "function",
		"goto", "group",
		"if", "ifpresent", "import", "in", "inconc", "inout", "interleave",
		"label", "language", "length",
		"map", "message", "mixed", "modifies", "module", "modulepar", "mtc",
		"not_a_number", "noblock", "none", "null",
		"of", "omit", "on", "optional", "out", "override",
		"param", "pass", "pattern", "port", "present", "private", "procedure", "public",
		"realtime", "record", "regexp", "repeat", "return", "runs",
		"select", "sender", "set", "signature", "stepsize", "system",
		"template", "testcase", "timer", "timestamp", "to", "true", "type",
		"union", "universal", "unmap",
		"value", "var", "variant",
		"while", "with",
	} {
		keywords[kw] = struct{}{}
	}
}

// IsKeyword reports whether s is a TTCN-3 reserved word.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

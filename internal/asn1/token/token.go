package token

import "vanadium/internal/source"

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// Is reports whether the token has one of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// IsUpper reports whether the token is a type reference, module reference
// or an upper-case field reference (&Type).
func (t Token) IsUpper() bool {
	switch t.Kind {
	case TypeRef:
		return true
	case FieldRef:
		return len(t.Text) > 1 && isUpper(t.Text[1])
	}
	return false
}

// IsCapitals reports whether the token is written in capitals only, as
// information object class references are.
func (t Token) IsCapitals() bool {
	if t.Kind != TypeRef {
		return false
	}
	for i := 0; i < len(t.Text); i++ {
		c := t.Text[i]
		if c != '-' && !isUpper(c) && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

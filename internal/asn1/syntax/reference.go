package syntax

import (
	"strings"

	"vanadium/internal/source"
)

// RefLex is the lexical shape of a reference component.
type RefLex uint8

const (
	LexUppercase    RefLex = iota // Type
	LexLowercase                  // value
	LexCapitals                   // CLASS-NAME
	LexAmpUppercase               // &Type
	LexAmpLowercase               // &value
)

// RefComponent is one dot-separated part of a reference.
type RefComponent struct {
	Name  string
	Range source.Span
	Lex   RefLex
}

// Reference is "Name", "Module.Name" or "CLASS.&field".
type Reference struct {
	Module     *Module // module the reference appears in
	Components []RefComponent
	Range      source.Span
}

// First returns the leading component.
func (r *Reference) First() RefComponent {
	if r == nil || len(r.Components) == 0 {
		return RefComponent{}
	}
	return r.Components[0]
}

// String joins the components with dots.
func (r *Reference) String() string {
	if r == nil {
		return ""
	}
	names := make([]string, len(r.Components))
	for i, c := range r.Components {
		names[i] = c.Name
	}
	return strings.Join(names, ".")
}

// Equal compares references by component names.
func (r *Reference) Equal(o *Reference) bool {
	if r == nil || o == nil {
		return r == o
	}
	if len(r.Components) != len(o.Components) {
		return false
	}
	for i := range r.Components {
		if r.Components[i].Name != o.Components[i].Name {
			return false
		}
	}
	return true
}

// LexOf classifies a reference component by spelling.
func LexOf(name string) RefLex {
	if name == "" {
		return LexLowercase
	}
	if name[0] == '&' {
		if len(name) > 1 && name[1] >= 'A' && name[1] <= 'Z' {
			return LexAmpUppercase
		}
		return LexAmpLowercase
	}
	if name[0] < 'A' || name[0] > 'Z' {
		return LexLowercase
	}
	for i := 0; i < len(name); i++ {
		if name[i] >= 'a' && name[i] <= 'z' {
			return LexUppercase
		}
	}
	return LexCapitals
}

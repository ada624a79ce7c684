// Package compext holds the compiler extensions that change how ASN.1
// modules are lowered.
package compext

import "sort"

// EAGGroupingName groups each extension addition group into one optional
// record field.
const EAGGroupingName = "asn1-eag-grouping"

var known = map[string]func(*Flags) *bool{
	EAGGroupingName: func(f *Flags) *bool { return &f.eagGrouping },
}

// Flags is a set of enabled extensions. The zero value has everything off.
type Flags struct {
	eagGrouping bool
}

// Set clears every flag, then enables the known names. Unknown names are
// passed to onUnknown when it is not nil.
func (f *Flags) Set(names []string, onUnknown func(string)) {
	*f = Flags{}
	for _, name := range names {
		flag, ok := known[name]
		if !ok {
			if onUnknown != nil {
				onUnknown(name)
			}
			continue
		}
		*flag(f) = true
	}
}

// Enabled reports whether the named extension is on.
func (f *Flags) Enabled(name string) bool {
	if f == nil {
		return false
	}
	flag, ok := known[name]
	return ok && *flag(f)
}

// EAGGrouping reports whether asn1-eag-grouping is on.
func (f *Flags) EAGGrouping() bool {
	return f != nil && f.eagGrouping
}

// Names returns every known extension name, sorted.
func Names() []string {
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

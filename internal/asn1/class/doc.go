// Package class matches information objects against their class WITH
// SYNTAX template and walks object sets.
//
// ParseObject turns the unparsed text of one object into field rows.
// ResolveSet visits every object of a set, following references to other
// objects and sets through a caller-supplied resolver.
package class

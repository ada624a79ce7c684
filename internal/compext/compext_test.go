package compext

import (
	"slices"
	"testing"
)

func TestSet(t *testing.T) {
	var f Flags
	var unknown []string
	f.Set([]string{"asn1-eag-grouping", "no-such-thing"}, func(name string) {
		unknown = append(unknown, name)
	})
	if !f.EAGGrouping() || !f.Enabled(EAGGroupingName) {
		t.Error("asn1-eag-grouping should be enabled")
	}
	if !slices.Equal(unknown, []string{"no-such-thing"}) {
		t.Errorf("unknown = %v", unknown)
	}
	if f.Enabled("no-such-thing") {
		t.Error("unknown names are never enabled")
	}

	f.Set(nil, nil)
	if f.EAGGrouping() {
		t.Error("Set must clear flags that are not listed")
	}
}

func TestNilFlags(t *testing.T) {
	var f *Flags
	if f.EAGGrouping() || f.Enabled(EAGGroupingName) {
		t.Error("nil flags report everything off")
	}
}

func TestNames(t *testing.T) {
	if got := Names(); !slices.Equal(got, []string{"asn1-eag-grouping"}) {
		t.Errorf("Names() = %v", got)
	}
}

package diag

import (
	"testing"

	"vanadium/internal/source"
)

func TestBag_LimitKeepsErrorCount(t *testing.T) {
	b := NewBag(2)
	if !b.Add(New(SevWarning, TrUnsupportedConstruct, source.At(1), "w")) {
		t.Fatal("first Add rejected")
	}
	if b.HasErrors() {
		t.Error("HasErrors() with only a warning")
	}
	b.Add(New(SevInfo, TrInfo, source.At(2), "i"))
	if b.Add(NewError(SynUnexpectedToken, source.At(5), "dropped")) {
		t.Error("Add past the limit should be rejected")
	}
	if b.Len() != 2 || b.Dropped() != 1 {
		t.Errorf("Len() = %d, Dropped() = %d", b.Len(), b.Dropped())
	}
	if !b.HasErrors() || b.ErrorCount() != 1 {
		t.Errorf("a dropped error must still count: HasErrors() = %v, ErrorCount() = %d", b.HasErrors(), b.ErrorCount())
	}
}

func TestBag_SortDedupMerge(t *testing.T) {
	b := NewBag(10)
	b.Add(NewError(TrUnresolvedReference, source.Span{Start: 9, End: 12}, "unresolved reference to 'X'"))
	b.Add(NewError(SynUnexpectedToken, source.Span{Start: 1, End: 2}, "a").InFile(1))
	b.Add(NewError(TrUnresolvedReference, source.Span{Start: 9, End: 12}, "unresolved reference to 'X'"))
	b.Add(New(SevWarning, TrInfo, source.Span{Start: 9, End: 12}, "note"))

	other := NewBag(1)
	other.Add(NewError(BasketModuleRedefined, source.At(0), "module 'M' is already defined in another file"))
	other.Add(NewError(BasketModuleRedefined, source.At(4), "dropped by other"))
	b.Merge(other)

	b.Dedup()
	b.Sort()

	items := b.Items()
	if len(items) != 4 {
		t.Fatalf("len = %d, want 4: %+v", len(items), items)
	}
	if items[0].Code != BasketModuleRedefined {
		t.Errorf("items[0] = %v", items[0].Code)
	}
	if items[1].Severity != SevError || items[2].Severity != SevWarning {
		t.Errorf("same span must sort errors before warnings: %v, %v", items[1].Severity, items[2].Severity)
	}
	if items[3].File != 1 {
		t.Errorf("file 1 must sort last, got file %d", items[3].File)
	}
	if b.ErrorCount() != 5 || b.Dropped() != 1 {
		t.Errorf("ErrorCount() = %d, Dropped() = %d, want 5 and 1", b.ErrorCount(), b.Dropped())
	}
}

func TestMergeRespectsLimit(t *testing.T) {
	b := NewBag(1)
	other := NewBag(4)
	other.Add(New(SevWarning, TrInfo, source.At(0), "kept"))
	other.Add(NewError(TrInvalidRange, source.At(1), "over the limit"))
	b.Merge(other)
	if b.Len() != 1 || b.Dropped() != 1 || !b.HasErrors() {
		t.Errorf("Len() = %d, Dropped() = %d, HasErrors() = %v", b.Len(), b.Dropped(), b.HasErrors())
	}
}

func TestBagReporter(t *testing.T) {
	bag := NewBag(4)
	r := BagReporter{Bag: bag, File: 3}
	r.Report(NewError(ClsTemplateMismatch, source.Span{Start: 2, End: 4}, "expected pattern like 'CODE', got 'X'").
		WithNote(source.At(0), "class declared here"))
	ReportError(r, ClsLiteralNotFound, source.At(6), "literal 'ID' not found")
	ReportError(nil, ClsLiteralNotFound, source.At(6), "discarded")

	if bag.Len() != 2 {
		t.Fatalf("Len() = %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.File != 3 || d.Code != ClsTemplateMismatch || len(d.Notes) != 1 {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	if bag.Items()[1].Severity != SevError {
		t.Errorf("ReportError severity = %v", bag.Items()[1].Severity)
	}
}

func TestReporterFunc(t *testing.T) {
	var got []Code
	r := ReporterFunc(func(d Diagnostic) { got = append(got, d.Code) })
	ReportError(r, LexBadNumber, source.At(0), "bad number")
	if len(got) != 1 || got[0] != LexBadNumber {
		t.Errorf("got %v", got)
	}
	if Severity(9).String() != "UNKNOWN" || SevWarning.String() != "WARNING" {
		t.Error("severity names")
	}
}

func TestCode_ID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{LexUnknownChar, "LEX1001"},
		{SynUnexpectedToken, "SYN2001"},
		{TrUnresolvedReference, "TR3003"},
		{ClsLiteralNotFound, "CLS3102"},
		{BasketModuleRedefined, "BSK4001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
	if Code(9999).Title() != "Unknown error" {
		t.Error("unknown codes should fall back to the generic title")
	}
}

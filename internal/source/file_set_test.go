package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.asn", []byte("A DEFINITIONS ::= BEGIN END"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	id2 := fs.Add("./test.asn", []byte("B DEFINITIONS ::= BEGIN END"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists := fs.Lookup("test.asn")
	if !exists {
		t.Fatal("Expected file to exist after Add")
	}
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	if got := fs.Get(id1).Text(); got != "A DEFINITIONS ::= BEGIN END" {
		t.Errorf("first version content = %q", got)
	}
	if fs.Get(id1).Path != fs.Get(id2).Path {
		t.Error("Expected both versions to share the normalized path")
	}
	if fs.Get(42) != nil {
		t.Error("Get(unknown) should be nil")
	}
	if fs.Len() != 2 {
		t.Errorf("Len() = %d, want 2", fs.Len())
	}
}

func TestLineIndex(t *testing.T) {
	li := NewLineIndex("a\nbc\n\nd")

	wantStarts := []uint32{0, 2, 5, 6}
	if got := li.Starts(); len(got) != len(wantStarts) {
		t.Fatalf("Starts() = %v, want %v", got, wantStarts)
	}
	for i, want := range wantStarts {
		if li.Starts()[i] != want {
			t.Errorf("Starts()[%d] = %d, want %d", i, li.Starts()[i], want)
		}
	}

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{1, LineCol{1, 2}},
		{2, LineCol{2, 1}},
		{4, LineCol{2, 3}},
		{5, LineCol{3, 1}},
		{6, LineCol{4, 1}},
		{7, LineCol{4, 2}},
		{99, LineCol{4, 2}},
	}
	for _, tt := range tests {
		if got := li.Position(tt.off); got != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}

	if off, ok := li.Offset(LineCol{Line: 2, Col: 2}); !ok || off != 3 {
		t.Errorf("Offset(2:2) = %d, %v", off, ok)
	}
	if _, ok := li.Offset(LineCol{Line: 9, Col: 1}); ok {
		t.Error("Offset past last line should fail")
	}
	if sp := li.LineSpan(2); sp != (Span{Start: 2, End: 4}) {
		t.Errorf("LineSpan(2) = %+v", sp)
	}
}

func TestLineIndex_ShrinkingTextHasNoStaleEntries(t *testing.T) {
	long := NewLineIndex("one\ntwo\nthree\nfour\n")
	short := NewLineIndex("one\n")

	if long.Lines() != 5 {
		t.Fatalf("long.Lines() = %d", long.Lines())
	}
	for _, start := range short.Starts() {
		if start > short.Size() {
			t.Errorf("start %d beyond text length %d", start, short.Size())
		}
	}
	if short.Lines() != 2 {
		t.Errorf("short.Lines() = %d, want 2", short.Lines())
	}
}

func TestDisplayCol_WideRunes(t *testing.T) {
	text := "名前 ::= INTEGER"
	li := NewLineIndex(text)
	// "名前 " is 7 bytes wide in UTF-8 and 5 columns on a terminal
	if got := li.DisplayCol(text, 7); got != 6 {
		t.Errorf("DisplayCol() = %d, want 6", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        []byte
		want      string
		wantFlags FileFlags
	}{
		{"plain", []byte("x\n"), "x\n", 0},
		{"bom", []byte{0xEF, 0xBB, 0xBF, 'x', '\n'}, "x\n", FileHadBOM},
		{"crlf", []byte("a\r\nb\r\n"), "a\nb\n", FileNormalizedCRLF},
		{"lone cr kept", []byte("a\rb"), "a\rb", 0},
		{"nfc", []byte("e\u0301"), "\u00e9", FileNormalizedNFC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, flags := Normalize(tt.in)
			if string(got) != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
			if flags != tt.wantFlags {
				t.Errorf("flags = %b, want %b", flags, tt.wantFlags)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.asn")
	if err := os.WriteFile(path, []byte("M DEFINITIONS ::=\r\nBEGIN\r\nEND\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag to be set")
	}
	if f.Line(2) != "BEGIN" {
		t.Errorf("Line(2) = %q", f.Line(2))
	}
	start, end := fs.Resolve(id, Span{Start: 18, End: 23})
	if start != (LineCol{2, 1}) || end != (LineCol{2, 6}) {
		t.Errorf("Resolve() = %+v..%+v", start, end)
	}

	if _, err := fs.Load(filepath.Join(dir, "missing.asn")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestAddVirtual(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("stdin", []byte("a\nb\n"))
	f := fs.Get(id)
	if f.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
	if f.Lines.Lines() != 3 {
		t.Errorf("Lines() = %d, want 3", f.Lines.Lines())
	}
}

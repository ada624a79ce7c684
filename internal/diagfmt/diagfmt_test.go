package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"vanadium/internal/arena"
	"vanadium/internal/asn1/basket"
	"vanadium/internal/diag"
	"vanadium/internal/source"
	"vanadium/internal/ttcn/ast"
)

const brokenText = "M DEFINITIONS ::= BEGIN\nT ::= INTEG....ER\nEND\n"

func brokenBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.asn", []byte(brokenText))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{Start: 30, End: 35}, "unexpected token").
		WithNote(source.Span{Start: 0, End: 1}, "in module M").
		InFile(id))
	return bag, fs
}

func TestPretty(t *testing.T) {
	bag, fs := brokenBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true})
	want := strings.Join([]string{
		"a.asn:2:7: ERROR SYN2001: unexpected token",
		"1 | M DEFINITIONS ::= BEGIN",
		"2 | T ::= INTEG....ER",
		"  |       ^~~~~",
		"  note: a.asn:1:1: in module M",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("Pretty() =\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyWithoutContext(t *testing.T) {
	bag, fs := brokenBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	out := buf.String()
	if strings.Contains(out, "1 | M DEFINITIONS") {
		t.Errorf("context line printed:\n%s", out)
	}
	if strings.Contains(out, "note:") {
		t.Errorf("notes printed without ShowNotes:\n%s", out)
	}
	if !strings.Contains(out, "2 | T ::= INTEG....ER") {
		t.Errorf("primary line missing:\n%s", out)
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := brokenBag(t)
	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("escape codes without Color")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("no escape codes with Color")
	}
}

func TestFormatPath(t *testing.T) {
	f := &source.File{Path: "/home/user/proj/asn/rrc.asn"}
	tests := []struct {
		name string
		mode PathMode
		base string
		want string
	}{
		{"absolute", PathModeAbsolute, "", "/home/user/proj/asn/rrc.asn"},
		{"relative", PathModeRelative, "/home/user/proj", "asn/rrc.asn"},
		{"basename", PathModeBasename, "", "rrc.asn"},
		{"auto inside", PathModeAuto, "/home/user/proj", "asn/rrc.asn"},
		{"auto outside", PathModeAuto, "/srv", "/home/user/proj/asn/rrc.asn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPath(f, tt.mode, tt.base); got != tt.want {
				t.Errorf("formatPath() = %q, want %q", got, tt.want)
			}
		})
	}
	if got := formatPath(nil, PathModeAuto, ""); got != "<unknown>" {
		t.Errorf("formatPath(nil) = %q", got)
	}
}

func TestJSON(t *testing.T) {
	bag, fs := brokenBag(t)
	bag.Add(diag.New(diag.SevWarning, diag.TrUnsupportedConstruct, source.Span{}, "second"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, Max: 1}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, want 1 (Max)", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "SYN2001" || d.Severity != "ERROR" {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 7 || d.Location.EndCol != 12 {
		t.Errorf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 1 {
		t.Errorf("notes = %+v", d.Notes)
	}
}

func lowered(t *testing.T, src string) ast.AST {
	t.Helper()
	b := basket.New[string]()
	b.Update("s.asn", src)
	a, err := b.Transform("s.asn", arena.New())
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestTree(t *testing.T) {
	a := lowered(t, "S DEFINITIONS ::= BEGIN T ::= INTEGER END")
	snap, err := BuildSnapshot(&a)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Tree(&buf, snap, TreeOpts{}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		`Root`,
		`└─ Module "S"`,
		`   └─ Definition`,
		`      └─ SubTypeDecl`,
		`         └─ Field "T"`,
		`            └─ RefSpec`,
		`               └─ Ident "integer"`,
		``,
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("Tree() =\n%s\nwant:\n%s", got, want)
	}

	buf.Reset()
	if err := Tree(&buf, snap, TreeOpts{Spans: true}); err != nil {
		t.Fatal(err)
	}
	if first, _, _ := strings.Cut(buf.String(), "\n"); first != "Root @1:1-1:42" {
		t.Errorf("first line = %q", first)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := `M DEFINITIONS ::= BEGIN
Rec ::= SEQUENCE { a INTEGER, b BOOLEAN OPTIONAL }
Color ::= ENUMERATED { red, green }
END`
	a := lowered(t, src)
	var want bytes.Buffer
	if err := ast.Dump(&want, a.Tree, a.Root, a.Src); err != nil {
		t.Fatal(err)
	}

	snap, err := BuildSnapshot(&a)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Module != "M" || snap.Nodes[0].Parent != -1 {
		t.Errorf("snapshot header = %q, root parent %d", snap.Module, snap.Nodes[0].Parent)
	}

	var enc bytes.Buffer
	if err := EncodeSnapshot(&enc, snap); err != nil {
		t.Fatal(err)
	}
	back, err := DecodeSnapshot(&enc)
	if err != nil {
		t.Fatal(err)
	}
	var got bytes.Buffer
	if err := back.Dump(&got); err != nil {
		t.Fatal(err)
	}
	if got.String() != want.String() {
		t.Errorf("snapshot dump =\n%s\nwant:\n%s", got.String(), want.String())
	}
	for i, n := range back.Nodes {
		for _, c := range n.Children {
			if back.Nodes[c].Parent != int32(i) {
				t.Errorf("node %d child %d has parent %d", i, c, back.Nodes[c].Parent)
			}
		}
	}
}

func TestSnapshotErrorsAndSchema(t *testing.T) {
	a := lowered(t, brokenText)
	snap, err := BuildSnapshot(&a)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Errors) != 1 || snap.Errors[0].Message == "" {
		t.Errorf("errors = %+v", snap.Errors)
	}
	diags := snap.Diagnostics(3)
	if len(diags) != 1 || diags[0].File != 3 || diags[0].Severity != diag.SevError {
		t.Errorf("diagnostics = %+v", diags)
	}

	snap.Schema = SnapshotSchema + 1
	var enc bytes.Buffer
	if err := EncodeSnapshot(&enc, snap); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeSnapshot(&enc); err == nil {
		t.Error("schema mismatch not reported")
	}
}

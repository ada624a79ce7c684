package ingest

import (
	"testing"

	"vanadium/internal/arena"
	"vanadium/internal/asn1/syntax"
)

const okModule = `
    MyModule DEFINITIONS ::=
    BEGIN

    MyTypes ::= SEQUENCE {
        myObjectId   OBJECT IDENTIFIER,
        mySeqOf      SEQUENCE OF MyInt
    }

    MyInt ::= INTEGER (0..65535)

    END
`

func TestParseSuccess(t *testing.T) {
	a := arena.New()
	tree, errs := Parse(a, okModule)
	if len(errs) != 0 {
		t.Fatalf("errors: %v", errs)
	}
	if tree.Arena() != a {
		t.Error("tree does not report its arena")
	}
	if tree.al.Bound() {
		t.Error("allocator still bound after Parse returned")
	}
	mod := tree.Module()
	if mod == nil || mod.Name != "MyModule" || len(mod.Members) != 2 {
		t.Fatalf("module = %+v", mod)
	}
	if arena.SlabOf[syntax.Expr](a).Len() == 0 {
		t.Error("no expression nodes were allocated in the arena")
	}
}

func TestParseFailure(t *testing.T) {
	a := arena.New()
	tree, errs := Parse(a, `
    MyModule DEFINITIONS ::=
    BEGIN

    MyInt ::= INTEG....ER (0..65535)

    END
  `)
	if tree != nil {
		t.Fatal("expected no tree")
	}
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want exactly one", errs)
	}
	if errs[0].Span.Empty() || errs[0].Message == "" {
		t.Errorf("error lacks position or message: %+v", errs[0])
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	tree, errs := Parse(arena.New(), okModule)
	if len(errs) != 0 {
		t.Fatalf("errors: %v", errs)
	}
	tree.Close()
	tree.Close()
	if tree.Raw() != nil || tree.Module() != nil {
		t.Error("tree still exposes nodes after Close")
	}
	if tree.al.Bound() {
		t.Error("allocator still bound after Close")
	}

	var nilTree *Tree
	nilTree.Close()
}

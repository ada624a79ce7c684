package class_test

import (
	"fmt"
	"testing"

	"vanadium/internal/asn1/class"
	"vanadium/internal/asn1/syntax"
	"vanadium/internal/diag"
	"vanadium/internal/source"
)

const setModule = `M DEFINITIONS ::= BEGIN
C ::= CLASS { &id INTEGER UNIQUE } WITH SYNTAX { ID &id }
obj4 C ::= { ID 4 }
alias C ::= obj4
Inline C ::= { {ID 1} | {ID 2} | {ID 3} }
Mixed C ::= { {ID 1} | obj4, ..., Inline }
Holes C ::= { missing | {ID 9} | Missing | alias }
Loop C ::= { Back | {ID 5} }
Back C ::= { Loop }
Nums C ::= { 1 | {ID 2} }
END`

type setRun struct {
	ids       []string
	errors    []string
	codes     []diag.Code
	resolved  []string
	stopAfter int
}

func resolveSet(t *testing.T, mod *syntax.Module, set *syntax.Expr, run *setRun) {
	t.Helper()
	cls := mod.Member("C")
	emit := func(_ source.Span, code diag.Code, msg string) {
		run.errors = append(run.errors, msg)
		run.codes = append(run.codes, code)
	}
	class.ResolveSet(set, cls, class.SetConsumer{
		Resolve: func(ref *syntax.Reference) *syntax.Expr {
			run.resolved = append(run.resolved, ref.String())
			return mod.Member(ref.String())
		},
		AcceptClass: func(inspect class.Inspector) bool {
			inspect(class.ObjectConsumer{
				AcceptRow: func(row class.Row) bool {
					run.ids = append(run.ids, row.Value)
					return true
				},
				EmitError: emit,
			})
			return run.stopAfter == 0 || len(run.ids) < run.stopAfter
		},
		EmitError: emit,
	})
}

func TestResolveSet(t *testing.T) {
	mod := parseModule(t, setModule)
	tests := []struct {
		set    string
		ids    []string
		errors []string
	}{
		{set: "Inline", ids: []string{"1", "2", "3"}},
		{set: "Mixed", ids: []string{"1", "4", "1", "2", "3"}},
		{set: "Holes", ids: []string{"9", "4"}},
		{set: "Loop", ids: []string{"5"}},
		{set: "Nums", ids: []string{"2"}, errors: []string{"unexpected constraint value type: 'Integer'"}},
	}
	for _, tt := range tests {
		t.Run(tt.set, func(t *testing.T) {
			run := &setRun{}
			resolveSet(t, mod, mod.Member(tt.set), run)
			if fmt.Sprint(run.ids) != fmt.Sprint(tt.ids) {
				t.Errorf("ids = %v, want %v", run.ids, tt.ids)
			}
			if fmt.Sprint(run.errors) != fmt.Sprint(tt.errors) {
				t.Errorf("errors = %q, want %q", run.errors, tt.errors)
			}
		})
	}
}

func TestResolveSetInlineNeedsNoLookup(t *testing.T) {
	mod := parseModule(t, setModule)
	run := &setRun{}
	resolveSet(t, mod, mod.Member("Inline"), run)
	if len(run.resolved) != 0 {
		t.Errorf("Resolve called for %v", run.resolved)
	}
}

func TestResolveSetStop(t *testing.T) {
	mod := parseModule(t, setModule)
	run := &setRun{stopAfter: 2}
	resolveSet(t, mod, mod.Member("Mixed"), run)
	if fmt.Sprint(run.ids) != "[1 4]" {
		t.Errorf("ids = %v, want [1 4]", run.ids)
	}
	for _, name := range run.resolved {
		if name == "Inline" {
			t.Error("walk continued past a rejected object")
		}
	}
}

func TestResolveSetNotUnion(t *testing.T) {
	mod := parseModule(t, setModule)
	bad := &syntax.Expr{
		Identifier: "Bad",
		IdentRange: source.Span{Start: 3, End: 6},
		Meta:       syntax.MetaValueSet,
		Constraints: &syntax.Constraint{
			Kind: syntax.CaIntersection,
		},
	}
	run := &setRun{}
	resolveSet(t, mod, bad, run)
	if len(run.errors) != 1 || run.errors[0] != "referenced set 'Bad' is not union-constrained" {
		t.Fatalf("errors = %q", run.errors)
	}
	if run.codes[0] != diag.TrSetNotUnion {
		t.Errorf("code = %v, want %v", run.codes[0], diag.TrSetNotUnion)
	}
	if len(run.ids) != 0 {
		t.Errorf("ids = %v, want none", run.ids)
	}
}

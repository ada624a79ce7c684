package class_test

import (
	"fmt"
	"testing"

	"vanadium/internal/asn1/class"
	"vanadium/internal/asn1/parser"
	"vanadium/internal/asn1/syntax"
	"vanadium/internal/diag"
	"vanadium/internal/source"
)

type recorder struct {
	rows   []class.Row
	errors []string
	stopAt int // stop after this many rows, 0 for never
}

func (r *recorder) consumer() class.ObjectConsumer {
	return class.ObjectConsumer{
		AcceptRow: func(row class.Row) bool {
			r.rows = append(r.rows, row)
			return r.stopAt == 0 || len(r.rows) < r.stopAt
		},
		EmitError: func(_ source.Span, _ diag.Code, msg string) {
			r.errors = append(r.errors, msg)
		},
	}
}

func (r *recorder) pairs() []string {
	out := make([]string, len(r.rows))
	for i, row := range r.rows {
		out[i] = row.Name + "=" + row.Value
	}
	return out
}

func parseModule(t *testing.T, src string) *syntax.Module {
	t.Helper()
	bag := diag.NewBag(4)
	tree, ok := parser.Parse(src, syntax.NewAllocator(), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if !ok {
		t.Fatalf("parse failed: %+v", bag.Items())
	}
	return tree.Modules[0]
}

func runObject(t *testing.T, src, className, objName string, rec *recorder) {
	t.Helper()
	mod := parseModule(t, src)
	cls := mod.Member(className)
	if cls == nil || cls.Meta != syntax.MetaObjectClass || cls.Kind != syntax.KindClassDef {
		t.Fatalf("%s is not a class: %+v", className, cls)
	}
	obj := mod.Member(objName)
	if obj == nil || obj.Meta != syntax.MetaValue || obj.Kind != syntax.KindReference {
		t.Fatalf("%s is not an object: %+v", objName, obj)
	}
	class.ParseObject(obj.Value.Text, obj.Value.Range.Start, cls.WithSyntax, rec.consumer())
}

const objectModule = `
    Test DEFINITIONS AUTOMATIC TAGS ::=
    BEGIN

    ERROR-CLASS ::= CLASS
    {
      &category INTEGER,
      &code     INTEGER,
      &Type
    }
    WITH SYNTAX {
      CATEGORY &category
      CODE &code
      TYPE &Type
    }

    %s

    END
`

func TestParseObject(t *testing.T) {
	tests := []struct {
		name   string
		object string
		want   []string
		errs   []string
	}{
		{
			name:   "values",
			object: "errorClass1 ERROR-CLASS ::= {\n      CATEGORY 1\n      CODE 2\n      TYPE ErrorType1\n    }",
			want:   []string{"&category=1", "&code=2", "&Type=ErrorType1"},
		},
		{
			name:   "open type",
			object: "errorClass1 ERROR-CLASS ::= {\n      CATEGORY 1\n      CODE 2\n      TYPE INTEGER\n    }",
			want:   []string{"&category=1", "&code=2", "&Type=INTEGER"},
		},
		{
			name:   "open type multiword",
			object: "errorClass1 ERROR-CLASS ::= {\n      CATEGORY 1\n      CODE 2\n      TYPE OCTET STRING\n    }",
			want:   []string{"&category=1", "&code=2", "&Type=OCTET STRING"},
		},
		{
			name:   "single line",
			object: "errorClass1 ERROR-CLASS ::= {CATEGORY 1 CODE 2 TYPE ErrorType1}",
			want:   []string{"&category=1", "&code=2", "&Type=ErrorType1"},
		},
		{
			name:   "wrong literal",
			object: "errorClass1 ERROR-CLASS ::= { KATEGORY 1 CODE 2 TYPE X }",
			errs:   []string{"expected pattern like 'CATEGORY', got 'KATEGORY 1 CODE 2 TYPE X'"},
		},
		{
			name:   "missing terminator",
			object: "errorClass1 ERROR-CLASS ::= { CATEGORY 1 TYPE X }",
			errs:   []string{"literal 'CODE' not found"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			runObject(t, fmt.Sprintf(objectModule, tt.object), "ERROR-CLASS", "errorClass1", rec)
			if fmt.Sprint(rec.pairs()) != fmt.Sprint(tt.want) {
				t.Errorf("rows = %v, want %v", rec.pairs(), tt.want)
			}
			if fmt.Sprint(rec.errors) != fmt.Sprint(tt.errs) {
				t.Errorf("errors = %q, want %q", rec.errors, tt.errs)
			}
		})
	}
}

func TestParseObjectRowSpans(t *testing.T) {
	src := fmt.Sprintf(objectModule, "errorClass1 ERROR-CLASS ::= { CATEGORY 7 CODE 2 TYPE OCTET STRING }")
	rec := &recorder{}
	runObject(t, src, "ERROR-CLASS", "errorClass1", rec)
	for _, row := range rec.rows {
		if got := row.Span.Text(src); got != row.Value {
			t.Errorf("row %s span text = %q, want %q", row.Name, got, row.Value)
		}
	}
}

func TestParseObjectStop(t *testing.T) {
	rec := &recorder{stopAt: 2}
	runObject(t, fmt.Sprintf(objectModule, "errorClass1 ERROR-CLASS ::= { CATEGORY 1 CODE 2 TYPE X }"),
		"ERROR-CLASS", "errorClass1", rec)
	if len(rec.rows) != 2 || len(rec.errors) != 0 {
		t.Errorf("rows = %v, errors = %v; want 2 rows and no errors", rec.pairs(), rec.errors)
	}
}

func TestParseObjectLiteralOnly(t *testing.T) {
	const src = `M DEFINITIONS ::= BEGIN
FLAG ::= CLASS { &id INTEGER OPTIONAL } WITH SYNTAX { ENABLED }
on FLAG ::= { ENABLED }
off FLAG ::= { DISABLED }
END`
	tests := []struct {
		obj    string
		errors int
	}{
		{"on", 0},
		{"off", 1},
	}
	for _, tt := range tests {
		t.Run(tt.obj, func(t *testing.T) {
			rec := &recorder{}
			runObject(t, src, "FLAG", tt.obj, rec)
			if len(rec.rows) != 0 {
				t.Errorf("rows = %v, want none", rec.pairs())
			}
			if len(rec.errors) != tt.errors {
				t.Errorf("errors = %q, want %d", rec.errors, tt.errors)
			}
		})
	}
}

func TestParseObjectOptionalGroups(t *testing.T) {
	const src = `M DEFINITIONS ::= BEGIN
OPERATION ::= CLASS {
  &ArgumentType OPTIONAL,
  &ResultType OPTIONAL,
  &code INTEGER UNIQUE
} WITH SYNTAX {
  [ARGUMENT &ArgumentType]
  [RESULT &ResultType]
  CODE &code
}
full OPERATION ::= { ARGUMENT Arg RESULT Res CODE 1 }
argOnly OPERATION ::= { ARGUMENT Arg CODE 2 }
bare OPERATION ::= { CODE 3 }
END`
	tests := []struct {
		obj  string
		want []string
	}{
		{"full", []string{"&ArgumentType=Arg", "&ResultType=Res", "&code=1"}},
		{"argOnly", []string{"&ArgumentType=Arg", "&code=2"}},
		{"bare", []string{"&code=3"}},
	}
	for _, tt := range tests {
		t.Run(tt.obj, func(t *testing.T) {
			rec := &recorder{}
			runObject(t, src, "OPERATION", tt.obj, rec)
			if fmt.Sprint(rec.pairs()) != fmt.Sprint(tt.want) {
				t.Errorf("rows = %v, want %v", rec.pairs(), tt.want)
			}
			if len(rec.errors) != 0 {
				t.Errorf("errors = %q", rec.errors)
			}
		})
	}
}

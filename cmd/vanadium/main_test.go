package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"vanadium/internal/diagfmt"
	"vanadium/internal/driver"
)

const libText = `Lib DEFINITIONS ::= BEGIN
Shared ::= CLASS { &id INTEGER, &Type } WITH SYNTAX { ID &id TYPE &Type }
END
`

const appText = `App DEFINITIONS ::= BEGIN
IMPORTS Shared FROM Lib;
objs Shared ::= { ID 1 TYPE Payload }
Msg ::= SEQUENCE { id Shared.&id }
END
`

const brokenText = `Broken DEFINITIONS ::= BEGIN
MyInt ::= INTEG....ER (0..65535)
END
`

func writeInputs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// resetFlags puts every flag of cmd and its children back to its default,
// since the command tree is shared by all tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	base := []string{"--color", "off"}
	if !slices.Contains(args, "--manifest") {
		base = append(base, "--no-manifest")
	}
	rootCmd.SetArgs(append(base, args...))
	err = rootCmd.Execute()
	shutdown(&errOut, err != nil)
	return out.String(), errOut.String(), err
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", uiModeAuto, true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("readUIMode(%q) = %d, %v", tt.in, got, err)
		}
	}
	if !shouldUseTUI(uiModeOn) || shouldUseTUI(uiModeOff) {
		t.Error("explicit modes must win over terminal detection")
	}
}

func TestOutputName(t *testing.T) {
	named := driver.FileResult{File: &driver.File{Path: "x/app.asn"}, Module: "App"}
	if got := outputName(named, "msgpack"); got != "App.msgpack" {
		t.Errorf("outputName() = %q", got)
	}
	unnamed := driver.FileResult{File: &driver.File{Path: "x/broken.asn1"}}
	if got := outputName(unnamed, "text"); got != "broken.txt" {
		t.Errorf("outputName() = %q", got)
	}
}

func TestParseCommand(t *testing.T) {
	dir := writeInputs(t, map[string]string{"lib.asn": libText, "broken.asn": brokenText})

	stdout, _, err := execute(t, "parse", filepath.Join(dir, "lib.asn"))
	if err != nil {
		t.Fatalf("parse lib.asn: %v", err)
	}
	if !strings.Contains(stdout, "parsed 1 file(s), no errors") {
		t.Errorf("stdout = %q", stdout)
	}

	_, stderr, err := execute(t, "parse", dir)
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if !strings.Contains(stderr, "broken.asn:2:") || !strings.Contains(stderr, "SYN") {
		t.Errorf("stderr = %q", stderr)
	}

	stdout, _, err = execute(t, "parse", "--format", "json", dir)
	if !errors.Is(err, errReported) {
		t.Fatalf("json: err = %v", err)
	}
	if !strings.Contains(stdout, `"diagnostics"`) {
		t.Errorf("json stdout = %q", stdout)
	}
}

func TestErrorTraceDumpedOnFailure(t *testing.T) {
	dir := writeInputs(t, map[string]string{"lib.asn": libText, "broken.asn": brokenText})
	out := filepath.Join(t.TempDir(), "trace.ndjson")

	if _, _, err := execute(t, "--trace", out, "--trace-level", "error", "parse", filepath.Join(dir, "lib.asn")); err != nil {
		t.Fatalf("parse lib.asn: %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("successful run wrote a trace: %v", err)
	}

	if _, _, err := execute(t, "--trace", out, "--trace-level", "error", "parse", dir); !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"name":"basket.update"`) || !strings.Contains(string(data), "broken.asn") {
		t.Errorf("trace = %s", data)
	}
}

func TestTransformCommandWritesSnapshots(t *testing.T) {
	dir := writeInputs(t, map[string]string{"lib.asn": libText, "app.asn": appText})
	out := t.TempDir()

	_, stderr, err := execute(t, "transform", "--ui", "off", "--no-cache",
		"--format", "msgpack", "--out-dir", out, dir)
	if err != nil {
		t.Fatalf("transform: %v\n%s", err, stderr)
	}

	f, err := os.Open(filepath.Join(out, "App.msgpack"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	snap, err := diagfmt.DecodeSnapshot(f)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if snap.Module != "App" || len(snap.Errors) != 0 {
		t.Errorf("snapshot module = %q, errors = %+v", snap.Module, snap.Errors)
	}
	if _, err := os.Stat(filepath.Join(out, "Lib.msgpack")); err != nil {
		t.Errorf("Lib.msgpack: %v", err)
	}
}

func TestTransformCommandText(t *testing.T) {
	dir := writeInputs(t, map[string]string{"lib.asn": libText, "app.asn": appText})

	stdout, stderr, err := execute(t, "transform", "--ui", "off", "--no-cache", "--format", "text", dir)
	if err != nil {
		t.Fatalf("transform: %v\n%s", err, stderr)
	}
	want := strings.Join([]string{
		`Root`,
		`  Module "App"`,
		`    Definition`,
		`      StructTypeDecl record "Msg"`,
		`        Field "id"`,
		`          RefSpec`,
		`            Ident "integer"`,
		``,
	}, "\n")
	if !strings.Contains(stdout, want) {
		t.Errorf("stdout missing App tree:\n%s", stdout)
	}
	if !strings.Contains(stdout, "== "+filepath.ToSlash(filepath.Join(dir, "app.asn"))+" ==") {
		t.Errorf("stdout missing file header:\n%s", stdout)
	}
}

func TestTransformCommandRejectsMsgpackToStdout(t *testing.T) {
	dir := writeInputs(t, map[string]string{"lib.asn": libText})
	_, _, err := execute(t, "transform", "--ui", "off", "--no-cache", "--format", "msgpack", dir)
	if err == nil || !strings.Contains(err.Error(), "--out-dir") {
		t.Errorf("err = %v", err)
	}
}

func TestModulesCommand(t *testing.T) {
	dir := writeInputs(t, map[string]string{"lib.asn": libText, "app.asn": appText})
	stdout, _, err := execute(t, "modules", dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"MODULE", "App", "Lib"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestModulesFromManifestSources(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"src", "common"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	files := map[string]string{
		"common/lib.asn": libText,
		"src/app.asn":    appText,
		".vanadiumrc.toml": `
[project]
name = "demo"
sources = ["src"]
references = ["common"]

[external.common]
path = "common"
`,
	}
	for name, text := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(text), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	stdout, stderr, err := execute(t, "--manifest", filepath.Join(root, ".vanadiumrc.toml"), "modules")
	if err != nil {
		t.Fatalf("modules: %v\n%s", err, stderr)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("stdout = %q", stdout)
	}
	if f := strings.Fields(lines[1]); len(f) != 3 || f[0] != "App" || f[1] != "demo" {
		t.Errorf("first module row = %q", lines[1])
	}
	if f := strings.Fields(lines[2]); len(f) != 3 || f[0] != "Lib" || f[1] != "common" {
		t.Errorf("second module row = %q", lines[2])
	}
}

func TestNoInputsWithoutManifest(t *testing.T) {
	_, _, err := execute(t, "parse")
	if err == nil || !strings.Contains(err.Error(), "no inputs") {
		t.Errorf("err = %v", err)
	}
}

func TestUnknownExtension(t *testing.T) {
	dir := writeInputs(t, map[string]string{"lib.asn": libText})
	_, _, err := execute(t, "--ext", "no-such-ext", "parse", dir)
	if err == nil || !strings.Contains(err.Error(), "no-such-ext") {
		t.Errorf("err = %v", err)
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, `"tool": "vanadium"`) {
		t.Errorf("stdout = %q", stdout)
	}
}

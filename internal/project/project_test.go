package project

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const fullManifest = `
[project]
name = "rrc"
sources = ["asn"]
references = ["common"]
extensions = ["asn1-eag-grouping"]

[external.common]
path = "../common"

[external.legacy]
path = "/opt/legacy"
references = ["common"]

[diagnostics]
max = 20

[trace]
level = "phase"
mode = "ring"
`

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, fullManifest)
	nested := filepath.Join(root, "asn", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Load(nested)
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v, %v", m, ok, err)
	}
	if m.Path != path || m.Root != root {
		t.Errorf("Path = %q, Root = %q", m.Path, m.Root)
	}
	if m.Config.Project.Name != "rrc" || m.Config.Diagnostics.Max != 20 || m.Config.Trace.Level != "phase" {
		t.Errorf("Config = %+v", m.Config)
	}
	if !m.Extensions().EAGGrouping() {
		t.Error("eag grouping not enabled")
	}
	if got := m.SourceDirs(); !slices.Equal(got, []string{filepath.Join(root, "asn")}) {
		t.Errorf("SourceDirs() = %v", got)
	}
	if got := m.ExternalNames(); !slices.Equal(got, []string{"common", "legacy"}) {
		t.Errorf("ExternalNames() = %v", got)
	}
	if got := m.Resolve(m.Config.External["common"].Path); got != filepath.Join(filepath.Dir(root), "common") {
		t.Errorf("Resolve(common) = %q", got)
	}
	if got := m.Resolve("/opt/legacy"); got != filepath.Clean("/opt/legacy") {
		t.Errorf("Resolve(abs) = %q", got)
	}
}

func TestLoadWithoutManifest(t *testing.T) {
	m, ok, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	// A manifest somewhere above the temp dir would be found; only the
	// missing case is checked strictly.
	if !ok && m != nil {
		t.Errorf("manifest = %+v without ok", m)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"no project", "[diagnostics]\nmax = 1\n", ErrProjectSectionMissing},
		{"no name", "[project]\nreferences = []\n", ErrProjectNameMissing},
		{"blank name", "[project]\nname = \"  \"\n", ErrProjectNameMissing},
		{"bad reference", "[project]\nname = \"x\"\nreferences = [\"nope\"]\n", ErrUnknownReference},
		{"bad external reference", "[project]\nname = \"x\"\n[external.a]\npath = \"a\"\nreferences = [\"b\"]\n", ErrUnknownReference},
		{"bad extension", "[project]\nname = \"x\"\nextensions = [\"turbo\"]\n", ErrUnknownExtension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			if _, err := LoadFile(path); !errors.Is(err, tt.want) {
				t.Errorf("LoadFile() err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadFileMissingExternalPath(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[project]\nname = \"x\"\n[external.a]\nreferences = []\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("expected an error for an external without path")
	}
}

func TestSourceDirsDefaultsToRoot(t *testing.T) {
	dir := t.TempDir()
	m, err := LoadFile(writeManifest(t, dir, "[project]\nname = \"x\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := m.SourceDirs(); !slices.Equal(got, []string{dir}) {
		t.Errorf("SourceDirs() = %v", got)
	}
	if m.Extensions().EAGGrouping() {
		t.Error("no extension should be on")
	}
}

func TestDigests(t *testing.T) {
	var zero Digest
	a := Combine(zero, StringsDigest("asn1-eag-grouping"))
	b := Combine(zero, StringsDigest())
	if a == b {
		t.Error("extension set must change the combined digest")
	}
	if StringsDigest("ab", "c") == StringsDigest("a", "bc") {
		t.Error("separator must keep values apart")
	}
	if Combine(zero) == zero {
		t.Error("Combine must hash")
	}
}

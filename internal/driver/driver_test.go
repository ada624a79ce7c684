package driver

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"vanadium/internal/diag"
	"vanadium/internal/observ"
	"vanadium/internal/project"
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

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, text := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(text), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) last(file string, stage Stage) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st Status
	for _, ev := range s.events {
		if ev.File == file && ev.Stage == stage {
			st = ev.Status
		}
	}
	return st
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.asn":        libText,
		"sub/a.ASN1":   appText,
		"notes.txt":    "x",
		"sub/c.asn":    brokenText,
		"other/x.asn1": libText,
	})
	got, err := ExpandInputs([]string{dir, filepath.Join(dir, "b.asn"), filepath.Join(dir, "notes.txt")})
	if err != nil {
		t.Fatal(err)
	}
	var rel []string
	for _, p := range got {
		r, _ := filepath.Rel(dir, p)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := []string{"b.asn", "other/x.asn1", "sub/a.ASN1", "sub/c.asn", "notes.txt"}
	if !slices.Equal(rel, want) {
		t.Errorf("ExpandInputs() = %v, want %v", rel, want)
	}
	if _, err := ExpandInputs([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("missing input not reported")
	}
}

func TestLoadAndTransform(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"lib.asn": libText, "app.asn": appText, "broken.asn": brokenText})
	paths := []string{
		filepath.Join(dir, "app.asn"),
		filepath.Join(dir, "broken.asn"),
		filepath.Join(dir, "lib.asn"),
		filepath.Join(dir, "gone.asn"),
	}
	sink := &recordingSink{}
	timer := observ.NewTimer()
	ws, err := Load(context.Background(), "", paths, Options{Jobs: 2, Progress: sink, Timer: timer})
	if err != nil {
		t.Fatal(err)
	}

	parsed := ws.ParseDiagnostics()
	if len(parsed) != 4 {
		t.Fatalf("results = %d", len(parsed))
	}
	if parsed[0].Module != "App" || parsed[0].Bag.Len() != 0 {
		t.Errorf("app = %q, %d diagnostics", parsed[0].Module, parsed[0].Bag.Len())
	}
	if parsed[1].Bag.Len() != 1 {
		t.Errorf("broken diagnostics = %+v", parsed[1].Bag.Items())
	}
	if items := parsed[3].Bag.Items(); len(items) != 1 || items[0].Code != diag.IOLoadFileError {
		t.Errorf("missing file diagnostics = %+v", items)
	}

	results, err := ws.Transform(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Bag.Len() != 0 || results[0].Snapshot == nil || results[0].Module != "App" {
		t.Errorf("app result = %+v", results[0])
	}
	var dump strings.Builder
	if err := results[0].Snapshot.Dump(&dump); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dump.String(), `Ident "integer"`) {
		t.Errorf("imported class field not lowered:\n%s", dump.String())
	}
	if !results[1].Bag.HasErrors() || !results[3].Bag.HasErrors() {
		t.Error("broken and missing files must carry errors")
	}

	app := ws.Files[0].Path
	if got := sink.last(app, StageLower); got != StatusDone {
		t.Errorf("app lower status = %q", got)
	}
	if got := sink.last(ws.Files[1].Path, StageParse); got != StatusError {
		t.Errorf("broken parse status = %q", got)
	}
	if got := sink.last(ws.Files[3].Path, StageLoad); got != StatusError {
		t.Errorf("missing load status = %q", got)
	}

	var names []string
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	if !slices.Equal(names, []string{"load", "parse", "lower"}) {
		t.Errorf("phases = %v", names)
	}

	var mods []string
	for _, m := range ws.Modules() {
		mods = append(mods, m.Name)
	}
	if !slices.Equal(mods, []string{"App", "Lib"}) {
		t.Errorf("Modules() = %v", mods)
	}
}

func TestReloadTracksStaleFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"lib.asn": libText, "app.asn": appText})
	paths := []string{filepath.Join(dir, "app.asn"), filepath.Join(dir, "lib.asn")}
	ctx := context.Background()
	ws, err := Load(ctx, "", paths, Options{Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	app, lib := ws.Files[0].Path, ws.Files[1].Path
	if got := ws.Stale(); !slices.Equal(got, []string{app, lib}) {
		t.Fatalf("Stale() after Load = %v", got)
	}

	if _, err := ws.Transform(ctx); err != nil {
		t.Fatal(err)
	}
	if got := ws.Stale(); len(got) != 0 {
		t.Fatalf("Stale() after Transform = %v", got)
	}
	if got, err := ws.Reload(ctx); err != nil || len(got) != 0 {
		t.Fatalf("Reload() without edits = %v, %v", got, err)
	}

	edited := strings.TrimSuffix(appText, "END\n") + "Flag ::= BOOLEAN\nEND\n"
	writeFiles(t, dir, map[string]string{"app.asn": edited})
	got, err := ws.Reload(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{app}) {
		t.Fatalf("Reload() after edit = %v", got)
	}
	results, err := ws.Transform(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var dump strings.Builder
	if err := results[0].Snapshot.Dump(&dump); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dump.String(), `Field "Flag"`) {
		t.Errorf("edit not lowered:\n%s", dump.String())
	}
	if got := ws.Stale(); len(got) != 0 {
		t.Errorf("Stale() after second Transform = %v", got)
	}

	if err := os.Remove(filepath.Join(dir, "lib.asn")); err != nil {
		t.Fatal(err)
	}
	if _, err := ws.Reload(ctx); err != nil {
		t.Fatal(err)
	}
	if ws.Files[1].Loaded() || ws.Basket.Item(lib) != nil {
		t.Fatal("unreadable file still loaded")
	}
	results, err = ws.Transform(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if items := results[1].Bag.Items(); len(items) != 1 || items[0].Code != diag.IOLoadFileError {
		t.Errorf("removed file diagnostics = %+v", items)
	}
}

func TestTransformUsesDiskCache(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"lib.asn": libText, "app.asn": appText})
	paths := []string{filepath.Join(dir, "app.asn"), filepath.Join(dir, "lib.asn")}
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}

	run := func() []FileResult {
		t.Helper()
		ws, err := Load(context.Background(), "", paths, Options{Cache: cache})
		if err != nil {
			t.Fatal(err)
		}
		res, err := ws.Transform(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	first := run()
	if first[0].Cached || first[1].Cached {
		t.Fatal("cold cache served a hit")
	}
	second := run()
	if !second[0].Cached || !second[1].Cached {
		t.Fatal("warm cache missed")
	}
	var a, b strings.Builder
	_ = first[0].Snapshot.Dump(&a)
	_ = second[0].Snapshot.Dump(&b)
	if a.String() != b.String() {
		t.Errorf("cached dump differs:\n%s\n%s", a.String(), b.String())
	}

	// Any change in the workspace invalidates every entry.
	writeFiles(t, dir, map[string]string{"lib.asn": libText + "\n"})
	if third := run(); third[0].Cached {
		t.Error("stale entry served after a dependency changed")
	}

	if err := cache.Clear(); err != nil {
		t.Fatal(err)
	}
	if fourth := run(); fourth[0].Cached {
		t.Error("hit after Clear")
	}
}

func TestDiskCacheRejectsBadEntries(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := project.StringsDigest("app.asn")
	p := cache.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("not msgpack"), 0o600); err != nil {
		t.Fatal(err)
	}
	var payload DiskPayload
	if hit, err := cache.Get(key, &payload); hit || err == nil {
		t.Fatalf("garbage entry: hit = %v, err = %v", hit, err)
	}
	if err := cache.Remove(key); err != nil {
		t.Fatal(err)
	}
	if hit, err := cache.Get(key, &payload); hit || err != nil {
		t.Fatalf("removed entry: hit = %v, err = %v", hit, err)
	}
	if hit, err := (*DiskCache)(nil).Get(key, &payload); hit || err != nil {
		t.Error("nil cache must always miss")
	}
}

func TestLoadProject(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"common/lib.asn": libText,
		"src/app.asn":    appText,
		project.ManifestName: `
[project]
name = "demo"
references = ["common"]

[external.common]
path = "common"
`,
	})
	m, err := project.LoadFile(filepath.Join(root, project.ManifestName))
	if err != nil {
		t.Fatal(err)
	}
	ws, err := LoadProject(context.Background(), m, []string{filepath.Join(root, "src", "app.asn")}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if ws.Name != "demo" || len(ws.References()) != 1 {
		t.Fatalf("workspace %q with %d references", ws.Name, len(ws.References()))
	}
	res, err := ws.Transform(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res[0].Bag.Len() != 0 {
		t.Errorf("diagnostics = %+v", res[0].Bag.Items())
	}
	mods := ws.Modules()
	if len(mods) != 2 || mods[1].Name != "Lib" || mods[1].Workspace != "common" {
		t.Errorf("Modules() = %+v", mods)
	}
}

package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"vanadium/internal/asn1/basket"
	"vanadium/internal/compext"
	"vanadium/internal/diag"
	"vanadium/internal/diagfmt"
	"vanadium/internal/observ"
	"vanadium/internal/project"
	"vanadium/internal/source"
	"vanadium/internal/trace"
)

// Options configures loading and lowering.
type Options struct {
	Jobs           int // <= 0 means GOMAXPROCS
	MaxDiagnostics int // per file
	Extensions     *compext.Flags
	Cache          *DiskCache
	Progress       ProgressSink
	Timer          *observ.Timer
}

// File is one input of a workspace.
type File struct {
	Path string // normalized; also the basket key
	ID   source.FileID
	Hash project.Digest
	Err  error // load failure
}

// Loaded reports whether the file was read.
func (f *File) Loaded() bool { return f.Err == nil }

// Workspace is a set of files ingested into one basket. Workspaces built
// for [external.<name>] manifest tables are attached with AddReference.
type Workspace struct {
	Name    string
	FileSet *source.FileSet
	Basket  *basket.Basket[string]
	Files   []*File

	refs []*Workspace
	opts Options
}

// Load reads paths and ingests them into a fresh basket.
func Load(ctx context.Context, name string, paths []string, opts Options) (*Workspace, error) {
	ctx, sp := trace.Start(ctx, trace.ScopeDriver, "driver.load")
	defer sp.WithExtra("workspace", name).End(fmt.Sprintf("files=%d", len(paths)))

	ws := &Workspace{
		Name:    name,
		FileSet: source.NewFileSet(),
		Basket:  basket.New[string]().WithTracer(trace.FromContext(ctx)).WithExtensions(opts.Extensions),
		opts:    opts,
	}

	keys := make([]string, len(paths))
	for i, p := range paths {
		keys[i] = source.NormalizePath(p)
	}
	emitAll(opts.Progress, keys, StageLoad, StatusQueued)

	phase := opts.Timer.Begin("load", name)
	failed := 0
	for i, p := range paths {
		f := &File{Path: keys[i]}
		id, err := ws.FileSet.Load(p)
		if err != nil {
			f.Err = err
			f.ID = ws.FileSet.AddVirtual(p, nil)
			failed++
			emit(opts.Progress, Event{File: f.Path, Stage: StageLoad, Status: StatusError})
		} else {
			f.ID = id
			f.Hash = ws.FileSet.Get(id).Hash
		}
		ws.Files = append(ws.Files, f)
	}
	phase.End(fmt.Sprintf("%d files, %d failed", len(paths), failed))

	if err := ws.parse(ctx); err != nil {
		return ws, err
	}
	return ws, nil
}

func (w *Workspace) parse(ctx context.Context) error {
	docs := make([]basket.Doc[string], 0, len(w.Files))
	for _, f := range w.Files {
		if !f.Loaded() {
			continue
		}
		docs = append(docs, basket.Doc[string]{Key: f.Path, Text: w.FileSet.Get(f.ID).Text()})
		emit(w.opts.Progress, Event{File: f.Path, Stage: StageParse, Status: StatusWorking})
	}

	phase := w.opts.Timer.Begin("parse", w.Name)
	err := w.Basket.UpdateAll(ctx, docs, w.opts.Jobs)
	broken := 0
	for _, doc := range docs {
		item := w.Basket.Item(doc.Key)
		if item == nil {
			continue
		}
		status := StatusDone
		if len(item.Errors()) > 0 {
			status = StatusError
			broken++
		}
		emit(w.opts.Progress, Event{File: doc.Key, Stage: StageParse, Status: status})
	}
	phase.End(fmt.Sprintf("%d modules, %d with errors", len(docs), broken))
	return err
}

// Reload re-reads every file and reparses the ones whose content changed.
// A file that can no longer be read is dropped from the basket and carries
// its read error from then on. The result is Stale after the reload.
func (w *Workspace) Reload(ctx context.Context) ([]string, error) {
	ctx, sp := trace.Start(ctx, trace.ScopeDriver, "driver.reload")

	var docs []basket.Doc[string]
	for _, f := range w.Files {
		id, err := w.FileSet.Load(filepath.FromSlash(f.Path))
		if err != nil {
			if f.Loaded() {
				w.Basket.Remove(f.Path)
				f.ID = w.FileSet.AddVirtual(f.Path, nil)
			}
			f.Err = err
			continue
		}
		file := w.FileSet.Get(id)
		if f.Loaded() && file.Hash == f.Hash {
			continue
		}
		f.ID, f.Hash, f.Err = id, file.Hash, nil
		docs = append(docs, basket.Doc[string]{Key: f.Path, Text: file.Text()})
	}

	err := w.Basket.UpdateAll(ctx, docs, w.opts.Jobs)
	sp.WithExtra("workspace", w.Name).End(fmt.Sprintf("changed=%d", len(docs)))
	return w.Stale(), err
}

// Stale returns the files updated since Transform last lowered them, in
// the order they were first loaded.
func (w *Workspace) Stale() []string {
	return slices.Collect(w.Basket.DirtyKeys())
}

// AddReference makes the modules of ext importable from w.
func (w *Workspace) AddReference(ext *Workspace) {
	w.refs = append(w.refs, ext)
	w.Basket.AddReference(ext.Basket)
}

// References returns the attached workspaces in attach order.
func (w *Workspace) References() []*Workspace { return w.refs }

// FileResult is the outcome of one file.
type FileResult struct {
	File     *File
	Module   string
	Bag      *diag.Bag
	Snapshot *diagfmt.Snapshot // set by Transform
	Cached   bool
}

// DefaultMaxDiagnostics applies when Options.MaxDiagnostics is not positive.
const DefaultMaxDiagnostics = 100

func (w *Workspace) newBag() *diag.Bag {
	if w.opts.MaxDiagnostics <= 0 {
		return diag.NewBag(DefaultMaxDiagnostics)
	}
	return diag.NewBag(w.opts.MaxDiagnostics)
}

func (w *Workspace) loadError(f *File) FileResult {
	bag := w.newBag()
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+f.Err.Error()).InFile(f.ID))
	return FileResult{File: f, Bag: bag}
}

// ParseDiagnostics returns the load and ingestion errors of every file, in
// file order.
func (w *Workspace) ParseDiagnostics() []FileResult {
	out := make([]FileResult, 0, len(w.Files))
	for _, f := range w.Files {
		if !f.Loaded() {
			out = append(out, w.loadError(f))
			continue
		}
		bag := w.newBag()
		item := w.Basket.Item(f.Path)
		res := FileResult{File: f, Bag: bag}
		if item != nil {
			res.Module = item.ModuleName()
			for _, e := range item.Errors() {
				code := e.Code
				if code == diag.UnknownCode {
					code = diag.SynUnexpectedToken
				}
				bag.Add(diag.NewError(code, e.Span, e.Message).InFile(f.ID))
			}
		}
		out = append(out, res)
	}
	return out
}

// ModuleEntry is one registered module name.
type ModuleEntry struct {
	Name      string
	Path      string
	Workspace string
}

// Modules lists the module names registered by w and its references,
// depth first, skipping workspaces already listed.
func (w *Workspace) Modules() []ModuleEntry {
	var out []ModuleEntry
	seen := make(map[*Workspace]bool)
	var visit func(*Workspace)
	visit = func(ws *Workspace) {
		if seen[ws] {
			return
		}
		seen[ws] = true
		for key := range ws.Basket.Keys() {
			item := ws.Basket.Item(key)
			if item == nil || item.ModuleName() == "" {
				continue
			}
			if ws.Basket.FindModuleProvider(item.ModuleName()) != item {
				continue
			}
			out = append(out, ModuleEntry{Name: item.ModuleName(), Path: key, Workspace: ws.Name})
		}
		for _, ref := range ws.refs {
			visit(ref)
		}
	}
	visit(w)
	return out
}


package driver

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"vanadium/internal/arena"
	"vanadium/internal/diagfmt"
	"vanadium/internal/project"
	"vanadium/internal/trace"
)

// Transform lowers every loaded file in parallel. Results are in file
// order. Files that failed to load carry only their load error. With a
// disk cache, unchanged workspaces are served from it.
func (w *Workspace) Transform(ctx context.Context) ([]FileResult, error) {
	ctx, sp := trace.Start(ctx, trace.ScopeDriver, "driver.transform")
	results := make([]FileResult, len(w.Files))
	if len(w.Files) == 0 {
		sp.End("files=0")
		return results, nil
	}

	jobs := w.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ext := extensionsDigest(w.opts.Extensions)
	wsDigest := workspaceDigest(w.Files)
	refs := w.referencesDigest()

	phase := w.opts.Timer.Begin("lower", w.Name)
	var cached atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(w.Files)))

	for i, f := range w.Files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if !f.Loaded() {
				results[i] = w.loadError(f)
				return nil
			}
			emit(w.opts.Progress, Event{File: f.Path, Stage: StageLower, Status: StatusWorking})

			res, err := w.lowerFile(gctx, f, cacheKey(f.Hash, ext, wsDigest, refs))
			if err != nil {
				emit(w.opts.Progress, Event{File: f.Path, Stage: StageLower, Status: StatusError})
				return fmt.Errorf("%s: %w", f.Path, err)
			}
			w.Basket.MarkClean(f.Path)
			if res.Cached {
				cached.Add(1)
			}
			status := StatusDone
			if res.Bag.HasErrors() {
				status = StatusError
			}
			emit(w.opts.Progress, Event{
				File:   f.Path,
				Stage:  StageLower,
				Status: status,
				Module: res.Module,
				Cached: res.Cached,
				Errors: res.Bag.ErrorCount(),
			})

			// indexes are unique per goroutine
			results[i] = res
			return nil
		})
	}

	err := g.Wait()
	note := fmt.Sprintf("%d files, %d cached", len(w.Files), cached.Load())
	phase.End(note)
	sp.End(note)
	return results, err
}

func (w *Workspace) lowerFile(ctx context.Context, f *File, key project.Digest) (FileResult, error) {
	ctx = trace.WithDoc(ctx, f.Path)
	ctx, sp := trace.Start(ctx, trace.ScopeDocument, "driver.lower_file")
	defer sp.End("")

	res := FileResult{File: f, Bag: w.newBag()}
	var payload DiskPayload
	hit, err := w.opts.Cache.Get(key, &payload)
	if err != nil {
		trace.Point(ctx, trace.ScopeDocument, "driver.cache_bad_entry", err.Error())
		_ = w.opts.Cache.Remove(key)
		hit = false
	}
	if hit {
		res.Snapshot = payload.Snapshot
		res.Module = payload.Module
		res.Cached = true
	} else {
		a, err := w.Basket.Transform(f.Path, arena.New())
		if err != nil {
			return res, err
		}
		snap, err := diagfmt.BuildSnapshot(&a)
		if err != nil {
			return res, err
		}
		res.Snapshot = snap
		res.Module = snap.Module
		if err := w.opts.Cache.Put(key, &DiskPayload{Path: f.Path, Module: snap.Module, Snapshot: snap}); err != nil {
			trace.Point(ctx, trace.ScopeDocument, "driver.cache_put_failed", err.Error())
		}
	}
	for _, d := range res.Snapshot.Diagnostics(f.ID) {
		res.Bag.Add(d)
	}
	return res, nil
}

func (w *Workspace) referencesDigest() project.Digest {
	var out []project.Digest
	seen := make(map[*Workspace]bool)
	var visit func(*Workspace)
	visit = func(ws *Workspace) {
		for _, ref := range ws.refs {
			if seen[ref] {
				continue
			}
			seen[ref] = true
			out = append(out, project.StringsDigest(ref.Name), workspaceDigest(ref.Files))
			visit(ref)
		}
	}
	visit(w)
	return project.Combine(project.Digest{}, out...)
}

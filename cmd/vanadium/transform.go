package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vanadium/internal/diag"
	"vanadium/internal/diagfmt"
	"vanadium/internal/driver"
)

var transformCmd = &cobra.Command{
	Use:   "transform [flags] [<file.asn|dir>...]",
	Short: "Lower ASN.1 modules into TTCN-3 type trees",
	Long: `Transform ingests every given file, resolves imports and information
object classes across the project, and prints the lowered TTCN-3 tree of
each module.`,
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().String("format", "tree", "output format (tree|text|msgpack|none)")
	transformCmd.Flags().String("out-dir", "", "write one file per module into this directory (required for msgpack)")
	transformCmd.Flags().Bool("spans", false, "append source ranges to tree nodes")
	transformCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	transformCmd.Flags().Bool("no-cache", false, "do not read or write the on-disk cache")
	transformCmd.Flags().Bool("clear-cache", false, "empty the on-disk cache before transforming")
}

type transformOptions struct {
	format string
	outDir string
	spans  bool
	ui     uiMode
	cache  bool
	clear  bool
}

func readTransformOptions(cmd *cobra.Command) (transformOptions, error) {
	var opts transformOptions
	var err error
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	opts.format = strings.ToLower(opts.format)
	switch opts.format {
	case "tree", "text", "msgpack", "none":
	default:
		return opts, fmt.Errorf("unsupported format %q (must be tree, text, msgpack or none)", opts.format)
	}
	if opts.outDir, err = cmd.Flags().GetString("out-dir"); err != nil {
		return opts, fmt.Errorf("failed to get out-dir flag: %w", err)
	}
	if opts.format == "msgpack" && opts.outDir == "" {
		return opts, fmt.Errorf("--format msgpack requires --out-dir")
	}
	if opts.spans, err = cmd.Flags().GetBool("spans"); err != nil {
		return opts, fmt.Errorf("failed to get spans flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiValue); err != nil {
		return opts, err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return opts, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	opts.cache = !noCache
	if opts.clear, err = cmd.Flags().GetBool("clear-cache"); err != nil {
		return opts, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	return opts, nil
}

func runTransform(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	opts, err := readTransformOptions(cmd)
	if err != nil {
		return err
	}
	files, err := s.inputs(args)
	if err != nil {
		return err
	}

	dopts := driver.Options{
		Jobs:           s.jobs,
		MaxDiagnostics: s.maxDiagnostics,
		Extensions:     s.extensions,
		Timer:          s.timer,
	}
	if opts.cache {
		cache, err := driver.OpenDiskCache("vanadium")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache disabled: %v\n", err)
		} else {
			dopts.Cache = cache
		}
		if opts.clear {
			if err := cache.Clear(); err != nil {
				return fmt.Errorf("clearing cache %s: %w", cache.Dir(), err)
			}
		}
	}

	var run transformRun
	if !s.quiet && shouldUseTUI(opts.ui) {
		run, err = runTransformWithUI(cmd.Context(), "transform", files, s.manifest, dopts)
	} else {
		run, err = transformProject(cmd.Context(), s.manifest, files, dopts)
	}
	if err != nil {
		return err
	}

	bags := make([]*diag.Bag, 0, len(run.results))
	for _, r := range run.results {
		bags = append(bags, r.Bag)
	}
	hasErrors := s.printDiagnostics(cmd, run.ws.FileSet, bags)

	if err := writeResults(cmd.OutOrStdout(), run.results, opts, s.useColor(os.Stdout)); err != nil {
		return err
	}
	if hasErrors {
		return errReported
	}
	return nil
}

func writeResults(out io.Writer, results []driver.FileResult, opts transformOptions, colorize bool) error {
	if opts.format == "none" {
		return nil
	}
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	for _, r := range results {
		if r.Snapshot == nil {
			continue
		}
		if opts.outDir == "" {
			if len(results) > 1 {
				fmt.Fprintf(out, "== %s ==\n", r.File.Path)
			}
			if err := writeSnapshot(out, r, opts, colorize); err != nil {
				return err
			}
			continue
		}
		path := filepath.Join(opts.outDir, outputName(r, opts.format))
		// #nosec G304 -- path is built from --out-dir
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		err = writeSnapshot(f, r, opts, false)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

func writeSnapshot(w io.Writer, r driver.FileResult, opts transformOptions, colorize bool) error {
	switch opts.format {
	case "msgpack":
		return diagfmt.EncodeSnapshot(w, r.Snapshot)
	case "text":
		return r.Snapshot.Dump(w)
	default:
		return diagfmt.Tree(w, r.Snapshot, diagfmt.TreeOpts{Color: colorize, Spans: opts.spans})
	}
}

// outputName names the file written for r: the module name when the file
// declared one, the input's base name otherwise.
func outputName(r driver.FileResult, format string) string {
	base := r.Module
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(r.File.Path), filepath.Ext(r.File.Path))
	}
	ext := ".txt"
	if format == "msgpack" {
		ext = ".msgpack"
	}
	return base + ext
}

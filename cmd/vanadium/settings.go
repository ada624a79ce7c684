package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vanadium/internal/compext"
	"vanadium/internal/diag"
	"vanadium/internal/diagfmt"
	"vanadium/internal/driver"
	"vanadium/internal/observ"
	"vanadium/internal/prof"
	"vanadium/internal/project"
	"vanadium/internal/source"
)

// settings are the persistent flags merged over the project manifest.
// Flags set on the command line always win.
type settings struct {
	colorMode      string
	quiet          bool
	timings        bool
	maxDiagnostics int
	jobs           int
	manifest       *project.Manifest
	extensions     *compext.Flags
	timer          *observ.Timer
	profile        *prof.Session
	cleanup        func(failed bool)
}

type settingsKey struct{}

func withSettings(ctx context.Context, s *settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

func settingsFrom(cmd *cobra.Command) *settings {
	if s, ok := cmd.Context().Value(settingsKey{}).(*settings); ok {
		return s
	}
	return &settings{colorMode: "auto", maxDiagnostics: 100, extensions: &compext.Flags{}}
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	pf := cmd.Root().PersistentFlags()
	s := &settings{}
	var err error
	if s.colorMode, err = pf.GetString("color"); err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch s.colorMode {
	case "auto", "on", "off":
	default:
		return nil, fmt.Errorf("invalid --color value %q (expected auto|on|off)", s.colorMode)
	}
	if s.quiet, err = pf.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = pf.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.jobs, err = pf.GetInt("jobs"); err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}

	if s.manifest, err = findManifest(cmd); err != nil {
		return nil, err
	}
	if s.manifest != nil && !pf.Changed("max-diagnostics") && s.manifest.Config.Diagnostics.Max > 0 {
		s.maxDiagnostics = s.manifest.Config.Diagnostics.Max
	}

	exts, err := pf.GetStringSlice("ext")
	if err != nil {
		return nil, fmt.Errorf("failed to get ext flag: %w", err)
	}
	if !pf.Changed("ext") && s.manifest != nil {
		exts = s.manifest.Config.Project.Extensions
	}
	s.extensions = &compext.Flags{}
	var unknown []string
	s.extensions.Set(exts, func(name string) { unknown = append(unknown, name) })
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown compiler extension %q (known: %s)", unknown[0], strings.Join(compext.Names(), ", "))
	}

	if s.timings {
		s.timer = observ.NewTimer()
	}
	return s, nil
}

func findManifest(cmd *cobra.Command) (*project.Manifest, error) {
	pf := cmd.Root().PersistentFlags()
	if off, _ := pf.GetBool("no-manifest"); off {
		return nil, nil
	}
	path, err := pf.GetString("manifest")
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest flag: %w", err)
	}
	if path != "" {
		return project.LoadFile(path)
	}
	m, _, err := project.Load(".")
	return m, err
}

// inputs expands the command line arguments into files. Without arguments
// the manifest's [project].sources directories are used.
func (s *settings) inputs(args []string) ([]string, error) {
	if len(args) == 0 {
		if s.manifest == nil {
			return nil, fmt.Errorf("no inputs: pass files or directories, or create %s", project.ManifestName)
		}
		args = s.manifest.SourceDirs()
	}
	return driver.ExpandInputs(args)
}

func (s *settings) useColor(f *os.File) bool {
	return s.colorMode == "on" || (s.colorMode == "auto" && isTerminal(f))
}

func (s *settings) prettyOpts() diagfmt.PrettyOpts {
	opts := diagfmt.PrettyOpts{
		Color:     s.useColor(os.Stderr),
		Context:   1,
		ShowNotes: true,
	}
	if s.manifest != nil {
		opts.BaseDir = s.manifest.Root
	} else if wd, err := os.Getwd(); err == nil {
		opts.BaseDir = wd
	}
	return opts
}

// printDiagnostics writes every bag to stderr and reports whether any
// error was among them.
func (s *settings) printDiagnostics(cmd *cobra.Command, fs *source.FileSet, bags []*diag.Bag) bool {
	hasErrors := false
	opts := s.prettyOpts()
	for _, bag := range bags {
		if bag.HasErrors() {
			hasErrors = true
		}
		if bag.Len() == 0 || (s.quiet && !bag.HasErrors()) {
			continue
		}
		bag.Sort()
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, opts)
	}
	return hasErrors
}

func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd, s.manifest)
	if err != nil {
		return err
	}
	s.cleanup = cleanup
	if s.profile, err = startProfiling(cmd); err != nil {
		s.cleanup(false)
		return err
	}
	cmd.SetContext(withSettings(cmd.Context(), s))
	active = s
	return nil
}

// active is the settings of the running command; shutdown releases them
// once Execute returns, whether or not the command failed.
var active *settings

// shutdown prints timings, stops profiling and closes the tracer. A
// failed run also dumps the trace ring, if one was kept.
func shutdown(out io.Writer, failed bool) {
	s := active
	active = nil
	if s == nil {
		return
	}
	if s.timer != nil && !s.quiet {
		printTimings(out, s.timer)
	}
	if err := s.profile.Stop(); err != nil {
		fmt.Fprintf(out, "profile: %v\n", err)
	}
	if s.cleanup != nil {
		s.cleanup(failed)
	}
}

func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	pf := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = pf.GetString("cpuprofile"); err != nil {
		return nil, fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	if opts.Mem, err = pf.GetString("memprofile"); err != nil {
		return nil, fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	if opts.Trace, err = pf.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil, nil
	}
	return prof.Start(opts)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vanadium/internal/diag"
	"vanadium/internal/diagfmt"
	"vanadium/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] [<file.asn|dir>...]",
	Short: "Ingest ASN.1 modules and report syntax errors",
	Long: `Parse ingests every given file (directories are searched for .asn and
.asn1 files) and reports load and syntax errors. Nothing is lowered.
Without arguments the [project].sources directories of the manifest are
parsed.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	files, err := s.inputs(args)
	if err != nil {
		return err
	}
	ws, err := driver.LoadProject(cmd.Context(), s.manifest, files, driver.Options{
		Jobs:           s.jobs,
		MaxDiagnostics: s.maxDiagnostics,
		Extensions:     s.extensions,
		Timer:          s.timer,
	})
	if err != nil {
		return err
	}

	results := ws.ParseDiagnostics()
	bags := make([]*diag.Bag, 0, len(results))
	for _, r := range results {
		bags = append(bags, r.Bag)
	}

	if format == "json" {
		merged := diag.NewBag(s.maxDiagnostics)
		for _, bag := range bags {
			merged.Merge(bag)
		}
		merged.Dedup()
		merged.Sort()
		opts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeAuto,
			BaseDir:          s.prettyOpts().BaseDir,
			IncludeNotes:     true,
		}
		if err := diagfmt.JSON(cmd.OutOrStdout(), merged, ws.FileSet, opts); err != nil {
			return err
		}
		if merged.HasErrors() {
			return errReported
		}
		return nil
	}

	if s.printDiagnostics(cmd, ws.FileSet, bags) {
		return errReported
	}
	if !s.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "parsed %d file(s), no errors\n", len(results))
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vanadium/internal/compext"
	"vanadium/internal/project"
	"vanadium/internal/version"
)

// errReported is returned by commands that already printed their errors
// as diagnostics; main only turns it into the exit status.
var errReported = errors.New("errors were reported")

var rootCmd = &cobra.Command{
	Use:   "vanadium",
	Short: "ASN.1 to TTCN-3 lowering toolchain",
	Long: `vanadium ingests ASN.1 modules, resolves imports and information object
classes across them, and lowers every module into a TTCN-3 type tree.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show per file")
	pf.Int("jobs", 0, "max parallel workers (0=auto)")
	pf.String("manifest", "", "path to "+project.ManifestName+" (default: search upward from the working directory)")
	pf.Bool("no-manifest", false, "ignore any "+project.ManifestName)
	pf.StringSlice("ext", nil, "enable compiler extensions ("+strings.Join(compext.Names(), ", ")+")")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "ring buffer size for --trace-mode ring|both")

	pf.String("cpuprofile", "", "write a CPU profile to this file")
	pf.String("memprofile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	rootCmd.Version = version.Version
	err := rootCmd.Execute()
	shutdown(os.Stderr, err != nil)
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "vanadium: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}

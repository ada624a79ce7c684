// Package version holds build metadata for the vanadium CLI. The variables
// are overridden at build time via -ldflags "-X vanadium/internal/version.Version=...".
package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Banner renders "vanadium <version> (<commit>, <date>)". The numeric parts
// of the version are colored when colorize is set.
func Banner(colorize bool) string {
	v := Version
	if colorize {
		v = colorVersion(v)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "vanadium %s", v)
	var meta []string
	if GitCommit != "" {
		meta = append(meta, GitCommit)
	}
	if BuildDate != "" {
		meta = append(meta, BuildDate)
	}
	if len(meta) > 0 {
		fmt.Fprintf(&sb, " (%s)", strings.Join(meta, ", "))
	}
	return sb.String()
}

// colorVersion paints MAJOR.MINOR.PATCH and leaves any suffix plain.
func colorVersion(v string) string {
	core, suffix := v, ""
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, suffix = v[:i], v[i:]
	}
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return v
	}
	return majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2]) + suffix
}

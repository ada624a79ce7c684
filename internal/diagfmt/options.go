package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows paths relative to BaseDir when they are inside it.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int8 // lines shown above the primary line
	PathMode  PathMode
	BaseDir   string
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // add line/col
	PathMode         PathMode
	BaseDir          string
	Max              int // truncates the output, not the Bag
	IncludeNotes     bool
}

// TreeOpts configures the target tree printer.
type TreeOpts struct {
	Color bool
	Spans bool // append line:col ranges
}

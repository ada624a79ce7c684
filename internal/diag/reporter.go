package diag

import "vanadium/internal/source"

// Reporter is the sink the lexer and parser emit diagnostics into.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// ReportError sends an error to r. A nil r discards it.
func ReportError(r Reporter, code Code, primary source.Span, msg string) {
	if r != nil {
		r.Report(NewError(code, primary, msg))
	}
}

// BagReporter writes into a Bag, attributing everything to File.
type BagReporter struct {
	Bag  *Bag
	File source.FileID
}

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d.InFile(r.File))
	}
}

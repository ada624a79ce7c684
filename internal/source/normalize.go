package source

import (
	"path/filepath"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// FileFlags records how a file's bytes were rewritten on the way in.
type FileFlags uint8

const (
	// FileVirtual marks a file added from memory rather than read from disk.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

// Normalize prepares raw file bytes for ingestion: it strips a UTF-8 BOM,
// folds CRLF into LF and brings the text into Unicode NFC. The returned
// flags record which of these rewrites happened.
func Normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags

	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	if !norm.NFC.IsNormal(content) {
		content = norm.NFC.Bytes(content)
		flags |= FileNormalizedNFC
	}
	return content, flags
}

// normalizeCRLF replaces every \r\n with \n and leaves lone \r alone.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// NormalizePath gives paths one spelling across platforms, for use as
// document keys.
func NormalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"vanadium/internal/source"
)

// SourceExts are the extensions picked up when a directory is expanded.
var SourceExts = []string{".asn", ".asn1"}

func isSourceFile(path string) bool {
	return slices.Contains(SourceExts, strings.ToLower(filepath.Ext(path)))
}

// ListSourceFiles returns the sorted module files under dir.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isSourceFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// ExpandInputs turns command line arguments into a file list. Directories
// are walked; files are kept whatever their extension. Duplicates are
// dropped, first occurrence wins. Paths come back normalized, matching
// the keys the workspace reports progress under.
func ExpandInputs(args []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		key := source.NormalizePath(p)
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		files, err := ListSourceFiles(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}

package driver

import (
	"slices"

	"vanadium/internal/compext"
	"vanadium/internal/project"
)

// workspaceDigest hashes every loaded file in path order. A lowered module
// may depend on any module of the workspace, so every cache key includes it.
func workspaceDigest(files []*File) project.Digest {
	sorted := slices.Clone(files)
	slices.SortFunc(sorted, func(a, b *File) int {
		switch {
		case a.Path < b.Path:
			return -1
		case a.Path > b.Path:
			return 1
		}
		return 0
	})
	var hashes []project.Digest
	for _, f := range sorted {
		if f.Loaded() {
			hashes = append(hashes, project.StringsDigest(f.Path), f.Hash)
		}
	}
	return project.Combine(project.Digest{}, hashes...)
}

func extensionsDigest(flags *compext.Flags) project.Digest {
	var on []string
	for _, name := range compext.Names() {
		if flags.Enabled(name) {
			on = append(on, name)
		}
	}
	return project.StringsDigest(on...)
}

// cacheKey is H(content || extensions || workspace || references).
func cacheKey(content, ext, workspace, refs project.Digest) project.Digest {
	return project.Combine(content, ext, workspace, refs)
}

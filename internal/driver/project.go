package driver

import (
	"context"
	"fmt"

	"vanadium/internal/project"
)

// LoadProject loads paths as the main workspace, builds one workspace per
// [external.<name>] table of m and wires the references the manifest
// declares. A nil manifest loads paths alone.
func LoadProject(ctx context.Context, m *project.Manifest, paths []string, opts Options) (*Workspace, error) {
	if m == nil {
		return Load(ctx, "", paths, opts)
	}
	if opts.Extensions == nil {
		opts.Extensions = m.Extensions()
	}

	externals := make(map[string]*Workspace, len(m.Config.External))
	for _, name := range m.ExternalNames() {
		dir := m.Resolve(m.Config.External[name].Path)
		files, err := ListSourceFiles(dir)
		if err != nil {
			return nil, fmt.Errorf("external %q: %w", name, err)
		}
		extOpts := opts
		extOpts.Progress = nil
		ws, err := Load(ctx, name, files, extOpts)
		if err != nil {
			return nil, fmt.Errorf("external %q: %w", name, err)
		}
		externals[name] = ws
	}
	for _, name := range m.ExternalNames() {
		for _, ref := range m.Config.External[name].References {
			externals[name].AddReference(externals[ref])
		}
	}

	main, err := Load(ctx, m.Config.Project.Name, paths, opts)
	if err != nil {
		return main, err
	}
	for _, ref := range m.Config.Project.References {
		main.AddReference(externals[ref])
	}
	return main, nil
}

package project

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"vanadium/internal/compext"
)

// ManifestName is the file name of a project manifest.
const ManifestName = ".vanadiumrc.toml"

var (
	// ErrProjectSectionMissing indicates that [project] is missing.
	ErrProjectSectionMissing = errors.New("missing [project]")
	// ErrProjectNameMissing indicates that [project].name is missing.
	ErrProjectNameMissing = errors.New("missing [project].name")
	// ErrUnknownReference indicates a reference to an undeclared [external.<name>] table.
	ErrUnknownReference = errors.New("unknown reference")
	// ErrUnknownExtension indicates a compiler extension name that is not known.
	ErrUnknownExtension = errors.New("unknown compiler extension")
)

// Manifest is a loaded project manifest.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest file.
type Config struct {
	Project     ProjectConfig             `toml:"project"`
	External    map[string]ExternalConfig `toml:"external"`
	Diagnostics DiagnosticsConfig         `toml:"diagnostics"`
	Trace       TraceConfig               `toml:"trace"`
}

// ProjectConfig is the [project] table.
type ProjectConfig struct {
	Name       string   `toml:"name"`
	Sources    []string `toml:"sources"`
	References []string `toml:"references"`
	Extensions []string `toml:"extensions"`
}

// ExternalConfig describes a directory of modules the project can import
// from. Each external gets its own basket.
type ExternalConfig struct {
	Path       string   `toml:"path"`
	References []string `toml:"references"`
}

// DiagnosticsConfig is the [diagnostics] table.
type DiagnosticsConfig struct {
	Max int `toml:"max"`
}

// TraceConfig is the [trace] table. Values use the --trace-* flag syntax.
type TraceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

// Load loads the nearest manifest in startDir or one of its parents. ok
// is false when there is none up to the filesystem root.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadFile(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadFile decodes and validates the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectSectionMissing)
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectNameMissing)
	}
	if err := checkReferences(cfg.Project.References, cfg.External); err != nil {
		return nil, fmt.Errorf("%s: [project].references: %w", path, err)
	}
	for name, ext := range cfg.External {
		if strings.TrimSpace(ext.Path) == "" {
			return nil, fmt.Errorf("%s: missing [external.%s].path", path, name)
		}
		if err := checkReferences(ext.References, cfg.External); err != nil {
			return nil, fmt.Errorf("%s: [external.%s].references: %w", path, name, err)
		}
	}
	if err := checkExtensions(cfg.Project.Extensions); err != nil {
		return nil, fmt.Errorf("%s: [project].extensions: %w", path, err)
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

func checkReferences(refs []string, known map[string]ExternalConfig) error {
	for _, ref := range refs {
		if _, ok := known[ref]; !ok {
			return fmt.Errorf("%w %q", ErrUnknownReference, ref)
		}
	}
	return nil
}

func checkExtensions(names []string) error {
	var unknown []string
	var flags compext.Flags
	flags.Set(names, func(name string) { unknown = append(unknown, name) })
	if len(unknown) > 0 {
		return fmt.Errorf("%w %q (known: %s)", ErrUnknownExtension, unknown[0], strings.Join(compext.Names(), ", "))
	}
	return nil
}

// Extensions returns the compiler extension flags the manifest enables.
func (m *Manifest) Extensions() *compext.Flags {
	flags := &compext.Flags{}
	if m != nil {
		flags.Set(m.Config.Project.Extensions, nil)
	}
	return flags
}

// Resolve makes a manifest-relative path absolute.
func (m *Manifest) Resolve(rel string) string {
	rel = filepath.FromSlash(strings.TrimSpace(rel))
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(m.Root, rel)
}

// SourceDirs returns the directories holding the project's own modules.
// With no [project].sources the manifest directory is used.
func (m *Manifest) SourceDirs() []string {
	if len(m.Config.Project.Sources) == 0 {
		return []string{m.Root}
	}
	dirs := make([]string, 0, len(m.Config.Project.Sources))
	for _, s := range m.Config.Project.Sources {
		dirs = append(dirs, m.Resolve(s))
	}
	return dirs
}

// ExternalNames returns the declared external names, sorted.
func (m *Manifest) ExternalNames() []string {
	names := make([]string, 0, len(m.Config.External))
	for name := range m.Config.External {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func findManifest(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(cmp.Or(startDir, "."))
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for ; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, ManifestName)
		_, err := os.Stat(candidate)
		switch {
		case err == nil:
			return candidate, true, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		if filepath.Dir(dir) == dir {
			return "", false, nil
		}
	}
}

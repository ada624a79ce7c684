package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sync"

	"fortio.org/safecast"
)

// FileID identifies one version of a file within a FileSet.
type FileID uint32

// File is one loaded ASN.1 document. Content is already normalized, so
// spans reported against it line up with what the parser saw.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Lines   LineIndex
	Hash    [32]byte
	Flags   FileFlags
}

// Text returns the content as a string.
func (f *File) Text() string {
	return string(f.Content)
}

// Line returns the 1-based line n without its terminator, or "" when it
// does not exist.
func (f *File) Line(n uint32) string {
	if n == 0 || int(n) > f.Lines.Lines() {
		return ""
	}
	return f.Lines.LineSpan(n).Text(string(f.Content))
}

// FileSet owns the module files loaded by the driver. Files are never
// removed; re-adding a path creates a new version and repoints the index.
// FileSet is safe for concurrent use.
type FileSet struct {
	mu    sync.RWMutex
	files []*File
	index map[string]FileID // path -> latest id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]*File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores already-normalized content, computes its line index and hash,
// and returns a new FileID.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lines := NewLineIndex(string(content))
	normalizedPath := NormalizePath(path)

	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, &File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		Lines:   lines,
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a file from disk, normalizes it and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(content)
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory file with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	content, flags := Normalize(content)
	return fileSet.Add(name, content, flags|FileVirtual)
}

// Get returns the file for id, or nil when id is unknown.
func (fileSet *FileSet) Get(id FileID) *File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return fileSet.files[id]
}

// Lookup returns the newest version of path.
func (fileSet *FileSet) Lookup(path string) (FileID, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	id, ok := fileSet.index[NormalizePath(path)]
	return id, ok
}

// Len returns the number of stored file versions.
func (fileSet *FileSet) Len() int {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return len(fileSet.files)
}

// Resolve converts a span of file id into line/column positions.
func (fileSet *FileSet) Resolve(id FileID, span Span) (start, end LineCol) {
	f := fileSet.Get(id)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.Lines.Position(span.Start), f.Lines.Position(span.End)
}

package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"vanadium/internal/diagfmt"
	"vanadium/internal/project"
)

// cacheSchema is bumped when DiskPayload changes shape.
const cacheSchema uint16 = 2

// ErrCacheMismatch marks an entry whose header does not match the key it
// was read under.
var ErrCacheMismatch = errors.New("cache entry does not match its key")

// DiskCache keeps lowered module snapshots between runs. An entry is
// addressed by the digest of everything lowering depends on, so it never
// needs invalidation; it is simply no longer asked for. Entries are
// sharded by the first key byte. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached lowering. Key repeats the digest the entry is
// stored under.
type DiskPayload struct {
	Schema   uint16
	Key      project.Digest
	Path     string
	Module   string
	Snapshot *diagfmt.Snapshot
}

// OpenDiskCache opens the cache for app in the user cache directory.
func OpenDiskCache(app string) (*DiskCache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("module cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory, "" for a nil cache.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) entryPath(key project.Digest) string {
	name := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, name[:2], name[2:]+".msgpack")
}

// Put stores payload under key. The entry is written to a temporary file
// and renamed into place, so readers never see a partial entry.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	payload.Schema = cacheSchema
	payload.Key = key
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("module cache: encode %s: %w", payload.Path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".put-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Get loads the entry for key into out. An absent entry, or one written
// by another schema, is a miss. An entry that fails to decode or carries
// another key is reported as an error; callers rebuild it.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	data, err := os.ReadFile(c.entryPath(key))
	c.mu.RUnlock()
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("module cache: decode: %w", err)
	}
	if out.Schema != cacheSchema || out.Snapshot == nil || out.Snapshot.Schema != diagfmt.SnapshotSchema {
		return false, nil
	}
	if out.Key != key {
		return false, ErrCacheMismatch
	}
	return true, nil
}

// Remove deletes the entry for key, if any.
func (c *DiskCache) Remove(key project.Digest) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.Remove(c.entryPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes every entry. The cache stays usable.
func (c *DiskCache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	var errs []error
	for _, e := range entries {
		errs = append(errs, os.RemoveAll(filepath.Join(c.dir, e.Name())))
	}
	return errors.Join(errs...)
}

package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"binder/internal/parser"
	"binder/internal/project"
)

// Current schema version - increment when FileSummary format changes
const cacheSchemaVersion uint16 = 1

// DiskCache хранит FileSummary по ключу CacheKey на диске, с копией в
// памяти на время процесса. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
	mem map[project.Digest]*FileSummary
}

// OpenDiskCache opens $XDG_CACHE_HOME/<app>/files, falling back to
// ~/.cache when the variable is unset.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(filepath.Join(dir, "files"), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &DiskCache{dir: dir, mem: make(map[project.Digest]*FileSummary)}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

// CacheKey hashes everything a file summary depends on: the content, the
// source type and the check options that change which diagnostics appear.
func CacheKey(content []byte, st parser.SourceType, opts *Options) project.Digest {
	h := sha256.New()
	var schema [2]byte
	binary.BigEndian.PutUint16(schema[:], cacheSchemaVersion)
	_, _ = h.Write(schema[:])
	_, _ = h.Write([]byte(st.String()))
	_, _ = h.Write([]byte{0})
	if opts != nil {
		// the summary holds the bounded bag, so a lower limit stores fewer items
		var limit [8]byte
		binary.BigEndian.PutUint64(limit[:], uint64(max(0, opts.maxDiagnostics())))
		_, _ = h.Write(limit[:])
	}
	if opts != nil && opts.ReportUnresolved {
		globals := slices.Clone(opts.Config.Check.Globals)
		slices.Sort(globals)
		_, _ = h.Write([]byte("unresolved"))
		for _, g := range globals {
			_, _ = h.Write([]byte(g))
			_, _ = h.Write([]byte{0})
		}
	}
	_, _ = h.Write(content)
	var out project.Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "files", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a summary to the disk cache.
func (c *DiskCache) Put(key project.Digest, sum *FileSummary) (err error) {
	if c == nil || sum == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(sum); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err = os.Rename(f.Name(), p); err != nil {
		return err
	}
	c.mem[key] = sum
	return nil
}

// Get reads a summary. A file written by another schema version is a miss.
func (c *DiskCache) Get(key project.Digest, out *FileSummary) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if sum, ok := c.mem[key]; ok {
		*out = *sum
		return true, nil
	}
	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var sum FileSummary
	if err := msgpack.NewDecoder(f).Decode(&sum); err != nil {
		return false, fmt.Errorf("decode %s: %w", f.Name(), err)
	}
	if sum.Schema != cacheSchemaVersion {
		return false, nil
	}
	*out = sum
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	clear(c.mem)
	if err := os.MkdirAll(filepath.Join(c.dir, "files"), 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

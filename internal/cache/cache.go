// Package cache implements a content-addressed disk cache of per-file
// PARSE results. compile() never reads from it (spec §1 Non-goals rule out incremental
// compilation in v1); internal/compiler only writes to it, after a
// successful compile, to prove the data model doesn't preclude a future
// incremental driver memoising by content hash (spec §9).
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Digest is a SHA-256 content hash, used both as the cache key and as
// the payload's own record of what it was computed from.
type Digest [32]byte

// HashContent derives the Digest of a file's raw bytes.
func HashContent(content []byte) Digest {
	return sha256.Sum256(content)
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// schemaVersion guards against decoding a payload written by an
// incompatible future release of the cache format.
const schemaVersion uint16 = 1

// Payload is what gets stored per file. It is deliberately thin: Urd's
// v1 cache exists to prove the shape, not to serve a real incremental
// compile, so it stores just enough to let a future driver decide
// whether a file's parse is still valid without re-reading it.
type Payload struct {
	Schema uint16

	// Path is the file's normalised path within its compilation unit.
	Path string

	// ContentHash is the digest this payload was stored under; kept
	// inline too so a payload read back out of context is still
	// self-describing.
	ContentHash Digest

	// SectionCount, LocationCount and so on are cheap structural
	// fingerprints of the parsed file — enough for a future driver to
	// sanity-check a cached entry without re-parsing, without this v1
	// cache having to serialise (and version) the full AST.
	SectionCount  int
	LocationCount int
	ChoiceCount   int

	// Broken records whether this file's parse produced any
	// error-severity diagnostic, so a future incremental driver knows
	// not to trust a cached "clean" result for a file that never
	// actually compiled cleanly.
	Broken bool
}

// Disk is a thread-safe, content-addressed store of Payload values under
// a base directory, one file per digest.
type Disk struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes a disk cache rooted at dir, creating it if absent.
func Open(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{dir: dir}, nil
}

// OpenDefault initializes a disk cache at the platform's standard cache
// location ($XDG_CACHE_HOME, falling back to ~/.cache).
func OpenDefault() (*Disk, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return Open(filepath.Join(base, "urdc"))
}

func (c *Disk) pathFor(key Digest) string {
	return filepath.Join(c.dir, "files", key.String()+".mp")
}

// Put serialises and atomically writes a payload for key.
func (c *Disk) Put(key Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

// Get reads and deserialises the payload for key, if present.
func (c *Disk) Get(key Digest) (*Payload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != schemaVersion {
		return nil, false, nil
	}
	return &payload, true, nil
}

// DropAll invalidates every cached entry, useful after a schema bump.
func (c *Disk) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(c.dir)
}

// NewPayload builds the payload this cache stores for path given its raw
// content and the structural counts the caller already computed while
// compiling it.
func NewPayload(path string, content []byte, sections, locations, choices int, broken bool) *Payload {
	return &Payload{
		Schema:        schemaVersion,
		Path:          path,
		ContentHash:   HashContent(content),
		SectionCount:  sections,
		LocationCount: locations,
		ChoiceCount:   choices,
		Broken:        broken,
	}
}

// Key is a convenience alias so callers outside this package don't need
// to import crypto/sha256 themselves just to compute a cache key.
func Key(content []byte) Digest { return HashContent(content) }

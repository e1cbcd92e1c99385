package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"expandc/internal/catalog"
	"expandc/internal/project"
	"expandc/internal/source"
	"expandc/internal/symbols"
	"expandc/internal/types"
)

// Current schema version - increment when the snapshot format changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache persists built constructor catalogs keyed by workspace
// digest. IDs inside a snapshot are only meaningful together with the
// manifest they were derived from; the digest key guarantees the
// manifest bytes are identical, so the interner assigns the same IDs
// on reload. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type snapshotCandidate struct {
	Ctor       uint32
	Owner      uint32
	Labels     []uint32
	Params     []uint32
	Visibility uint8
	Module     uint32
	File       uint32
	SpanFile   uint32
	SpanStart  uint32
	SpanEnd    uint32
}

type snapshotEntry struct {
	Owner      uint32
	CtxModule  uint32
	CtxFile    uint32
	AsOf       uint32
	Candidates []snapshotCandidate
}

type snapshotPayload struct {
	Schema  uint16
	Entries []snapshotEntry
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
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

// OpenDiskCacheAt initializes a disk cache rooted at dir. Tests use it
// to keep cache files under t.TempDir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key [32]byte) string {
	// Для удобства читаемости/очистки — подкаталог "catalogs".
	return filepath.Join(c.dir, "catalogs", hex.EncodeToString(key[:])+".mp")
}

// Put serializes the cache's built catalogs under the workspace digest.
// The write is atomic: encode to a temp file, then rename into place.
func (c *DiskCache) Put(ws *project.Workspace, cache *catalog.Cache) error {
	if c == nil || ws == nil || cache == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := snapshotPayload{Schema: diskCacheSchemaVersion}
	for key, cands := range cache.Snapshot() {
		entry := snapshotEntry{
			Owner:     uint32(key.Owner),
			CtxModule: uint32(key.Ctx.Module),
			CtxFile:   uint32(key.Ctx.File),
			AsOf:      uint32(key.AsOf),
		}
		for _, cand := range cands {
			entry.Candidates = append(entry.Candidates, encodeCandidate(cand))
		}
		payload.Entries = append(payload.Entries, entry)
	}

	p := c.pathFor(ws.Digest)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads the catalogs stored under the workspace digest. The boolean
// reports whether a usable snapshot existed; a stale schema reads as a
// miss with an error the caller may log.
func (c *DiskCache) Get(ws *project.Workspace) (map[catalog.Key][]catalog.Candidate, bool, error) {
	if c == nil || ws == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(ws.Digest))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload snapshotPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false, fmt.Errorf("catalog snapshot schema %d, want %d", payload.Schema, diskCacheSchemaVersion)
	}

	out := make(map[catalog.Key][]catalog.Candidate, len(payload.Entries))
	for _, entry := range payload.Entries {
		key := catalog.Key{
			Owner: types.TypeID(entry.Owner),
			Ctx: symbols.Context{
				Module: symbols.ModuleID(entry.CtxModule),
				File:   source.FileID(entry.CtxFile),
			},
			AsOf: symbols.Tick(entry.AsOf),
		}
		cands := make([]catalog.Candidate, 0, len(entry.Candidates))
		for _, sc := range entry.Candidates {
			cands = append(cands, decodeCandidate(sc))
		}
		out[key] = cands
	}
	return out, true, nil
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

func encodeCandidate(cand catalog.Candidate) snapshotCandidate {
	sc := snapshotCandidate{
		Ctor:       uint32(cand.Ctor),
		Owner:      uint32(cand.Owner),
		Visibility: uint8(cand.Visibility),
		Module:     uint32(cand.Module),
		File:       uint32(cand.File),
		SpanFile:   uint32(cand.Span.File),
		SpanStart:  cand.Span.Start,
		SpanEnd:    cand.Span.End,
	}
	for _, l := range cand.Labels {
		sc.Labels = append(sc.Labels, uint32(l))
	}
	for _, p := range cand.Params {
		sc.Params = append(sc.Params, uint32(p))
	}
	return sc
}

func decodeCandidate(sc snapshotCandidate) catalog.Candidate {
	cand := catalog.Candidate{
		Ctor:       symbols.CtorID(sc.Ctor),
		Owner:      types.TypeID(sc.Owner),
		Visibility: symbols.Visibility(sc.Visibility),
		Module:     symbols.ModuleID(sc.Module),
		File:       source.FileID(sc.File),
		Span: source.Span{
			File:  source.FileID(sc.SpanFile),
			Start: sc.SpanStart,
			End:   sc.SpanEnd,
		},
	}
	for _, l := range sc.Labels {
		cand.Labels = append(cand.Labels, source.StringID(l))
	}
	for _, p := range sc.Params {
		cand.Params = append(cand.Params, types.TypeID(p))
	}
	return cand
}

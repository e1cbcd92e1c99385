package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sort"

	"fortio.org/safecast"
)

// FileSet manages the files referenced by spans and resolves byte offsets
// into line/column positions.
type FileSet struct {
	files []File
	index map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a file from memory, computes its line index and hash, and
// returns a fresh FileID. Re-adding the same path yields a new ID and the
// index points at the latest version.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len(files) overflow: %w", err))
	}
	id := FileID(lenFiles)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[path] = id
	return id
}

// Load reads a file from disk and adds it to the set.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	return fs.Add(path, content, 0), nil
}

// Get returns the file for an ID, or nil when the ID is unknown.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// PathOf returns the path for an ID, or "" when unknown.
func (fs *FileSet) PathOf(id FileID) string {
	if f := fs.Get(id); f != nil {
		return f.Path
	}
	return ""
}

// Len returns the number of files in the set.
func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Resolve maps a byte offset inside a file to a 1-based line/column pair.
func (fs *FileSet) Resolve(id FileID, offset uint32) (LineCol, bool) {
	f := fs.Get(id)
	if f == nil || int(offset) > len(f.Content) {
		return LineCol{}, false
	}
	line := sort.Search(len(f.LineIdx), func(i int) bool {
		return f.LineIdx[i] > offset
	})
	// line is 1-based already: LineIdx[0] == 0 is the start of line 1.
	start := f.LineIdx[line-1]
	return LineCol{
		Line: uint32(line),
		Col:  offset - start + 1,
	}, true
}

// LineContent returns the raw bytes of the 1-based line, without the
// trailing newline.
func (fs *FileSet) LineContent(id FileID, line uint32) ([]byte, bool) {
	f := fs.Get(id)
	if f == nil || line == 0 || int(line) > len(f.LineIdx) {
		return nil, false
	}
	start := f.LineIdx[line-1]
	end := uint32(len(f.Content))
	if int(line) < len(f.LineIdx) {
		end = f.LineIdx[line] - 1
	}
	if end < start {
		end = start
	}
	return f.Content[start:end], true
}

func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 1, 16)
	idx[0] = 0
	for off, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(off)+1)
		}
	}
	return idx
}

package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns every loaded File and assigns stable FileIDs by canonical path.
type FileSet struct {
	files []File
	index map[string]FileID
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID, 16)}
}

// AddText registers in-memory source text under path, creating a fresh FileID
// even if path was already loaded (callers that want caching use Lookup first).
func (fs *FileSet) AddText(path string, text []byte) FileID {
	canon := normalize(path)
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: file set overflow: %w", err))
	}
	id := FileID(n + 1)
	fs.files = append(fs.files, File{ID: id, Path: canon, Text: text})
	fs.index[canon] = id
	return id
}

// LoadFile reads path from disk and registers it, reusing a cached FileID
// when the canonical path was already loaded.
func (fs *FileSet) LoadFile(path string) (FileID, error) {
	canon := normalize(path)
	if id, ok := fs.index[canon]; ok {
		return id, nil
	}
	text, err := os.ReadFile(canon)
	if err != nil {
		return NoFileID, fmt.Errorf("source: read %s: %w", canon, err)
	}
	return fs.AddText(canon, text), nil
}

// Lookup returns the FileID already assigned to path, if any.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.index[normalize(path)]
	return id, ok
}

// Get returns the File for id.
func (fs *FileSet) Get(id FileID) (*File, bool) {
	if !id.IsValid() || int(id) > len(fs.files) {
		return nil, false
	}
	return &fs.files[id-1], true
}

// Text returns the bytes of span's file sliced to the span, or nil if the
// file or offsets are invalid.
func (fs *FileSet) Text(span Span) []byte {
	f, ok := fs.Get(span.File)
	if !ok || int(span.End) > len(f.Text) || span.Start > span.End {
		return nil
	}
	return f.Text[span.Start:span.End]
}

func normalize(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(path)
}

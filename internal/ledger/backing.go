package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Backing is the byte-level medium a CSVStore persists to.
type Backing interface {
	// Exists reports whether the record set has been created.
	Exists() (bool, error)
	// Open returns a reader over the whole record set.
	Open() (io.ReadCloser, error)
	// Append lets write add bytes at the end of the record set.
	Append(write func(io.Writer) error) error
	// Replace swaps the whole record set for what write produces. A failed
	// write leaves the previous contents in place.
	Replace(write func(io.Writer) error) error
}

// FileBacking stores the record set in a file on disk.
type FileBacking struct {
	Path string
}

// NewFileBacking returns a FileBacking for path.
func NewFileBacking(path string) *FileBacking {
	return &FileBacking{Path: path}
}

func (b *FileBacking) Exists() (bool, error) {
	_, err := os.Stat(b.Path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", b.Path, err)
}

func (b *FileBacking) Open() (io.ReadCloser, error) {
	f, err := os.Open(b.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", b.Path, err)
	}
	return f, nil
}

func (b *FileBacking) Append(write func(io.Writer) error) error {
	f, err := os.OpenFile(b.Path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", b.Path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync %s: %w", b.Path, err)
	}
	return f.Close()
}

// Replace writes to a temporary file in the same directory and renames it
// over the original.
func (b *FileBacking) Replace(write func(io.Writer) error) error {
	dir := filepath.Dir(b.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(b.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if err := write(tmp); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", b.Path, err)
	}
	return nil
}

// MemBacking keeps the record set in memory.
type MemBacking struct {
	mu     sync.Mutex
	data   []byte
	exists bool
}

// NewMemBacking returns an empty, not yet created MemBacking.
func NewMemBacking() *MemBacking {
	return &MemBacking{}
}

// NewMemBackingFrom returns a MemBacking that already holds data.
func NewMemBackingFrom(data []byte) *MemBacking {
	return &MemBacking{data: append([]byte(nil), data...), exists: true}
}

func (b *MemBacking) Exists() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exists, nil
}

func (b *MemBacking) Open() (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.exists {
		return nil, fmt.Errorf("open memory backing: %w", fs.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(append([]byte(nil), b.data...))), nil
}

func (b *MemBacking) Append(write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, buf.Bytes()...)
	b.exists = true
	return nil
}

func (b *MemBacking) Replace(write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = buf.Bytes()
	b.exists = true
	return nil
}

// Bytes returns a copy of the stored record set.
func (b *MemBacking) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.data...)
}

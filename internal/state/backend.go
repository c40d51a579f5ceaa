package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by a Backend when no document exists at a path.
var ErrNotFound = errors.New("document not found")

// ErrOutsideRoot is returned when a path resolves outside the storage root.
var ErrOutsideRoot = errors.New("path is outside the storage root")

// Backend reads and writes raw document bytes.
// Write must be atomic: a concurrent Read sees either the old or the new bytes.
type Backend interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
}

// FileBackend stores documents as files below a root directory.
type FileBackend struct {
	root string
}

// NewFileBackend creates a FileBackend rooted at root. An empty root means the
// current directory.
func NewFileBackend(root string) *FileBackend {
	if root == "" {
		root = "."
	}
	return &FileBackend{root: root}
}

// Root returns the storage root as given.
func (b *FileBackend) Root() string {
	return b.root
}

// Resolve maps path to an absolute file path under the root.
// Relative paths are taken relative to the root. Absolute paths are allowed
// only when they fall inside it.
func (b *FileBackend) Resolve(path string) (string, error) {
	root, err := filepath.Abs(b.root)
	if err != nil {
		return "", fmt.Errorf("resolving storage root: %w", err)
	}
	if path == "" {
		path = DefaultPath
	}

	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(root, full)
	}
	full = filepath.Clean(full)

	rel, err := filepath.Rel(root, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return full, nil
}

// Read returns the file contents at path.
func (b *FileBackend) Read(_ context.Context, path string) ([]byte, error) {
	full, err := b.Resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// Write stores data at path, creating parent directories as needed.
func (b *FileBackend) Write(_ context.Context, path string, data []byte) error {
	full, err := b.Resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return atomicWrite(full, data)
}

// atomicWrite writes data to path using write-to-temp-then-rename.
// The temp file is created in the same directory as path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write data: %w", err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

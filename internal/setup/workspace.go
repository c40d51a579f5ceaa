package setup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Workspace is the filesystem boundary the setup flow works through.
type Workspace interface {
	// EnsureDir creates path and its parents if they do not exist.
	EnsureDir(path string) error
	// List returns the names of the entries in path, sorted.
	List(path string) ([]string, error)
}

// ErrOutsideWorkspace is returned for paths that resolve outside the root.
var ErrOutsideWorkspace = errors.New("path is outside the workspace")

// OSWorkspace is a Workspace on the local filesystem, confined to Root.
type OSWorkspace struct {
	Root string
}

// NewOSWorkspace creates an OSWorkspace. An empty root means the current directory.
func NewOSWorkspace(root string) *OSWorkspace {
	if root == "" {
		root = "."
	}
	return &OSWorkspace{Root: root}
}

// EnsureDir creates path below the root.
func (w *OSWorkspace) EnsureDir(path string) error {
	full, err := w.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(full, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return nil
}

// List returns the entry names in path below the root.
func (w *OSWorkspace) List(path string) ([]string, error) {
	full, err := w.resolve(path)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (w *OSWorkspace) resolve(path string) (string, error) {
	root, err := filepath.Abs(w.Root)
	if err != nil {
		return "", fmt.Errorf("resolving workspace root: %w", err)
	}
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(root, full)
	}
	full = filepath.Clean(full)

	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, path)
	}
	return full, nil
}

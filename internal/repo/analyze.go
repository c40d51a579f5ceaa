// Package repo classifies the entries of a project directory.
package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gorewood/continuity/internal/git"
)

var (
	codePattern   = regexp.MustCompile(`(?i)\.(js|jsx|ts|tsx|py|java|cpp|c|go|rb|php)$`)
	configPattern = regexp.MustCompile(`(?i)(config|settings|\.json|\.yml|\.xml)$`)
	docsPattern   = regexp.MustCompile(`(?i)\.(md|txt|pdf|doc)$`)
	webPattern    = regexp.MustCompile(`(?i)\.(html|css|scss)$`)
)

// ErrOutsideRoot is returned for directories that resolve outside the root.
var ErrOutsideRoot = errors.New("directory is outside the analysis root")

// Categories buckets entry names. A name may appear in several buckets.
type Categories struct {
	Code   []string `json:"code"`
	Config []string `json:"config"`
	Docs   []string `json:"docs"`
	Web    []string `json:"web"`
	Dirs   []string `json:"dirs"`
}

// GitInfo describes the repository the directory belongs to.
type GitInfo struct {
	Root   string `json:"root,omitempty"`
	Branch string `json:"branch,omitempty"`
	HEAD   string `json:"head,omitempty"`
	Origin string `json:"origin,omitempty"`
	Dirty  bool   `json:"dirty"`
}

// Analysis is the result of Analyze. Error is set instead of failing.
type Analysis struct {
	FileCount        int        `json:"fileCount"`
	Categories       Categories `json:"categories"`
	WorkingDirectory string     `json:"workingDirectory"`
	Git              *GitInfo   `json:"git,omitempty"`
	Error            string     `json:"error,omitempty"`
}

// Analyzer inspects directories below Root.
type Analyzer struct {
	root   string
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer. An empty root means the current directory.
func NewAnalyzer(root string, logger *slog.Logger) *Analyzer {
	if root == "" {
		root = "."
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{root: root, logger: logger}
}

// Analyze lists dir (the root when empty) and classifies its entries.
// It never fails: problems are reported in Analysis.Error.
func (a *Analyzer) Analyze(ctx context.Context, dir string) Analysis {
	result := Analysis{
		WorkingDirectory: dir,
		Categories:       emptyCategories(),
	}

	full, err := a.resolve(dir)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Error = "directory not found: " + displayDir(dir)
		} else {
			result.Error = err.Error()
		}
		a.logger.Debug("repository analysis failed", "dir", displayDir(dir), "error", err)
		return result
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
		if entry.IsDir() {
			result.Categories.Dirs = append(result.Categories.Dirs, entry.Name())
		}
	}
	sort.Strings(names)
	sort.Strings(result.Categories.Dirs)

	dirs := result.Categories.Dirs
	result.FileCount = len(names)
	result.Categories = Classify(names)
	result.Categories.Dirs = dirs
	result.Git = gitInfo(ctx, full)
	return result
}

// Classify returns the buckets for a flat list of names, without directories.
func Classify(names []string) Categories {
	c := emptyCategories()
	c.Code = filter(names, codePattern)
	c.Config = filter(names, configPattern)
	c.Docs = filter(names, docsPattern)
	c.Web = filter(names, webPattern)
	return c
}

func gitInfo(ctx context.Context, dir string) *GitInfo {
	if !git.IsRepo(ctx, dir) {
		return nil
	}
	info := &GitInfo{Dirty: git.HasUncommittedChanges(ctx, dir)}
	if root, err := git.RepoRoot(ctx, dir); err == nil {
		info.Root = root
	}
	if branch, err := git.CurrentBranch(ctx, dir); err == nil {
		info.Branch = branch
	}
	if sha, err := git.HEAD(ctx, dir); err == nil {
		info.HEAD = sha
	}
	if origin, err := git.RemoteURL(ctx, dir, "origin"); err == nil {
		info.Origin = origin
	}
	return info
}

func (a *Analyzer) resolve(dir string) (string, error) {
	root, err := filepath.Abs(a.root)
	if err != nil {
		return "", fmt.Errorf("resolving analysis root: %w", err)
	}
	full := dir
	if !filepath.IsAbs(full) {
		full = filepath.Join(root, full)
	}
	full = filepath.Clean(full)

	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, dir)
	}
	return full, nil
}

func filter(names []string, pattern *regexp.Regexp) []string {
	matched := []string{}
	for _, name := range names {
		if pattern.MatchString(name) {
			matched = append(matched, name)
		}
	}
	return matched
}

func emptyCategories() Categories {
	return Categories{
		Code:   []string{},
		Config: []string{},
		Docs:   []string{},
		Web:    []string{},
		Dirs:   []string{},
	}
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

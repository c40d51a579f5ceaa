package state

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gorewood/continuity/internal/output"
)

// Clock returns the current time. Tests inject a fixed clock.
type Clock func() time.Time

// Loaded is the result of Store.Load. Load never fails: when the document is
// missing or unreadable, Document holds the default and Cause says why.
type Loaded struct {
	Document Document
	// Found is true when the backend returned a parseable JSON object.
	Found bool
	// Backfilled lists top-level sections that were absent or not mappings
	// and were replaced from the default skeleton.
	Backfilled []string
	// Cause is the read or parse error that forced the default, if any.
	Cause error
}

// HasSection reports whether section came from the stored document rather
// than from the default skeleton.
func (l Loaded) HasSection(section string) bool {
	return l.Found && !slices.Contains(l.Backfilled, section)
}

// Store loads, saves, and updates project status documents on a Backend.
type Store struct {
	backend Backend
	now     Clock
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for lastUpdated and defaults.
func WithClock(clock Clock) Option {
	return func(s *Store) { s.now = clock }
}

// WithLogger sets the logger for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates a Store on backend.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		logger:  slog.New(slog.DiscardHandler),
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Load reads the document at path. A missing or malformed document yields the
// default document with Found=false. A parsed document has every top-level
// section that is absent or not a mapping backfilled from the default.
func (s *Store) Load(ctx context.Context, path string) Loaded {
	path = normalizePath(path)

	data, err := s.backend.Read(ctx, path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Debug("state document missing, using default", "path", path)
		} else {
			s.logger.Warn("state document unreadable, using default", "path", path, "error", err)
		}
		return Loaded{Document: DefaultDocument(s.now()), Cause: err}
	}

	doc, err := DecodeDocument(data)
	if err != nil {
		s.logger.Warn("state document malformed, using default", "path", path, "error", err)
		return Loaded{Document: DefaultDocument(s.now()), Cause: err}
	}

	backfilled := Backfill(doc, s.now())
	if len(backfilled) > 0 {
		s.logger.Debug("state sections backfilled", "path", path, "sections", backfilled)
	}
	return Loaded{Document: doc, Found: true, Backfilled: backfilled}
}

// Save stamps projectInfo.lastUpdated and writes doc to path.
// Errors are *output.ExitError values.
func (s *Store) Save(ctx context.Context, doc Document, path string) error {
	path = normalizePath(path)
	unlock := s.lock(path)
	defer unlock()
	return s.save(ctx, doc, path)
}

// Update loads the document at path, merges fragment into it, and saves the
// result. A missing or malformed document is merged against the default.
// Concurrent updates to the same path within this process are serialized;
// across processes the last writer wins.
func (s *Store) Update(ctx context.Context, fragment map[string]any, path string) (Document, error) {
	path = normalizePath(path)
	unlock := s.lock(path)
	defer unlock()

	loaded := s.Load(ctx, path)
	merged := Document(Merge(loaded.Document, fragment))
	if err := s.save(ctx, merged, path); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *Store) save(ctx context.Context, doc Document, path string) error {
	if doc == nil {
		return output.NewUserError("cannot save an empty document")
	}

	info, ok := doc.Section(SectionProjectInfo)
	if !ok {
		info = make(map[string]any)
		doc[SectionProjectInfo] = info
	}
	info["lastUpdated"] = FormatTimestamp(s.now())

	data, err := doc.Encode()
	if err != nil {
		return output.NewSystemErrorWithCause("failed to encode project state", err)
	}
	if err := s.backend.Write(ctx, path, data); err != nil {
		if errors.Is(err, ErrOutsideRoot) {
			return output.NewUserErrorWithCause("failed to save project state", err)
		}
		return output.NewSystemErrorWithCause("failed to save project state", err)
	}
	return nil
}

// lock acquires the per-path mutex and returns its release function.
func (s *Store) lock(path string) func() {
	s.mu.Lock()
	m, ok := s.locks[path]
	if !ok {
		m = &sync.Mutex{}
		s.locks[path] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Backfill replaces every top-level section of doc that is absent or not a
// mapping with the default skeleton's section, and returns the names replaced.
// Sections are only checked at the top level; nested fields are left alone.
func Backfill(doc Document, now time.Time) []string {
	var replaced []string
	var defaults Document
	for _, section := range Sections {
		if _, ok := doc.Section(section); ok {
			continue
		}
		if defaults == nil {
			defaults = DefaultDocument(now)
		}
		doc[section] = defaults[section]
		replaced = append(replaced, section)
	}
	return replaced
}

func normalizePath(path string) string {
	if path == "" {
		return DefaultPath
	}
	return filepath.Clean(path)
}

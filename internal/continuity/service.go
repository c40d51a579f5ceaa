// Package continuity composes the state store, bootstrap flow, repository
// analyzer, and prompt renderer into the operations every transport exposes.
package continuity

import (
	"context"
	"log/slog"

	"github.com/gorewood/continuity/internal/config"
	"github.com/gorewood/continuity/internal/output"
	"github.com/gorewood/continuity/internal/prompt"
	"github.com/gorewood/continuity/internal/repo"
	"github.com/gorewood/continuity/internal/setup"
	"github.com/gorewood/continuity/internal/state"
)

// Service implements the continuity operations. It is safe for concurrent use.
type Service struct {
	store       *state.Store
	bootstrap   *setup.Bootstrapper
	analyzer    *repo.Analyzer
	renderer    *prompt.Renderer
	defaultPath string
	logger      *slog.Logger
}

// Options configures New. Nil collaborators are built from Root.
type Options struct {
	Store       *state.Store
	Bootstrap   *setup.Bootstrapper
	Analyzer    *repo.Analyzer
	Renderer    *prompt.Renderer
	Root        string
	DefaultPath string
	Logger      *slog.Logger
}

// New creates a Service.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	root := opts.Root
	if root == "" {
		root = "."
	}

	defaultPath := opts.DefaultPath
	if defaultPath == "" {
		defaultPath = state.DefaultPath
	}

	store := opts.Store
	if store == nil {
		store = state.NewStore(state.NewFileBackend(root), state.WithLogger(logger))
	}
	bootstrap := opts.Bootstrap
	if bootstrap == nil {
		bootstrap = setup.New(store, setup.NewOSWorkspace(root), logger).WithStatusFile(defaultPath)
	}
	analyzer := opts.Analyzer
	if analyzer == nil {
		analyzer = repo.NewAnalyzer(root, logger)
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = prompt.NewRenderer(prompt.DefaultLoader(root), "", logger)
	}
	return &Service{
		store:       store,
		bootstrap:   bootstrap,
		analyzer:    analyzer,
		renderer:    renderer,
		defaultPath: defaultPath,
		logger:      logger,
	}
}

// Open builds a Service from configuration, selecting the storage backend.
// The returned close function releases backend connections.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Service, func() error, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var backend state.Backend
	closer := func() error { return nil }

	switch cfg.Backend.Type {
	case config.BackendRedis:
		rb, err := state.DialRedis(ctx, state.RedisOptions{
			Addr:     cfg.Backend.Redis.Addr,
			Password: cfg.Backend.Redis.Password,
			DB:       cfg.Backend.Redis.DB,
			Prefix:   cfg.Backend.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, output.NewSystemErrorWithCause("failed to open redis backend", err)
		}
		backend = rb
		closer = rb.Close
	default:
		backend = state.NewFileBackend(cfg.Root)
	}
	logger.Debug("storage backend ready", "type", cfg.Backend.Type, "root", cfg.Root)

	store := state.NewStore(backend, state.WithLogger(logger))
	svc := New(Options{
		Store:       store,
		Root:        cfg.Root,
		DefaultPath: cfg.StatePath,
		Logger:      logger,
	})
	return svc, closer, nil
}

// Store returns the underlying document store.
func (s *Service) Store() *state.Store {
	return s.store
}

// Renderer returns the prompt renderer.
func (s *Service) Renderer() *prompt.Renderer {
	return s.renderer
}

// ResolvePath returns path, or the configured default when path is empty.
func (s *Service) ResolvePath(path string) string {
	if path == "" {
		return s.defaultPath
	}
	return path
}

// InitProjectState bootstraps the project status document for a repository.
func (s *Service) InitProjectState(ctx context.Context, repositoryID, workingDirectory string) (*setup.Result, error) {
	return s.bootstrap.Setup(ctx, repositoryID, workingDirectory)
}

// LoadProjectState returns the document at path. It never fails; see Load.
func (s *Service) LoadProjectState(ctx context.Context, path string) state.Document {
	return s.Load(ctx, path).Document
}

// Load returns the document at path along with how it was obtained.
func (s *Service) Load(ctx context.Context, path string) state.Loaded {
	return s.store.Load(ctx, s.ResolvePath(path))
}

// UpdateProjectState deep-merges fragment into the document at path and
// saves it. An empty fragment is rejected.
func (s *Service) UpdateProjectState(ctx context.Context, fragment map[string]any, path string) (state.Document, error) {
	if len(fragment) == 0 {
		return nil, output.NewUserError("no update provided")
	}
	path = s.ResolvePath(path)
	doc, err := s.store.Update(ctx, fragment, path)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("project state updated", "path", path, "keys", len(fragment))
	return doc, nil
}

// GenerateContinuityPrompt renders the continuity prompt for the document at path.
func (s *Service) GenerateContinuityPrompt(ctx context.Context, path string) string {
	return s.RenderPrompt(ctx, path, "")
}

// RenderPrompt renders the document at path with the named template
// (the default template when empty).
func (s *Service) RenderPrompt(ctx context.Context, path, template string) string {
	doc := s.LoadProjectState(ctx, path)
	return s.renderer.WithTemplate(template).Render(doc)
}

// AnalyzeRepository classifies the entries of workingDirectory.
func (s *Service) AnalyzeRepository(ctx context.Context, workingDirectory string) repo.Analysis {
	return s.analyzer.Analyze(ctx, workingDirectory)
}

// Environment is the result of InitializeEnvironment.
type Environment struct {
	State     *setup.Result `json:"project"`
	Analysis  repo.Analysis `json:"analysis"`
	Prompt    string        `json:"prompt"`
	Generated string        `json:"generatedAt"`
}

// InitializeEnvironment bootstraps the project, analyzes the working
// directory, and renders the continuity prompt in one step.
func (s *Service) InitializeEnvironment(ctx context.Context, repositoryID, workingDirectory string) (*Environment, error) {
	res, err := s.InitProjectState(ctx, repositoryID, workingDirectory)
	if err != nil {
		return nil, err
	}
	return &Environment{
		State:     res,
		Analysis:  s.AnalyzeRepository(ctx, res.WorkingDirectory),
		Prompt:    s.renderer.Render(res.Document),
		Generated: state.FormatTimestamp(s.store.Now()),
	}, nil
}

// Template returns the default document used to seed new projects.
func (s *Service) Template() state.Document {
	return state.DefaultDocument(s.store.Now())
}

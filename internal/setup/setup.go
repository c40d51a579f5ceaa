package setup

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gorewood/continuity/internal/output"
	"github.com/gorewood/continuity/internal/state"
)

// DefaultCurrentFile is used when the working directory has no source files.
const DefaultCurrentFile = "main.js"

// preferredEntryPoints are checked in order before any other source file.
var preferredEntryPoints = []string{"index.js", "main.js", "app.js", "index.jsx", "index.ts", "app.py", "main.go"}

// sourceExtensions mark a file as a candidate current file.
var sourceExtensions = []string{".js", ".py", ".html", ".jsx", ".ts", ".tsx", ".go"}

// Result is the outcome of Setup.
type Result struct {
	Document         state.Document `json:"state"`
	Path             string         `json:"path"`
	WorkingDirectory string         `json:"workingDirectory,omitempty"`
	// Created is false when an existing document was returned unchanged.
	Created bool `json:"created"`
}

// Bootstrapper creates starter documents.
type Bootstrapper struct {
	store      *state.Store
	workspace  Workspace
	logger     *slog.Logger
	statusFile string
}

// New creates a Bootstrapper.
func New(store *state.Store, workspace Workspace, logger *slog.Logger) *Bootstrapper {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bootstrapper{store: store, workspace: workspace, logger: logger, statusFile: state.DefaultPath}
}

// WithStatusFile sets the document path used relative to the working
// directory. Empty keeps the default.
func (b *Bootstrapper) WithStatusFile(name string) *Bootstrapper {
	if name != "" {
		b.statusFile = name
	}
	return b
}

// Setup returns the project status document for repositoryID, creating it
// under workingDirectory (or the root when empty) if none exists yet.
//
// A working directory that cannot be created is logged and ignored. A
// document that exists but lacks projectInfo keeps its other sections; the
// starter fills in the rest. An unparseable document is replaced.
func (b *Bootstrapper) Setup(ctx context.Context, repositoryID, workingDirectory string) (*Result, error) {
	repositoryID = strings.TrimSpace(repositoryID)
	if repositoryID == "" {
		return nil, output.NewUserError("repository identifier is required")
	}
	name := ProjectName(repositoryID)

	if workingDirectory != "" {
		if err := b.workspace.EnsureDir(workingDirectory); err != nil {
			b.logger.Warn("working directory unavailable, using root", "dir", workingDirectory, "error", err)
			workingDirectory = ""
		}
	}

	path := b.statusFile
	if workingDirectory != "" {
		path = filepath.Join(workingDirectory, b.statusFile)
	}

	loaded := b.store.Load(ctx, path)
	if loaded.HasSection(state.SectionProjectInfo) {
		b.logger.Debug("project state exists", "path", path, "project", name)
		return &Result{Document: loaded.Document, Path: path, WorkingDirectory: workingDirectory}, nil
	}

	listDir := workingDirectory
	if listDir == "" {
		listDir = "."
	}
	files, err := b.workspace.List(listDir)
	if err != nil {
		b.logger.Debug("cannot list working directory", "dir", listDir, "error", err)
		files = nil
	}

	currentFile := GuessCurrentFile(files)
	if workingDirectory != "" {
		currentFile = filepath.Join(workingDirectory, currentFile)
	}

	doc := Starter(name, repositoryID, workingDirectory, currentFile, b.store.Now()).ToDocument()
	if loaded.Found {
		kept := make(map[string]any, len(loaded.Document))
		for key, value := range loaded.Document {
			if !slices.Contains(loaded.Backfilled, key) {
				kept[key] = value
			}
		}
		state.Merge(doc, kept)
	}

	if err := b.store.Save(ctx, doc, path); err != nil {
		return nil, err
	}
	b.logger.Info("project state created", "path", path, "project", name)
	return &Result{Document: doc, Path: path, WorkingDirectory: workingDirectory, Created: true}, nil
}

// GuessCurrentFile picks the file a new project most likely starts from:
// the first preferred entry point present, else the first source file, else
// DefaultCurrentFile.
func GuessCurrentFile(names []string) string {
	for _, preferred := range preferredEntryPoints {
		if slices.Contains(names, preferred) {
			return preferred
		}
	}
	for _, name := range names {
		for _, ext := range sourceExtensions {
			if strings.HasSuffix(name, ext) {
				return name
			}
		}
	}
	return DefaultCurrentFile
}

// Starter builds the starter state for a freshly bootstrapped project.
func Starter(name, repository, workingDirectory, currentFile string, now time.Time) *state.ProjectState {
	ps := state.Default(now)
	ps.ProjectInfo.Name = name
	ps.ProjectInfo.Repository = repository
	if workingDirectory != "" {
		ps.ProjectInfo.WorkingDirectory = &workingDirectory
	}

	ps.Development = state.Development{
		CurrentFile:      currentFile,
		CurrentComponent: name + "Component",
		InProgress: state.Task{
			Type:        "feature",
			Description: "Configuração inicial do projeto " + name,
			RemainingTasks: []string{
				"Análise de requisitos",
				"Planejamento da arquitetura",
				"Implementação de funcionalidades core",
			},
		},
	}

	ps.Components.InProgress = []state.Component{
		{Name: "Sistema de Configuração", Priority: state.PriorityHigh},
	}
	ps.Components.Pending = []state.Component{
		{Name: "Interface de Usuário", Priority: state.PriorityMedium},
		{Name: "Testes", Priority: state.PriorityHigh},
	}

	ps.Context.LastThought = "Iniciar o desenvolvimento com foco na arquitetura principal do " + name
	ps.Context.NextSteps = []string{
		"Estruturar diretórios",
		"Definir interfaces principais",
		"Configurar ferramentas de build",
	}
	return ps
}

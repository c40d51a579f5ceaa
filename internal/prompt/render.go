// Package prompt synthesizes the continuity prompt: a short hand-off text that
// tells the next agent session which repository it is in, what it was
// thinking about, and where the saved project state stands.
package prompt

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/gorewood/continuity/internal/state"
)

// Text used when fields are missing.
const (
	Unavailable           = "Estado do projeto não disponível. Carregue o estado primeiro."
	RepositoryPlaceholder = "[REPOSITÓRIO]"
	ContextPlaceholder    = "[CONTEXTO_ATUAL]"
)

// Snapshot is the reduced view of the state embedded in the prompt.
// Field order is the serialized key order.
type Snapshot struct {
	ProjectInfo SnapshotInfo        `json:"projectInfo"`
	Development SnapshotDevelopment `json:"development"`
}

// SnapshotInfo summarizes projectInfo.
type SnapshotInfo struct {
	Name        string `json:"name"`
	CurrentTask string `json:"currentTask"`
	LastState   string `json:"lastState"`
}

// SnapshotDevelopment summarizes development.
type SnapshotDevelopment struct {
	CurrentFile string `json:"currentFile"`
	InProgress  string `json:"inProgress"`
}

// NewSnapshot extracts the snapshot from doc. Missing or mistyped fields read
// as empty strings.
func NewSnapshot(doc state.Document) Snapshot {
	return Snapshot{
		ProjectInfo: SnapshotInfo{
			Name:        doc.String("projectInfo", "name"),
			CurrentTask: doc.String("development", "inProgress", "description"),
			LastState:   doc.String("context", "lastThought"),
		},
		Development: SnapshotDevelopment{
			CurrentFile: doc.String("development", "currentFile"),
			InProgress: doc.String("development", "inProgress", "type") + ": " +
				doc.String("development", "inProgress", "description"),
		},
	}
}

// JSON renders the snapshot with two-space indentation.
func (s Snapshot) JSON() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// Strings only; encoding cannot fail.
	_ = enc.Encode(s)
	return strings.TrimRight(buf.String(), "\n")
}

// Vars returns the template variables for doc.
func Vars(doc state.Document) map[string]string {
	repository := doc.String("projectInfo", "repository")
	if repository == "" {
		repository = RepositoryPlaceholder
	}

	ctx := doc.String("context", "lastThought")
	if ctx == "" {
		ctx = doc.String("development", "inProgress", "description")
	}
	if ctx == "" {
		ctx = ContextPlaceholder
	}

	return map[string]string{
		"repository":   repository,
		"context":      ctx,
		"snapshot":     NewSnapshot(doc).JSON(),
		"project_name": doc.String("projectInfo", "name"),
		"current_file": doc.String("development", "currentFile"),
	}
}

// Render produces the continuity prompt for doc with the built-in template.
func Render(doc state.Document) string {
	return apply(builtinDefault(), doc)
}

// Renderer renders with a named template resolved through a Loader.
type Renderer struct {
	loader *Loader
	name   string
	logger *slog.Logger
}

// NewRenderer creates a Renderer. An empty name selects DefaultTemplate.
// A nil loader uses only the built-in templates.
func NewRenderer(loader *Loader, name string, logger *slog.Logger) *Renderer {
	if loader == nil {
		loader = &Loader{}
	}
	if name == "" {
		name = DefaultTemplate
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{loader: loader, name: name, logger: logger}
}

// Render produces the continuity prompt for doc. A template that cannot be
// loaded is replaced by the built-in one, so Render always returns text.
func (r *Renderer) Render(doc state.Document) string {
	tmpl, err := r.loader.Load(r.name)
	if err != nil {
		r.logger.Warn("prompt template unavailable, using built-in", "template", r.name, "error", err)
		tmpl = builtinDefault()
	}
	return apply(tmpl, doc)
}

// WithTemplate returns a copy of r that renders the named template.
func (r *Renderer) WithTemplate(name string) *Renderer {
	if name == "" {
		return r
	}
	clone := *r
	clone.name = name
	return &clone
}

// Templates lists the templates visible to the renderer's loader.
func (r *Renderer) Templates() []TemplateInfo {
	return r.loader.List()
}

func apply(tmpl *Template, doc state.Document) string {
	if doc == nil {
		return Unavailable
	}
	if _, ok := doc.Section(state.SectionProjectInfo); !ok {
		return Unavailable
	}

	vars := Vars(doc)
	pairs := make([]string, 0, len(vars)*2)
	for key, val := range vars {
		pairs = append(pairs, "{{"+key+"}}", val)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl.Content)
}

// builtinDefault returns the embedded continuity template.
func builtinDefault() *Template {
	tmpl, err := loadBuiltin(DefaultTemplate)
	if err != nil {
		panic("prompt: embedded template missing: " + err.Error())
	}
	tmpl.Source = "built-in"
	return tmpl
}

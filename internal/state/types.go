// Package state provides the project status document: its schema, the
// fail-open store that loads and saves it, and the deep merge used for
// partial updates.
package state

import "time"

// DefaultPath is the document location used when a caller supplies none.
const DefaultPath = "project-status.json"

// Top-level section names. A loaded document always carries all of them.
const (
	SectionProjectInfo = "projectInfo"
	SectionDevelopment = "development"
	SectionComponents  = "components"
	SectionContext     = "context"
	SectionMCPTools    = "mcpTools"
)

// Sections lists the top-level sections in display order.
var Sections = []string{
	SectionProjectInfo,
	SectionDevelopment,
	SectionComponents,
	SectionContext,
	SectionMCPTools,
}

// Priority ranks a component in the backlog.
type Priority string

// Component priorities.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// ProjectState is the typed view of a project status document.
type ProjectState struct {
	ProjectInfo ProjectInfo `json:"projectInfo"`
	Development Development `json:"development"`
	Components  Components  `json:"components"`
	Context     Context     `json:"context"`
	MCPTools    MCPTools    `json:"mcpTools"`
}

// ProjectInfo identifies the project. LastUpdated is owned by the store.
type ProjectInfo struct {
	Name             string  `json:"name"`
	Repository       string  `json:"repository"`
	WorkingDirectory *string `json:"workingDirectory,omitempty"`
	LastUpdated      string  `json:"lastUpdated"`
}

// Development describes what is being worked on right now.
type Development struct {
	CurrentFile      string `json:"currentFile"`
	CurrentComponent string `json:"currentComponent"`
	InProgress       Task   `json:"inProgress"`
}

// Task is the unit of work in progress.
type Task struct {
	Type           string   `json:"type"`
	Description    string   `json:"description"`
	RemainingTasks []string `json:"remainingTasks"`
}

// Components is the project backlog split by status.
type Components struct {
	Completed  []Component `json:"completed"`
	InProgress []Component `json:"inProgress"`
	Pending    []Component `json:"pending"`
}

// Component is a named backlog item.
type Component struct {
	Name     string   `json:"name"`
	Priority Priority `json:"priority"`
}

// Context holds free-form notes carried between sessions.
type Context struct {
	LastThought  string   `json:"lastThought"`
	NextSteps    []string `json:"nextSteps"`
	Dependencies []string `json:"dependencies"`
}

// MCPTools records agent tool usage. Its sequences are opaque to this package.
type MCPTools struct {
	LastUsed    LastUsed `json:"lastUsed"`
	CacheFiles  []any    `json:"cacheFiles"`
	TempStorage []any    `json:"tempStorage"`
}

// LastUsed records the most recent tool outputs.
type LastUsed struct {
	REPL          *string `json:"repl"`
	Artifacts     []any   `json:"artifacts"`
	SearchResults []any   `json:"searchResults"`
}

// FormatTimestamp renders t the way lastUpdated is stored: UTC, millisecond
// precision, Z suffix.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// Default returns the neutral document used when no state exists yet.
func Default(now time.Time) *ProjectState {
	return &ProjectState{
		ProjectInfo: ProjectInfo{
			Name:        "Project",
			Repository:  "",
			LastUpdated: FormatTimestamp(now),
		},
		Development: Development{
			InProgress: Task{Type: "feature", RemainingTasks: []string{}},
		},
		Components: Components{
			Completed:  []Component{},
			InProgress: []Component{},
			Pending:    []Component{},
		},
		Context: Context{
			NextSteps:    []string{},
			Dependencies: []string{},
		},
		MCPTools: MCPTools{
			LastUsed: LastUsed{
				Artifacts:     []any{},
				SearchResults: []any{},
			},
			CacheFiles:  []any{},
			TempStorage: []any{},
		},
	}
}

// DefaultDocument is Default converted to a Document.
func DefaultDocument(now time.Time) Document {
	return Default(now).ToDocument()
}

// ToDocument converts the typed state into a document tree. Nil slices become
// empty sequences so the serialized form never contains null lists.
func (ps *ProjectState) ToDocument() Document {
	info := map[string]any{
		"name":        ps.ProjectInfo.Name,
		"repository":  ps.ProjectInfo.Repository,
		"lastUpdated": ps.ProjectInfo.LastUpdated,
	}
	if ps.ProjectInfo.WorkingDirectory != nil {
		info["workingDirectory"] = *ps.ProjectInfo.WorkingDirectory
	}

	var repl any
	if ps.MCPTools.LastUsed.REPL != nil {
		repl = *ps.MCPTools.LastUsed.REPL
	}

	return Document{
		SectionProjectInfo: info,
		SectionDevelopment: map[string]any{
			"currentFile":      ps.Development.CurrentFile,
			"currentComponent": ps.Development.CurrentComponent,
			"inProgress": map[string]any{
				"type":           ps.Development.InProgress.Type,
				"description":    ps.Development.InProgress.Description,
				"remainingTasks": stringSeq(ps.Development.InProgress.RemainingTasks),
			},
		},
		SectionComponents: map[string]any{
			"completed":  componentSeq(ps.Components.Completed),
			"inProgress": componentSeq(ps.Components.InProgress),
			"pending":    componentSeq(ps.Components.Pending),
		},
		SectionContext: map[string]any{
			"lastThought":  ps.Context.LastThought,
			"nextSteps":    stringSeq(ps.Context.NextSteps),
			"dependencies": stringSeq(ps.Context.Dependencies),
		},
		SectionMCPTools: map[string]any{
			"lastUsed": map[string]any{
				"repl":          repl,
				"artifacts":     anySeq(ps.MCPTools.LastUsed.Artifacts),
				"searchResults": anySeq(ps.MCPTools.LastUsed.SearchResults),
			},
			"cacheFiles":  anySeq(ps.MCPTools.CacheFiles),
			"tempStorage": anySeq(ps.MCPTools.TempStorage),
		},
	}
}

func stringSeq(items []string) []any {
	seq := make([]any, 0, len(items))
	for _, item := range items {
		seq = append(seq, item)
	}
	return seq
}

func componentSeq(items []Component) []any {
	seq := make([]any, 0, len(items))
	for _, item := range items {
		seq = append(seq, map[string]any{
			"name":     item.Name,
			"priority": string(item.Priority),
		})
	}
	return seq
}

func anySeq(items []any) []any {
	seq := make([]any, 0, len(items))
	for _, item := range items {
		seq = append(seq, cloneValue(item))
	}
	return seq
}

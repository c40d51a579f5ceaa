package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/continuity/internal/continuity"
	"github.com/gorewood/continuity/internal/repo"
	"github.com/gorewood/continuity/internal/state"
)

// --- initProjectState ---

// InitInput is the input for the initProjectState tool.
type InitInput struct {
	RepositoryURL    string `json:"repositoryUrl"              jsonschema:"repository URL or identifier, e.g. https://github.com/owner/repo.git"`
	WorkingDirectory string `json:"workingDirectory,omitempty" jsonschema:"optional directory for project-status.json, e.g. src or frontend/src"`
}

// InitOutput is the output for the initProjectState tool.
type InitOutput struct {
	State   state.Document `json:"state"   jsonschema:"the project state document"`
	Path    string         `json:"path"    jsonschema:"where the document is stored"`
	Created bool           `json:"created" jsonschema:"false when an existing document was returned unchanged"`
}

func handleInit(svc *continuity.Service) mcp.ToolHandlerFor[InitInput, InitOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input InitInput) (*mcp.CallToolResult, InitOutput, error) {
		res, err := svc.InitProjectState(ctx, input.RepositoryURL, input.WorkingDirectory)
		if err != nil {
			return nil, InitOutput{}, err
		}
		return nil, InitOutput{State: res.Document, Path: res.Path, Created: res.Created}, nil
	}
}

// --- loadProjectState ---

// LoadInput is the input for the loadProjectState tool.
type LoadInput struct {
	ProjectPath string `json:"projectPath,omitempty" jsonschema:"path to the state document (default project-status.json)"`
}

func handleLoad(svc *continuity.Service) mcp.ToolHandlerFor[LoadInput, state.Document] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LoadInput) (*mcp.CallToolResult, state.Document, error) {
		return nil, svc.LoadProjectState(ctx, input.ProjectPath), nil
	}
}

// --- updateProjectState ---

// UpdateInput is the input for the updateProjectState tool.
type UpdateInput struct {
	Updates     map[string]any `json:"updates,omitempty"     jsonschema:"partial state document to merge, e.g. {\"context\": {\"lastThought\": \"...\"}}"`
	ProjectPath string         `json:"projectPath,omitempty" jsonschema:"path to the state document (default project-status.json)"`
}

func handleUpdate(svc *continuity.Service) mcp.ToolHandlerFor[UpdateInput, state.Document] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UpdateInput) (*mcp.CallToolResult, state.Document, error) {
		doc, err := svc.UpdateProjectState(ctx, input.Updates, input.ProjectPath)
		if err != nil {
			return nil, nil, err
		}
		return nil, doc, nil
	}
}

// --- analyzeRepository ---

// AnalyzeInput is the input for the analyzeRepository tool.
type AnalyzeInput struct {
	WorkingDirectory string `json:"workingDirectory,omitempty" jsonschema:"directory to analyze (default: the server root)"`
}

func handleAnalyze(svc *continuity.Service) mcp.ToolHandlerFor[AnalyzeInput, repo.Analysis] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, repo.Analysis, error) {
		return nil, svc.AnalyzeRepository(ctx, input.WorkingDirectory), nil
	}
}

// --- generateContinuityPrompt ---

// PromptInput is the input for the generateContinuityPrompt tool.
type PromptInput struct {
	ProjectPath string `json:"projectPath,omitempty" jsonschema:"path to the state document (default project-status.json)"`
	Template    string `json:"template,omitempty"    jsonschema:"template name (default continuity)"`
}

// PromptOutput is the output for the generateContinuityPrompt tool.
type PromptOutput struct {
	Prompt string `json:"prompt" jsonschema:"the rendered continuity prompt"`
}

func handlePrompt(svc *continuity.Service) mcp.ToolHandlerFor[PromptInput, PromptOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PromptInput) (*mcp.CallToolResult, PromptOutput, error) {
		text := svc.RenderPrompt(ctx, input.ProjectPath, input.Template)
		// Plain text content so agents can paste the prompt verbatim.
		res := &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
		return res, PromptOutput{Prompt: text}, nil
	}
}

// Package mcp provides a Model Context Protocol server for continuity.
// It exposes the project state operations as MCP tools, the default state
// document as a resource, and the continuity prompt as an MCP prompt.
package mcp

import (
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/continuity/internal/continuity"
)

const instructions = "Keep development state in project-status.json across sessions. " +
	"Call initProjectState once per repository, loadProjectState at session start, " +
	"updateProjectState with partial fragments as work progresses, and " +
	"generateContinuityPrompt before the session ends."

// NewServer creates an MCP server with all continuity tools, resources, and
// prompts registered.
func NewServer(version string, svc *continuity.Service, logger *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "continuity",
		Version: version,
	}, &mcp.ServerOptions{
		Instructions: instructions,
		Logger:       logger,
	})
	registerTools(server, svc)
	registerResources(server, svc)
	registerPrompts(server, svc)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for tools that write the state
// document. Merges only replace the keys they name.
func writeAnnotations(idempotent bool) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		IdempotentHint:  idempotent,
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all continuity tools to the server.
func registerTools(server *mcp.Server, svc *continuity.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "initProjectState",
		Description: "Create project-status.json for a repository if it does not exist yet, deriving the project name from the repository URL. Returns the existing document unchanged when one is present.",
		Annotations: writeAnnotations(true),
	}, handleInit(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "loadProjectState",
		Description: "Load the project state document. Missing or unreadable files yield the default document.",
		Annotations: readOnlyAnnotations(),
	}, handleLoad(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "updateProjectState",
		Description: "Deep-merge a partial update into the project state and save it. Nested objects merge key by key; arrays and scalars replace the stored value; null clears a field.",
		Annotations: writeAnnotations(false),
	}, handleUpdate(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyzeRepository",
		Description: "List a directory and classify its entries into code, config, docs, web, and subdirectories.",
		Annotations: readOnlyAnnotations(),
	}, handleAnalyze(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generateContinuityPrompt",
		Description: "Render a hand-off prompt summarizing the saved project state for the next session.",
		Annotations: readOnlyAnnotations(),
	}, handlePrompt(svc))
}

package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/continuity/internal/continuity"
)

// TemplateResourceURI identifies the default project state document.
const TemplateResourceURI = "continuity://templates/project-state"

// ContinuityPromptName is the name of the MCP prompt.
const ContinuityPromptName = "continuity-prompt"

func registerResources(server *mcp.Server, svc *continuity.Service) {
	server.AddResource(&mcp.Resource{
		URI:         TemplateResourceURI,
		Name:        "project-state-template",
		Title:       "Project state template",
		Description: "JSON skeleton used to initialize a project state document",
		MIMEType:    "application/json",
	}, handleTemplateResource(svc))
}

func handleTemplateResource(svc *continuity.Service) mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		data, err := svc.Template().Encode()
		if err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	}
}

func registerPrompts(server *mcp.Server, svc *continuity.Service) {
	server.AddPrompt(&mcp.Prompt{
		Name:        ContinuityPromptName,
		Title:       "Continuity prompt",
		Description: "Hand-off prompt for the next session, built from the saved project state",
		Arguments: []*mcp.PromptArgument{
			{Name: "projectPath", Description: "path to the state document (default project-status.json)"},
			{Name: "template", Description: "template name (default continuity)"},
		},
	}, handleContinuityPrompt(svc))
}

func handleContinuityPrompt(svc *continuity.Service) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := req.Params.Arguments
		text := svc.RenderPrompt(ctx, args["projectPath"], args["template"])
		return &mcp.GetPromptResult{
			Description: "Continuity prompt for " + svc.ResolvePath(args["projectPath"]),
			Messages: []*mcp.PromptMessage{{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			}},
		}, nil
	}
}

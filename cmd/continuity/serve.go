package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	continuitymcp "github.com/gorewood/continuity/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run continuity as a Model Context Protocol (MCP) server over stdio.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "continuity": {
        "command": "continuity",
        "args": ["serve"]
      }
    }
  }

Available tools: initProjectState, loadProjectState, updateProjectState,
analyzeRepository, generateContinuityPrompt.
Also exposes the continuity-prompt prompt and the project state template
resource.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = sess.close() }()

			server := continuitymcp.NewServer(buildVersion(), sess.svc, sess.logger)
			sess.logger.Info("mcp server starting", "transport", "stdio", "root", sess.cfg.Root)
			return server.Run(commandContext(cmd), &mcp.StdioTransport{})
		},
	}
}

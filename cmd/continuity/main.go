// Package main provides the entry point for the continuity CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/continuity/internal/config"
	"github.com/gorewood/continuity/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// useColor resolves the --color flag against the command's output writer.
func useColor(cmd *cobra.Command) bool {
	mode := "auto"
	if flag := cmd.Root().PersistentFlags().Lookup("color"); flag != nil {
		mode = flag.Value.String()
	}
	return output.ResolveColorMode(mode, output.IsTTY(cmd.OutOrStdout()))
}

// newPrinter creates a printer honoring --json and --color, with human
// errors sent to the command's stderr.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the continuity CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "continuity",
		Short: "Keep development state across agent sessions",
		Long: `Continuity - persistent project state and hand-off prompts for agent sessions.

Continuity keeps a project-status.json document describing where development
stands and exposes it to agents:
  - init seeds the document from the repository and its files
  - update deep-merges partial fragments without clobbering other fields
  - prompt renders a hand-off prompt for the next session
  - serve and web expose the same operations over MCP and HTTP

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				printer := newPrinter(cmd)
				err := output.NewUserError("no command specified. Run 'continuity --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	// Env files never override variables already exported.
	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		_ = config.LoadEnvFiles()
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")
	cmd.PersistentFlags().String("config", "", "Config file (default: <config dir>/config.yaml)")
	cmd.PersistentFlags().String("root", "", "Project root that confines state files (overrides config)")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "state", Title: "State Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "agent", Title: "Agent Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "server", Title: "Server Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newInitCmd(), "state")
	addGroupedCommand(cmd, newShowCmd(), "state")
	addGroupedCommand(cmd, newUpdateCmd(), "state")

	addGroupedCommand(cmd, newPromptCmd(), "agent")
	addGroupedCommand(cmd, newAnalyzeCmd(), "agent")

	addGroupedCommand(cmd, newServeCmd(), "server")
	addGroupedCommand(cmd, newWebCmd(), "server")

	addGroupedCommand(cmd, newConfigCmd(), "admin")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}

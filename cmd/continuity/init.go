package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gorewood/continuity/internal/continuity"
	"github.com/gorewood/continuity/internal/git"
	"github.com/gorewood/continuity/internal/output"
	"github.com/gorewood/continuity/internal/state"
)

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "init [repository]",
		Short: "Create project-status.json for this project",
		Long: `Create the project state document if it does not exist yet.

The project name is derived from the repository URL. Without an argument the
repository is taken from the git "origin" remote, falling back to the name of
the project root. An existing document is never overwritten.

Examples:
  continuity init                                       # Infer from git origin
  continuity init https://github.com/owner/my-repo.git  # Explicit repository
  continuity init --dir frontend                        # Keep state in frontend/
  continuity init --json                                # Full environment as JSON`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args, dirFlag)
		},
	}

	cmd.Flags().StringVar(&dirFlag, "dir", "", "Working directory for project-status.json (relative to the root)")

	return cmd
}

// runInit executes the init command.
func runInit(cmd *cobra.Command, args []string, dir string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = sess.close() }()
	ctx := commandContext(cmd)

	var repository string
	if len(args) > 0 {
		repository = args[0]
	} else {
		repository = inferRepository(ctx, filepath.Join(sess.cfg.Root, dir), sess.cfg.Root)
	}

	env, err := sess.svc.InitializeEnvironment(ctx, repository, dir)
	if err != nil {
		return sess.fail(err)
	}

	if sess.printer.IsJSON() {
		return sess.printer.WriteJSON(env)
	}
	printInitHuman(sess.printer, env)
	return nil
}

// inferRepository returns the origin remote URL of dir, or the base name of
// root when dir is not in a repository with an origin.
func inferRepository(ctx context.Context, dir, root string) string {
	if git.IsRepo(ctx, dir) {
		if url, err := git.RemoteURL(ctx, dir, "origin"); err == nil && url != "" {
			return url
		}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Base(root)
	}
	return filepath.Base(abs)
}

func printInitHuman(printer *output.Printer, env *continuity.Environment) {
	res := env.State
	msg := "Project state already exists at " + res.Path
	if res.Created {
		msg = "Created " + res.Path
	}
	_ = printer.Success(map[string]any{"message": msg})

	printer.Section("Project")
	printer.KeyValue("Name", res.Document.String(state.SectionProjectInfo, "name"))
	printer.KeyValue("Repository", res.Document.String(state.SectionProjectInfo, "repository"))
	printer.KeyValue("Current file", res.Document.String(state.SectionDevelopment, "currentFile"))

	printer.Section("Files")
	printer.KeyValue("Directory", env.Analysis.WorkingDirectory)
	printer.List("Code", env.Analysis.Categories.Code)
	printer.List("Docs", env.Analysis.Categories.Docs)

	printer.Println()
	if !printer.IsTTY() {
		printer.Section("Continuity prompt")
		printer.Println(env.Prompt)
		return
	}
	printer.Box("Continuity prompt", env.Prompt)
}

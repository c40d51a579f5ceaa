package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/continuity/internal/output"
	"github.com/gorewood/continuity/internal/state"
)

// newShowCmd creates the show command.
func newShowCmd() *cobra.Command {
	var pathFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the project state",
		Long: `Display the project state document.

A missing or unreadable document shows the defaults and a warning.

Examples:
  continuity show                   # Human-readable summary
  continuity show --json            # The document as stored
  continuity show --path app/s.json # A different document`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd, pathFlag)
		},
	}

	cmd.Flags().StringVar(&pathFlag, "path", "", "State document path (default from config)")

	return cmd
}

// runShow executes the show command.
func runShow(cmd *cobra.Command, path string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = sess.close() }()

	loaded := sess.svc.Load(commandContext(cmd), path)

	if sess.printer.IsJSON() {
		return sess.printer.WriteJSON(loaded.Document)
	}

	if !loaded.Found {
		sess.printer.Warn("no project state at %s, showing defaults (run 'continuity init')", sess.svc.ResolvePath(path))
	}
	ps, err := loaded.Document.State()
	if err != nil {
		// Untyped content still shows, just not as a summary.
		sess.printer.Warn("document does not match the expected shape: %v", err)
		data, encErr := loaded.Document.Encode()
		if encErr != nil {
			return sess.fail(output.NewSystemErrorWithCause("failed to encode project state", encErr))
		}
		sess.printer.Print("%s", data)
		return nil
	}
	printStateHuman(sess.printer, ps)
	return nil
}

func printStateHuman(printer *output.Printer, ps *state.ProjectState) {
	printer.Section("Project")
	printer.KeyValue("Name", ps.ProjectInfo.Name)
	printer.KeyValue("Repository", ps.ProjectInfo.Repository)
	if ps.ProjectInfo.WorkingDirectory != nil {
		printer.KeyValue("Working directory", *ps.ProjectInfo.WorkingDirectory)
	}
	printer.KeyValue("Last updated", ps.ProjectInfo.LastUpdated)

	printer.Section("Development")
	printer.KeyValue("Current file", ps.Development.CurrentFile)
	printer.KeyValue("Component", ps.Development.CurrentComponent)
	printer.KeyValue("In progress", fmt.Sprintf("%s: %s", ps.Development.InProgress.Type, ps.Development.InProgress.Description))
	printer.List("Remaining", ps.Development.InProgress.RemainingTasks)

	printer.Section("Components")
	printer.List("Completed", componentLines(ps.Components.Completed))
	printer.List("In progress", componentLines(ps.Components.InProgress))
	printer.List("Pending", componentLines(ps.Components.Pending))

	printer.Section("Context")
	printer.KeyValue("Last thought", ps.Context.LastThought)
	printer.List("Next steps", ps.Context.NextSteps)
	printer.List("Dependencies", ps.Context.Dependencies)
}

func componentLines(components []state.Component) []string {
	lines := make([]string, 0, len(components))
	for _, c := range components {
		if !c.Priority.Valid() {
			lines = append(lines, c.Name)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s (%s)", c.Name, c.Priority))
	}
	return lines
}

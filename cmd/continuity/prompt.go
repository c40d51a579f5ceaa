package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/continuity/internal/output"
	"github.com/gorewood/continuity/internal/prompt"
)

// newPromptCmd creates the prompt command.
func newPromptCmd() *cobra.Command {
	var (
		pathFlag     string
		templateFlag string
		listFlag     bool
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Render the continuity prompt for the next session",
		Long: `Render a hand-off prompt summarizing the saved project state.

Templates resolve from .continuity/templates/ in the project, then the
global config directory, then the built-in "continuity" template.

Examples:
  continuity prompt                      # Render with the default template
  continuity prompt --template handoff   # Render a custom template
  continuity prompt --list               # List available templates
  continuity prompt | pbcopy             # Copy for the next session`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPrompt(cmd, pathFlag, templateFlag, listFlag)
		},
	}

	cmd.Flags().StringVar(&pathFlag, "path", "", "State document path (default from config)")
	cmd.Flags().StringVarP(&templateFlag, "template", "t", "", "Template name (default continuity)")
	cmd.Flags().BoolVar(&listFlag, "list", false, "List available templates")

	return cmd
}

// runPrompt executes the prompt command.
func runPrompt(cmd *cobra.Command, path, template string, list bool) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = sess.close() }()

	if list {
		return runPromptList(sess.printer, sess.svc.Renderer().Templates())
	}

	text := sess.svc.RenderPrompt(commandContext(cmd), path, template)
	if sess.printer.IsJSON() {
		if template == "" {
			template = prompt.DefaultTemplate
		}
		return sess.printer.Success(map[string]any{
			"prompt":   text,
			"template": template,
			"path":     sess.svc.ResolvePath(path),
		})
	}
	// Raw so it can be piped and pasted verbatim.
	sess.printer.Println(text)
	return nil
}

// runPromptList prints templates grouped by source.
func runPromptList(printer *output.Printer, templates []prompt.TemplateInfo) error {
	if printer.IsJSON() {
		return printer.Success(map[string]any{"templates": templates})
	}

	bySource := make(map[string][]prompt.TemplateInfo)
	for _, t := range templates {
		bySource[t.Source] = append(bySource[t.Source], t)
	}

	sources := []struct {
		key   string
		label string
	}{
		{"built-in", "Built-in:"},
		{"global", "Global (<config dir>/templates/):"},
		{"project", "Project (.continuity/templates/):"},
	}
	for _, src := range sources {
		infos := bySource[src.key]
		if len(infos) == 0 {
			continue
		}
		printer.Print("%s\n", src.label)
		for _, info := range infos {
			override := ""
			if info.Overrides != "" {
				override = fmt.Sprintf(" [overrides %s]", info.Overrides)
			}
			printer.Print("  %-20s %s%s\n", info.Name, info.Description, override)
		}
		printer.Print("\n")
	}
	return nil
}

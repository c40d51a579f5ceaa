package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gorewood/continuity/internal/output"
	"github.com/gorewood/continuity/internal/repo"
)

// newAnalyzeCmd creates the analyze command.
func newAnalyzeCmd() *cobra.Command {
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify the files of a project directory",
		Long: `List a directory and sort its entries into code, config, docs, and web
files plus subdirectories. Inside a git repository the branch and HEAD are
reported too.

Examples:
  continuity analyze             # Analyze the project root
  continuity analyze --dir src   # Analyze a subdirectory
  continuity analyze --json      # Machine-readable report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, dirFlag)
		},
	}

	cmd.Flags().StringVar(&dirFlag, "dir", "", "Directory to analyze (relative to the root)")

	return cmd
}

// runAnalyze executes the analyze command.
func runAnalyze(cmd *cobra.Command, dir string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = sess.close() }()

	analysis := sess.svc.AnalyzeRepository(commandContext(cmd), dir)

	if sess.printer.IsJSON() {
		return sess.printer.WriteJSON(analysis)
	}
	if analysis.Error != "" {
		err := output.NewUserError(analysis.Error)
		sess.printer.Error(err)
		return err
	}
	printAnalysisHuman(sess.printer, analysis)
	return nil
}

func printAnalysisHuman(printer *output.Printer, a repo.Analysis) {
	printer.KeyValue("Directory", a.WorkingDirectory)
	printer.KeyValue("Entries", strconv.Itoa(a.FileCount))

	printer.Section("Categories")
	printer.List("Code", a.Categories.Code)
	printer.List("Config", a.Categories.Config)
	printer.List("Docs", a.Categories.Docs)
	printer.List("Web", a.Categories.Web)
	printer.List("Directories", a.Categories.Dirs)

	if a.Git != nil {
		printer.Section("Git")
		printer.KeyValue("Branch", a.Git.Branch)
		printer.KeyValue("HEAD", a.Git.HEAD)
		printer.KeyValue("Origin", a.Git.Origin)
		printer.KeyValue("Uncommitted changes", strconv.FormatBool(a.Git.Dirty))
	}
}

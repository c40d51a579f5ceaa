package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gorewood/continuity/internal/output"
	"github.com/gorewood/continuity/internal/state"
)

// newUpdateCmd creates the update command.
func newUpdateCmd() *cobra.Command {
	var (
		fileFlag string
		pathFlag string
	)

	cmd := &cobra.Command{
		Use:   "update [fragment-json | -]",
		Short: "Deep-merge a partial update into the project state",
		Long: `Deep-merge a JSON fragment into the project state and save it.

Nested objects merge key by key, so fields the fragment does not name are
kept. Arrays and scalars replace the stored value; null clears a field.

Examples:
  continuity update '{"context": {"lastThought": "parser done"}}'
  continuity update --file fragment.json
  echo '{"development": {"currentFile": "cmd/main.go"}}' | continuity update -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, args, fileFlag, pathFlag)
		},
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the fragment from a file ('-' for stdin)")
	cmd.Flags().StringVar(&pathFlag, "path", "", "State document path (default from config)")

	return cmd
}

// runUpdate executes the update command.
func runUpdate(cmd *cobra.Command, args []string, file, path string) error {
	printer := newPrinter(cmd)

	data, err := readFragment(cmd, args, file)
	if err != nil {
		printer.Error(err)
		return err
	}
	fragment, err := state.DecodeDocument(data)
	if err != nil {
		userErr := output.NewUserErrorWithCause("invalid update fragment", err)
		printer.Error(userErr)
		return userErr
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = sess.close() }()

	doc, err := sess.svc.UpdateProjectState(commandContext(cmd), fragment, path)
	if err != nil {
		return sess.fail(err)
	}

	if printer.IsJSON() {
		return printer.WriteJSON(doc)
	}
	return printer.Success(map[string]any{
		"message": fmt.Sprintf("Updated %s (%d top-level keys merged)", sess.svc.ResolvePath(path), len(fragment)),
	})
}

// readFragment returns the fragment from the argument, --file, or stdin.
func readFragment(cmd *cobra.Command, args []string, file string) ([]byte, error) {
	switch {
	case len(args) > 0 && file != "":
		return nil, output.NewUserError("pass the fragment as an argument or with --file, not both")
	case len(args) > 0 && args[0] != "-":
		return []byte(args[0]), nil
	case len(args) > 0 || file == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, output.NewSystemErrorWithCause("failed to read stdin", err)
		}
		return data, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, output.NewUserErrorWithCause("failed to read "+file, err)
		}
		return data, nil
	default:
		return nil, output.NewUserError("no update provided. Pass a JSON fragment, --file, or '-' for stdin")
	}
}

// Package output provides structured output handling for the continuity CLI.
//
// Every command writes through a Printer so the same command serves humans at
// a terminal and agents or scripts reading JSON:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))
//	printer.Success(map[string]any{"message": "State saved", "path": path})
//	printer.Error(err)
//
// # JSON Mode
//
// With --json, success payloads are written as indented JSON and errors as
//
//	{"error": "message", "code": N}
//
// # Styling
//
// Human output uses lipgloss styles. Styles collapse to plain text when the
// writer is not a terminal or when --color=never is given.
//
// # Exit Codes
//
//	output.ExitSuccess     // 0
//	output.ExitUserError   // 1: bad arguments, empty update, path outside root
//	output.ExitSystemError // 2: I/O failure, storage backend failure
//
// Errors built with NewUserError and NewSystemError carry their exit code, which
// is used for the process status, JSON error payloads, and HTTP status mapping.
package output

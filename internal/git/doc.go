// Package git provides Git operations via exec for the continuity CLI.
//
// This package wraps git commands by shelling out to the git executable,
// capturing stdout/stderr and translating failures to output.ExitError.
// Every operation takes the directory it runs in, so a server process can
// answer questions about any project below its root.
//
// # General Operations
//
//	git.IsRepo(ctx, dir)            // Is dir inside a work tree?
//	git.RepoRoot(ctx, dir)          // Top-level directory of the repository
//	git.CurrentBranch(ctx, dir)     // Current branch name
//	git.HEAD(ctx, dir)              // Current HEAD commit SHA
//	git.RemoteURL(ctx, dir, "origin") // URL of a remote
//
// # Running Git Commands
//
// For custom git commands, use RunIn:
//
//	out, err := git.RunIn(ctx, dir, "log", "--oneline", "-5")
//
// # Error Handling
//
// All functions return *output.ExitError values with ExitSystemError (2):
// git missing from PATH, or git exiting non-zero (stderr is included in the
// message).
package git

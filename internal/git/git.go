package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/gorewood/continuity/internal/output"
)

// RunIn executes a git command in dir (the current directory when empty).
// It captures stdout and returns it as a trimmed string.
// Returns an *output.ExitError on failure.
func RunIn(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", output.NewSystemError("git not found: ensure git is installed and in PATH")
		}

		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return "", output.NewSystemErrorWithCause("git command failed: "+errMsg, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// IsRepo checks if dir is inside a git work tree.
func IsRepo(ctx context.Context, dir string) bool {
	out, err := RunIn(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// RepoRoot returns the root directory of the repository containing dir.
func RepoRoot(ctx context.Context, dir string) (string, error) {
	root, err := RunIn(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", output.NewSystemErrorWithCause("not in a git repository", err)
	}
	return root, nil
}

// CurrentBranch returns the name of the current branch, or "HEAD" when detached.
func CurrentBranch(ctx context.Context, dir string) (string, error) {
	branch, err := RunIn(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to get current branch", err)
	}
	return branch, nil
}

// HEAD returns the full SHA of the current HEAD commit.
// Returns an error if no commits exist.
func HEAD(ctx context.Context, dir string) (string, error) {
	sha, err := RunIn(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to get HEAD", err)
	}
	return sha, nil
}

// RemoteURL returns the URL configured for remote.
func RemoteURL(ctx context.Context, dir, remote string) (string, error) {
	url, err := RunIn(ctx, dir, "remote", "get-url", remote)
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to get remote "+remote, err)
	}
	return url, nil
}

// HasUncommittedChanges returns true if the working tree has staged or unstaged changes.
func HasUncommittedChanges(ctx context.Context, dir string) bool {
	out, err := RunIn(ctx, dir, "status", "--porcelain")
	if err != nil {
		return false
	}
	return out != ""
}

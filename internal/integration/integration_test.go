//go:build integration

// Package integration provides integration tests for the continuity CLI.
// These tests build the binary, create real git repositories, and run full
// command workflows against them.
//
// Run with: go test -tags=integration ./internal/integration/...
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// testRepo is a helper for creating and managing test git repositories.
type testRepo struct {
	t      *testing.T
	dir    string
	binary string
	env    []string
}

// newTestRepo creates a git repository with an origin remote in a temp
// directory and builds the continuity binary next to it.
func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	base := t.TempDir()
	dir := filepath.Join(base, "repo")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("failed to create repo dir: %v", err)
	}

	binary := filepath.Join(base, "continuity")
	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/continuity")
	buildCmd.Dir = findProjectRoot(t)
	buildCmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build continuity: %v\n%s", err, output)
	}

	repo := &testRepo{
		t:      t,
		dir:    dir,
		binary: binary,
		env: append(os.Environ(),
			"CONTINUITY_CONFIG_HOME="+filepath.Join(base, "config"),
			"CONTINUITY_ROOT=",
			"CONTINUITY_STATE_PATH=",
			"CONTINUITY_BACKEND=",
			"GIT_CEILING_DIRECTORIES="+base,
			"GIT_CONFIG_GLOBAL=/dev/null",
		),
	}

	repo.git("init", "--initial-branch=main")
	repo.git("config", "user.email", "test@example.com")
	repo.git("config", "user.name", "Test User")
	repo.git("remote", "add", "origin", "https://github.com/example/integration-app.git")

	return repo
}

// findProjectRoot locates the project root by finding go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// git runs a git command in the test repo.
func (r *testRepo) git(args ...string) string {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir
	cmd.Env = r.env
	output, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %v failed: %v\n%s", args, err, output)
	}
	return strings.TrimSpace(string(output))
}

// createFile creates a file with the given content.
func (r *testRepo) createFile(name, content string) {
	r.t.Helper()

	path := filepath.Join(r.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("failed to write file %s: %v", name, err)
	}
}

// continuity runs the binary with the given stdin and args.
// Returns stdout, stderr, and error.
func (r *testRepo) continuity(stdin string, args ...string) (string, string, error) {
	r.t.Helper()

	cmd := exec.Command(r.binary, args...)
	cmd.Dir = r.dir
	cmd.Env = r.env
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// continuityOK runs the binary and expects success.
func (r *testRepo) continuityOK(args ...string) string {
	r.t.Helper()

	stdout, stderr, err := r.continuity("", args...)
	if err != nil {
		r.t.Fatalf("continuity %v failed: %v\nstdout: %s\nstderr: %s", args, err, stdout, stderr)
	}
	return stdout
}

// exitCode runs the binary and returns its exit status.
func (r *testRepo) exitCode(args ...string) int {
	r.t.Helper()

	_, _, err := r.continuity("", args...)
	if err == nil {
		return 0
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		r.t.Fatalf("continuity %v: %v", args, err)
	}
	return exitErr.ExitCode()
}

func (r *testRepo) readState(path string) map[string]any {
	r.t.Helper()

	data, err := os.ReadFile(filepath.Join(r.dir, path))
	if err != nil {
		r.t.Fatalf("reading %s: %v", path, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		r.t.Fatalf("parsing %s: %v", path, err)
	}
	return doc
}

func lookup(doc map[string]any, path ...string) any {
	var cur any = doc
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

// TestInitUpdatePromptCycle tests the full workflow:
// init infers the repository from origin -> update merges -> prompt reflects it.
func TestInitUpdatePromptCycle(t *testing.T) {
	repo := newTestRepo(t)
	repo.createFile("README.md", "# Integration")
	repo.createFile("main.go", "package main\nfunc main() {}\n")

	out := repo.continuityOK("--json", "init")
	var env struct {
		Project struct {
			Created bool `json:"created"`
		} `json:"project"`
		Analysis struct {
			Git *struct {
				Branch string `json:"branch"`
			} `json:"git"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("init output is not JSON: %v\n%s", err, out)
	}
	if !env.Project.Created {
		t.Error("init should create the document")
	}
	if env.Analysis.Git == nil || env.Analysis.Git.Branch != "main" {
		t.Errorf("analysis git info = %+v", env.Analysis.Git)
	}

	doc := repo.readState("project-status.json")
	if got := lookup(doc, "projectInfo", "name"); got != "integration-app" {
		t.Errorf("name = %v, want integration-app", got)
	}
	if got := lookup(doc, "development", "currentFile"); got != "main.go" {
		t.Errorf("currentFile = %v, want main.go", got)
	}

	repo.continuityOK("update", `{"context": {"lastThought": "cli wired", "nextSteps": ["ship"]}}`)

	doc = repo.readState("project-status.json")
	if got := lookup(doc, "context", "lastThought"); got != "cli wired" {
		t.Errorf("lastThought = %v", got)
	}
	if got := lookup(doc, "development", "inProgress", "type"); got != "feature" {
		t.Errorf("merge dropped inProgress.type: %v", got)
	}

	prompt := repo.continuityOK("prompt")
	if !strings.Contains(prompt, "Trabalhando em: https://github.com/example/integration-app.git") {
		t.Errorf("prompt missing repository:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Contexto: cli wired") {
		t.Errorf("prompt missing context:\n%s", prompt)
	}
}

// TestInitIsIdempotent verifies a second init leaves the document untouched.
func TestInitIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)

	repo.continuityOK("init")
	repo.continuityOK("update", `{"projectInfo": {"name": "renamed"}}`)
	before := repo.readState("project-status.json")

	out := repo.continuityOK("init", "https://github.com/example/other.git")
	if !strings.Contains(out, "already exists") {
		t.Errorf("second init output:\n%s", out)
	}
	after := repo.readState("project-status.json")
	if lookup(after, "projectInfo", "name") != "renamed" {
		t.Errorf("init overwrote the document: %v", lookup(after, "projectInfo", "name"))
	}
	if lookup(before, "projectInfo", "lastUpdated") != lookup(after, "projectInfo", "lastUpdated") {
		t.Error("init rewrote an existing document")
	}
}

// TestUpdateFromStdin verifies fragments can be piped in.
func TestUpdateFromStdin(t *testing.T) {
	repo := newTestRepo(t)

	stdout, stderr, err := repo.continuity(`{"development": {"currentFile": "cmd/app.go"}}`, "update", "-")
	if err != nil {
		t.Fatalf("update -: %v\nstdout: %s\nstderr: %s", err, stdout, stderr)
	}
	doc := repo.readState("project-status.json")
	if got := lookup(doc, "development", "currentFile"); got != "cmd/app.go" {
		t.Errorf("currentFile = %v", got)
	}
}

// TestExitCodes verifies user errors exit 1.
func TestExitCodes(t *testing.T) {
	repo := newTestRepo(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "success", args: []string{"show"}, want: 0},
		{name: "no fragment", args: []string{"update"}, want: 1},
		{name: "invalid fragment", args: []string{"update", "not json"}, want: 1},
		{name: "path escapes root", args: []string{"update", "--path", "../x.json", `{"a": 1}`}, want: 1},
		{name: "missing analyze dir", args: []string{"analyze", "--dir", "nope"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repo.exitCode(tt.args...); got != tt.want {
				t.Errorf("exit code = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestWorkingDirectory verifies --dir keeps the document in a subdirectory.
func TestWorkingDirectory(t *testing.T) {
	repo := newTestRepo(t)
	repo.createFile("frontend/index.js", "console.log('hi')\n")

	repo.continuityOK("init", "--dir", "frontend")

	doc := repo.readState(filepath.Join("frontend", "project-status.json"))
	if got := lookup(doc, "projectInfo", "workingDirectory"); got != "frontend" {
		t.Errorf("workingDirectory = %v", got)
	}
	if got := lookup(doc, "development", "currentFile"); got != filepath.Join("frontend", "index.js") {
		t.Errorf("currentFile = %v", got)
	}
}

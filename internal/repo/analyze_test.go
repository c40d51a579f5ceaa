package repo

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestAnalyze(t *testing.T) {
	root := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(root))
	for _, name := range []string{"main.go", "App.TSX", "config", "package.json", "README.md", "index.html", "style.scss", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	for _, dir := range []string{"src", "docs.md"} {
		if err := os.Mkdir(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	got := NewAnalyzer(root, nil).Analyze(context.Background(), "")

	if got.Error != "" {
		t.Fatalf("Error = %q", got.Error)
	}
	if got.FileCount != 10 {
		t.Errorf("FileCount = %d, want 10", got.FileCount)
	}
	want := Categories{
		Code:   []string{"App.TSX", "main.go"},
		Config: []string{"config", "package.json"},
		Docs:   []string{"README.md", "docs.md", "notes.txt"},
		Web:    []string{"index.html", "style.scss"},
		Dirs:   []string{"docs.md", "src"},
	}
	if !reflect.DeepEqual(got.Categories, want) {
		t.Errorf("Categories = %+v\nwant %+v", got.Categories, want)
	}
	if got.Git != nil {
		t.Errorf("Git = %+v, want nil outside a repository", got.Git)
	}
}

func TestAnalyze_Subdirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "frontend", "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "frontend", "src", "index.ts"), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	got := NewAnalyzer(root, nil).Analyze(context.Background(), "frontend/src")
	if got.WorkingDirectory != "frontend/src" || got.FileCount != 1 {
		t.Errorf("got %+v", got)
	}
	if !reflect.DeepEqual(got.Categories.Code, []string{"index.ts"}) {
		t.Errorf("Code = %v", got.Categories.Code)
	}
}

func TestAnalyze_Failures(t *testing.T) {
	root := t.TempDir()
	a := NewAnalyzer(root, nil)

	tests := []struct {
		name    string
		dir     string
		errText string
	}{
		{name: "missing directory", dir: "nope", errText: "directory not found: nope"},
		{name: "outside root", dir: "../elsewhere", errText: "outside the analysis root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Analyze(context.Background(), tt.dir)
			if !strings.Contains(got.Error, tt.errText) {
				t.Errorf("Error = %q, want containing %q", got.Error, tt.errText)
			}
			if got.FileCount != 0 || got.WorkingDirectory != tt.dir {
				t.Errorf("got %+v", got)
			}
			if got.Categories.Code == nil || got.Categories.Dirs == nil {
				t.Error("categories should be empty lists, not nil")
			}
		})
	}
}

func TestClassify(t *testing.T) {
	got := Classify([]string{"a.PY", "settings", "b.yml", "c.pdf", "d.css", "e.bin"})
	want := Categories{
		Code:   []string{"a.PY"},
		Config: []string{"settings", "b.yml"},
		Docs:   []string{"c.pdf"},
		Web:    []string{"d.css"},
		Dirs:   []string{},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Classify() = %+v, want %+v", got, want)
	}
}

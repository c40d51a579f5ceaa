package prompt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/continuity/internal/config"
)

// DefaultTemplate is the name of the built-in continuity prompt template.
const DefaultTemplate = "continuity"

// Template represents a prompt template with metadata and content.
type Template struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     int    `yaml:"version,omitempty"`

	// Content is the template body after the frontmatter.
	Content string `yaml:"-"`

	// Source is "project", "global", or "built-in".
	Source string `yaml:"-"`
}

// TemplateInfo provides template metadata for listing.
type TemplateInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Overrides   string `json:"overrides,omitempty"`
}

// Loader resolves templates by name.
// Resolution order: ProjectDir → GlobalDir → built-in. Empty dirs are skipped.
type Loader struct {
	ProjectDir string
	GlobalDir  string
}

// DefaultLoader looks in .continuity/templates under projectRoot and in the
// templates directory of the global config dir.
func DefaultLoader(projectRoot string) *Loader {
	if projectRoot == "" {
		projectRoot = "."
	}
	var global string
	if dir := config.Dir(); dir != "" {
		global = filepath.Join(dir, "templates")
	}
	return &Loader{
		ProjectDir: filepath.Join(projectRoot, ".continuity", "templates"),
		GlobalDir:  global,
	}
}

// Load finds and loads a template by name.
func (l *Loader) Load(name string) (*Template, error) {
	if tmpl, err := loadFromPath(l.ProjectDir, name); err == nil {
		tmpl.Source = "project"
		return tmpl, nil
	}

	if tmpl, err := loadFromPath(l.GlobalDir, name); err == nil {
		tmpl.Source = "global"
		return tmpl, nil
	}

	if tmpl, err := loadBuiltin(name); err == nil {
		tmpl.Source = "built-in"
		return tmpl, nil
	}

	return nil, fmt.Errorf("template %q not found", name)
}

// List returns all available templates. Built-ins shadowed by a project or
// global template are reported through the overriding entry.
func (l *Loader) List() []TemplateInfo {
	seen := make(map[string]int)
	var templates []TemplateInfo

	sources := []struct {
		name string
		dir  string
	}{
		{"project", l.ProjectDir},
		{"global", l.GlobalDir},
	}

	for _, src := range sources {
		infos, err := listFromPath(src.dir, src.name)
		if err != nil {
			continue
		}
		for _, info := range infos {
			if _, exists := seen[info.Name]; !exists {
				seen[info.Name] = len(templates)
				templates = append(templates, info)
			}
		}
	}

	for _, info := range listBuiltins() {
		if idx, exists := seen[info.Name]; exists {
			templates[idx].Overrides = info.Source
			continue
		}
		templates = append(templates, info)
	}

	return templates
}

// loadFromPath attempts to load a template from a directory.
func loadFromPath(dir, name string) (*Template, error) {
	if dir == "" {
		return nil, errors.New("no directory")
	}

	path := filepath.Join(dir, name+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}

	return parseTemplate(name, string(data))
}

// listFromPath lists templates in a directory.
func listFromPath(dir, source string) ([]TemplateInfo, error) {
	if dir == "" {
		return nil, errors.New("no directory")
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var templates []TemplateInfo
	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".md")
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}

		tmpl, err := parseTemplate(name, string(data))
		if err != nil {
			continue
		}

		templates = append(templates, TemplateInfo{
			Name:        name,
			Description: tmpl.Description,
			Source:      source,
		})
	}

	return templates, nil
}

// parseTemplate parses a template from raw content with YAML frontmatter.
// The file name is used when the frontmatter has no name.
func parseTemplate(name, raw string) (*Template, error) {
	frontmatter, content := splitFrontmatter(raw)

	var tmpl Template
	if frontmatter != "" {
		if err := yaml.Unmarshal([]byte(frontmatter), &tmpl); err != nil {
			return nil, fmt.Errorf("invalid frontmatter: %w", err)
		}
	}
	if tmpl.Name == "" {
		tmpl.Name = name
	}

	tmpl.Content = strings.TrimSpace(content)
	if tmpl.Content == "" {
		return nil, errors.New("template has no content")
	}
	return &tmpl, nil
}

// splitFrontmatter separates YAML frontmatter from content.
// Frontmatter is delimited by --- at the start and end.
func splitFrontmatter(raw string) (frontmatter, content string) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "---") {
		return "", raw
	}

	rest := raw[3:]
	before, after, ok := strings.Cut(rest, "\n---")
	if !ok {
		return "", raw
	}

	return strings.TrimSpace(before), strings.TrimSpace(after)
}

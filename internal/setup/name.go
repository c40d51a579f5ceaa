package setup

import "strings"

// FallbackName is used when no name can be derived from an identifier.
const FallbackName = "project"

// ProjectName derives a project name from a repository URL, scp-style remote,
// or plain path: the last path segment, without a trailing .git.
//
//	https://example.com/owner/my-repo.git → my-repo
//	git@github.com:owner/tool.git         → tool
//	my-repo                               → my-repo
func ProjectName(identifier string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(identifier), func(r rune) bool {
		return r == '/' || r == '\\' || r == ':'
	})
	if len(fields) == 0 {
		return FallbackName
	}

	name := strings.TrimSuffix(fields[len(fields)-1], ".git")
	if name == "" {
		return FallbackName
	}
	return name
}

package state

import (
	"reflect"
	"testing"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name   string
		base   map[string]any
		update map[string]any
		want   map[string]any
	}{
		{
			name: "preserves untouched nested branches",
			base: map[string]any{
				"development": map[string]any{
					"currentFile": "a.js",
					"inProgress": map[string]any{
						"type":           "feature",
						"description":    "old",
						"remainingTasks": []any{"x"},
					},
				},
			},
			update: map[string]any{
				"development": map[string]any{
					"inProgress": map[string]any{"description": "new"},
				},
			},
			want: map[string]any{
				"development": map[string]any{
					"currentFile": "a.js",
					"inProgress": map[string]any{
						"type":           "feature",
						"description":    "new",
						"remainingTasks": []any{"x"},
					},
				},
			},
		},
		{
			name: "replaces sequences wholesale",
			base: map[string]any{
				"context": map[string]any{"nextSteps": []any{"a", "b"}},
			},
			update: map[string]any{
				"context": map[string]any{"nextSteps": []any{"c"}},
			},
			want: map[string]any{
				"context": map[string]any{"nextSteps": []any{"c"}},
			},
		},
		{
			name:   "null replaces a value",
			base:   map[string]any{"mcpTools": map[string]any{"lastUsed": map[string]any{"repl": "x"}}},
			update: map[string]any{"mcpTools": map[string]any{"lastUsed": map[string]any{"repl": nil}}},
			want:   map[string]any{"mcpTools": map[string]any{"lastUsed": map[string]any{"repl": nil}}},
		},
		{
			name:   "mapping replaces scalar",
			base:   map[string]any{"context": "oops"},
			update: map[string]any{"context": map[string]any{"lastThought": "t"}},
			want:   map[string]any{"context": map[string]any{"lastThought": "t"}},
		},
		{
			name:   "scalar replaces mapping",
			base:   map[string]any{"context": map[string]any{"lastThought": "t"}},
			update: map[string]any{"context": "flat"},
			want:   map[string]any{"context": "flat"},
		},
		{
			name:   "adds keys absent from base",
			base:   map[string]any{"a": "1"},
			update: map[string]any{"b": map[string]any{"c": true}},
			want:   map[string]any{"a": "1", "b": map[string]any{"c": true}},
		},
		{
			name:   "nil base treated as empty",
			base:   nil,
			update: map[string]any{"a": "1"},
			want:   map[string]any{"a": "1"},
		},
		{
			name:   "empty update leaves base unchanged",
			base:   map[string]any{"a": "1"},
			update: map[string]any{},
			want:   map[string]any{"a": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.base, tt.update)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestMerge_DoesNotAliasUpdate(t *testing.T) {
	update := map[string]any{
		"context": map[string]any{"nextSteps": []any{"a"}},
	}
	got := Merge(map[string]any{}, update)

	update["context"].(map[string]any)["nextSteps"].([]any)[0] = "mutated"

	steps := got["context"].(map[string]any)["nextSteps"].([]any)
	if steps[0] != "a" {
		t.Errorf("merged result changed with fragment: got %v", steps[0])
	}
}

func TestMerge_AcceptsDocumentValues(t *testing.T) {
	base := map[string]any{"projectInfo": Document{"name": "old", "repository": "r"}}
	update := map[string]any{"projectInfo": map[string]any{"name": "new"}}

	got := Merge(base, update)

	info, ok := asMapping(got["projectInfo"])
	if !ok {
		t.Fatalf("projectInfo is %T, want mapping", got["projectInfo"])
	}
	if info["name"] != "new" || info["repository"] != "r" {
		t.Errorf("projectInfo = %v", info)
	}
}

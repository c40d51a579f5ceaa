package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestPrinter_JSON_Success(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true, false)

	err := printer.Success(map[string]any{
		"path":    "project-status.json",
		"created": true,
	})
	if err != nil {
		t.Fatalf("Success() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}
	if result["path"] != "project-status.json" {
		t.Errorf("path = %v, want %q", result["path"], "project-status.json")
	}
	if result["created"] != true {
		t.Errorf("created = %v, want true", result["created"])
	}
}

func TestPrinter_JSON_Error(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true, false)

	printer.Error(NewSystemError("failed to write project-status.json"))

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}
	if result["error"] != "failed to write project-status.json" {
		t.Errorf("error = %v", result["error"])
	}
	if code, ok := result["code"].(float64); !ok || int(code) != ExitSystemError {
		t.Errorf("code = %v, want %d", result["code"], ExitSystemError)
	}
}

func TestPrinter_Human_Success(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	if err := printer.Success(map[string]any{"message": "State updated"}); err != nil {
		t.Fatalf("Success() error = %v", err)
	}
	if got := buf.String(); got != "State updated\n" {
		t.Errorf("output = %q, want %q", got, "State updated\n")
	}
}

func TestPrinter_Human_ErrorGoesToStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	printer := NewPrinter(&stdout, false, false).WithStderr(&stderr)

	printer.Error(NewUserError("update fragment is empty"))

	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Error: update fragment is empty") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestPrinter_Human_UntypedError(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true, false)

	printer.Error(errString("boom"))

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if code := int(result["code"].(float64)); code != ExitUserError {
		t.Errorf("untyped error code = %d, want %d", code, ExitUserError)
	}
}

type errString string

func (e errString) Error() string { return string(e) }

func TestPrinter_PrintAndPrintln(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Print("Contexto: %s", "ctx")
	printer.Println()

	if buf.String() != "Contexto: ctx\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrinter_Warn(t *testing.T) {
	t.Run("human", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf, false, false).Warn("document %s was defaulted", "x.json")
		if !strings.Contains(buf.String(), "Warning: document x.json was defaulted") {
			t.Errorf("output = %q", buf.String())
		}
	})
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf, true, false).Warn("defaulted")
		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("Failed to parse JSON: %v", err)
		}
		if result["warning"] != "defaulted" {
			t.Errorf("warning = %v", result["warning"])
		}
	})
}

func TestPrinter_KeyValueAndList(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.KeyValue("Name", "my-repo")
	printer.KeyValue("Repository", "")
	printer.List("Next steps", []string{"a", "b"})
	printer.List("Dependencies", nil)

	want := "Name: my-repo\nRepository: -\nNext steps:\n  - a\n  - b\nDependencies: (none)\n"
	if buf.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestPrinter_Box_NonTTY(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false, false).Box("Continuity prompt", "line one")

	if buf.String() != "Continuity prompt\n\nline one\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrinter_Section(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false, false).Section("Contexto")

	if buf.String() != "\nContexto\n────────\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestErrorJSON_Format(t *testing.T) {
	var parsed struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	if err := json.Unmarshal(ErrorJSON("test error", ExitUserError), &parsed); err != nil {
		t.Fatalf("Failed to parse ErrorJSON output: %v", err)
	}
	if parsed.Error != "test error" || parsed.Code != ExitUserError {
		t.Errorf("parsed = %+v", parsed)
	}
}

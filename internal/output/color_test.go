package output

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestResolveColorMode(t *testing.T) {
	tests := []struct {
		name      string
		colorMode string
		isTTY     bool
		noColor   string
		want      bool
	}{
		{name: "never disables on TTY", colorMode: "never", isTTY: true, want: false},
		{name: "always enables on non-TTY", colorMode: "always", isTTY: false, want: true},
		{name: "always ignores NO_COLOR", colorMode: "always", noColor: "1", want: true},
		{name: "auto uses TTY true", colorMode: "auto", isTTY: true, want: true},
		{name: "auto uses TTY false", colorMode: "auto", isTTY: false, want: false},
		{name: "auto honours NO_COLOR", colorMode: "auto", isTTY: true, noColor: "1", want: false},
		{name: "unknown value behaves like auto", colorMode: "bogus", isTTY: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			if got := ResolveColorMode(tt.colorMode, tt.isTTY); got != tt.want {
				t.Errorf("ResolveColorMode(%q, %v) = %v, want %v", tt.colorMode, tt.isTTY, got, tt.want)
			}
		})
	}
}

func TestIsTTY_Buffer(t *testing.T) {
	var buf bytes.Buffer
	if IsTTY(&buf) {
		t.Error("IsTTY(buffer) should return false")
	}
}

func TestPrinter_StylesFollowTTY(t *testing.T) {
	var buf bytes.Buffer
	empty := lipgloss.NewStyle()

	plain := NewPrinter(&buf, false, false)
	if plain.styles.Error.GetForeground() != empty.GetForeground() {
		t.Error("non-TTY printer should not color errors")
	}

	styled := NewPrinter(&buf, false, true)
	if styled.styles.Error.GetForeground() == empty.GetForeground() {
		t.Error("TTY printer should color errors")
	}
}

func TestPrinter_NonTTYNoANSI(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)
	printer.Error(NewUserError("test error"))
	printer.Section("Projeto")
	printer.KeyValue("Name", "x")

	if containsANSI(buf.String()) {
		t.Errorf("plain output should have no ANSI codes, got: %q", buf.String())
	}
}

// containsANSI checks if a string contains ANSI escape sequences.
func containsANSI(s string) bool {
	for i := range len(s) - 1 {
		if s[i] == '\033' && s[i+1] == '[' {
			return true
		}
	}
	return false
}

package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer handles formatted output to a writer.
// It supports both JSON and human-readable output modes.
type Printer struct {
	w      io.Writer
	errW   io.Writer
	json   bool
	isTTY  bool
	styles *Styles
}

// Styles holds lipgloss styles for human-readable output.
type Styles struct {
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Bold    lipgloss.Style
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
	Border  lipgloss.Color
}

// NewPrinter creates a new Printer.
// If jsonMode is true, output will be JSON formatted.
// If isTTY is true, colors will be enabled for human output.
func NewPrinter(writer io.Writer, jsonMode bool, isTTY bool) *Printer {
	styles := plainStyles()
	if isTTY {
		styles = &Styles{
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Bold:    lipgloss.NewStyle().Bold(true),
			Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
			Muted:   lipgloss.NewStyle().Faint(true),
			Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Value:   lipgloss.NewStyle(),
			Border:  lipgloss.Color("8"),
		}
	}

	return &Printer{
		w:      writer,
		errW:   writer,
		json:   jsonMode,
		isTTY:  isTTY,
		styles: styles,
	}
}

// plainStyles returns styles that render text unchanged.
func plainStyles() *Styles {
	return &Styles{
		Error:   lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle(),
		Title:   lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Key:     lipgloss.NewStyle(),
		Value:   lipgloss.NewStyle(),
		Border:  lipgloss.Color(""),
	}
}

// WithStderr sets a separate writer for errors and warnings in human mode.
// In JSON mode, errors still go to the main writer.
func (p *Printer) WithStderr(w io.Writer) *Printer {
	p.errW = w
	return p
}

// IsJSON returns true if the printer is in JSON mode.
func (p *Printer) IsJSON() bool {
	return p.json
}

// IsTTY returns true if the printer output is a TTY.
func (p *Printer) IsTTY() bool {
	return p.isTTY
}

// Success outputs a success result.
// For JSON mode, outputs the data as JSON.
// For human mode, prints the "message" key if present, otherwise each key.
func (p *Printer) Success(data map[string]any) error {
	if p.json {
		return p.writeJSON(data)
	}

	if msg, ok := data["message"].(string); ok {
		mustWrite(fmt.Fprintln(p.w, p.styles.Success.Render(msg)))
		return nil
	}

	for key, val := range data {
		mustWrite(fmt.Fprintf(p.w, "%s: %v\n", p.styles.Bold.Render(key), val))
	}
	return nil
}

// Error outputs an error.
// For JSON mode, outputs {"error": "...", "code": N} to the main writer.
// For human mode, outputs a styled error message to the error writer.
func (p *Printer) Error(err error) {
	exitErr := &ExitError{}
	if !errors.As(err, &exitErr) {
		exitErr = &ExitError{Code: ExitUserError, Message: err.Error()}
	}

	if p.json {
		mustWrite(p.w.Write(ErrorJSON(exitErr.Message, exitErr.Code)))
		mustWrite(fmt.Fprintln(p.w))
		return
	}

	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.styles.Error.Render("Error"), exitErr.Message))
}

// Warn outputs a warning message.
// For JSON mode, outputs {"warning": "..."}.
// For human mode, outputs a styled warning to the error writer.
func (p *Printer) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.json {
		_ = p.writeJSON(map[string]any{"warning": msg})
		return
	}
	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.styles.Warning.Render("Warning"), msg))
}

// Print formats and writes to the output without a newline.
func (p *Printer) Print(format string, args ...any) {
	mustWrite(fmt.Fprintf(p.w, format, args...))
}

// Println writes a line to the output.
func (p *Printer) Println(args ...any) {
	mustWrite(fmt.Fprintln(p.w, args...))
}

// WriteJSON encodes any data as indented JSON and writes it.
// Use this for structs and documents that aren't plain maps.
func (p *Printer) WriteJSON(data any) error {
	return p.writeJSON(data)
}

func (p *Printer) writeJSON(data any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorJSON returns JSON-formatted error bytes.
// Format: {"error": "message", "code": N}
func ErrorJSON(message string, code int) []byte {
	result, _ := json.Marshal(map[string]any{
		"error": message,
		"code":  code,
	})
	return result
}

// mustWrite panics if a write operation fails.
// Writes go to stdout, stderr, or buffers, none of which should fail.
func mustWrite(_ int, err error) {
	if err != nil {
		panic(fmt.Sprintf("write failed: %v", err))
	}
}

// Box renders content in a rounded border with an optional title.
// Non-TTY output is plain text so prompts can be piped and pasted verbatim.
func (p *Printer) Box(title string, content string) {
	if !p.isTTY {
		if title != "" {
			mustWrite(fmt.Fprintln(p.w, title))
			mustWrite(fmt.Fprintln(p.w))
		}
		mustWrite(fmt.Fprintln(p.w, content))
		return
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.styles.Border).
		Padding(0, 1)

	boxContent := content
	if title != "" {
		boxContent = p.styles.Title.Render(title) + "\n\n" + content
	}
	mustWrite(fmt.Fprintln(p.w, style.Render(boxContent)))
}

// Section renders a section header with underline, preceded by a blank line.
func (p *Printer) Section(title string) {
	mustWrite(fmt.Fprintln(p.w))
	mustWrite(fmt.Fprintln(p.w, p.styles.Title.Render(title)))
	mustWrite(fmt.Fprintln(p.w, p.styles.Muted.Render(strings.Repeat("─", len([]rune(title))))))
}

// KeyValue renders "Key: Value". Empty values render as a muted dash.
func (p *Printer) KeyValue(key string, value string) {
	styledValue := p.styles.Value.Render(value)
	if value == "" {
		styledValue = p.styles.Muted.Render("-")
	}
	mustWrite(fmt.Fprintf(p.w, "%s %s\n", p.styles.Key.Render(key+":"), styledValue))
}

// List renders a key followed by one indented bullet per item.
// An empty list renders on one line with a muted "(none)".
func (p *Printer) List(key string, items []string) {
	if len(items) == 0 {
		mustWrite(fmt.Fprintf(p.w, "%s %s\n", p.styles.Key.Render(key+":"), p.styles.Muted.Render("(none)")))
		return
	}
	mustWrite(fmt.Fprintln(p.w, p.styles.Key.Render(key+":")))
	for _, item := range items {
		mustWrite(fmt.Fprintf(p.w, "  - %s\n", item))
	}
}

package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Document is the persisted project status tree.
//
// Values are limited to the JSON node kinds: map[string]any (mapping),
// []any (sequence), string, json.Number, bool (scalars) and nil. Keys the
// schema does not know about are kept as-is.
type Document map[string]any

// ErrNotObject is returned when JSON decodes to something other than an object.
var ErrNotObject = errors.New("document is not a JSON object")

// DecodeDocument parses JSON into a Document. Numbers are kept as json.Number
// so they survive a load/save cycle unchanged.
func DecodeDocument(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("parsing document: trailing data after JSON value")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return Document(obj), nil
}

// Encode serializes the document as two-space indented JSON with a trailing
// newline. HTML characters are left unescaped to keep the file readable.
func (d Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any(d)); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return buf.Bytes(), nil
}

// Lookup walks nested mappings along path.
func (d Document) Lookup(path ...string) (any, bool) {
	var current any = map[string]any(d)
	for _, key := range path {
		mapping, ok := asMapping(current)
		if !ok {
			return nil, false
		}
		current, ok = mapping[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// String returns the string at path, or "" when it is missing or not a string.
func (d Document) String(path ...string) string {
	value, ok := d.Lookup(path...)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}

// Section returns the named top-level mapping.
func (d Document) Section(name string) (map[string]any, bool) {
	return asMapping(d[name])
}

// State decodes the document into the typed view. It fails when a known
// field holds a value of the wrong kind.
func (d Document) State() (*ProjectState, error) {
	data, err := json.Marshal(map[string]any(d))
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	var ps ProjectState
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("decoding project state: %w", err)
	}
	return &ps, nil
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneMapping(d))
}

// asMapping reports whether v is a mapping node.
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case Document:
		return map[string]any(m), m != nil
	default:
		return nil, false
	}
}

func cloneMapping(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(v any) any {
	switch node := v.(type) {
	case map[string]any:
		if node == nil {
			return nil
		}
		return cloneMapping(node)
	case Document:
		if node == nil {
			return nil
		}
		return cloneMapping(node)
	case []any:
		if node == nil {
			return nil
		}
		seq := make([]any, len(node))
		for i, item := range node {
			seq[i] = cloneValue(item)
		}
		return seq
	default:
		return v
	}
}

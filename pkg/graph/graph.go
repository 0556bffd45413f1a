package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	terrors "github.com/matzehuels/termmap/pkg/errors"
)

// =============================================================================
// Layout Serialization API
// =============================================================================

// Marshal converts a document to indented JSON bytes.
func Marshal(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates a JSON document.
func Unmarshal(data []byte) (Layout, error) {
	return Read(bytes.NewReader(data))
}

// Write writes a document as JSON to an io.Writer.
func Write(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON document from an io.Reader and validates it.
func Read(r io.Reader) (Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, terrors.Wrap(terrors.ErrCodeInvalidFormat, err, "decode layout")
	}
	if err := Validate(l); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteFile writes a document to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(l Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(l, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads and validates a JSON document file.
func ReadFile(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, terrors.Wrap(terrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks that a document is self-consistent: a known kind, unique
// element ids, edges between existing nodes and redexes naming existing
// elements.
func Validate(l Layout) error {
	if l.Kind != KindMap && l.Kind != KindReduction {
		return terrors.New(terrors.ErrCodeInvalidFormat, "unknown layout kind %q", l.Kind)
	}

	ids := make(map[string]string, len(l.Elements))
	for _, e := range l.Elements {
		if e.Group != GroupNodes && e.Group != GroupEdges {
			return terrors.New(terrors.ErrCodeInvalidFormat, "element %q: unknown group %q", e.Data.ID, e.Group)
		}
		if e.Data.ID == "" {
			return terrors.New(terrors.ErrCodeInvalidFormat, "element without id")
		}
		if _, dup := ids[e.Data.ID]; dup {
			return terrors.New(terrors.ErrCodeInvalidFormat, "duplicate element id %q", e.Data.ID)
		}
		ids[e.Data.ID] = e.Group
	}

	for _, e := range l.Elements {
		if e.IsNode() {
			continue
		}
		for _, end := range []string{e.Data.Source, e.Data.Target} {
			if ids[end] != GroupNodes {
				return terrors.New(terrors.ErrCodeInvalidFormat, "edge %q: unknown node %q", e.Data.ID, end)
			}
		}
	}

	for _, r := range l.Redexes {
		for _, id := range r.Elements {
			if _, ok := ids[id]; !ok {
				return terrors.New(terrors.ErrCodeInvalidFormat, "redex %q: unknown element %q", r.ID, id)
			}
		}
	}
	return nil
}

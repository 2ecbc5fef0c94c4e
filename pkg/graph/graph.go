package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Serialization formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal encodes g in format.
func Marshal(g Graph, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, g, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes g in format to w.
func Write(w io.Writer, g Graph, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}

// Read decodes a graph in format from r.
func Read(r io.Reader, format string) (Graph, error) {
	var g Graph
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&g)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&g)
	default:
		return g, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return g, fmt.Errorf("decode: %w", err)
	}
	return g, nil
}

// WriteFile writes g to path in the format named by its extension.
// The file is created with 0644 permissions.
func WriteFile(g Graph, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, g, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a graph from path in the format named by its extension.
func ReadFile(path string) (Graph, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Graph{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// FormatOf returns the serialization format for a file name.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("cannot tell format of %s (use .json, .yaml or .yml)", path)
}

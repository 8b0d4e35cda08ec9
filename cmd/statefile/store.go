package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/terassyi/statefile"
)

// Document is the value type CLI commands store in a state file.
type Document = map[string]any

// resolveCodec picks the codec from --format, falling back to the file
// extension.
func resolveCodec(path string) (statefile.Codec[Document], error) {
	format := formatFlag
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = outputYAML
		default:
			format = outputJSON
		}
	}

	switch format {
	case outputJSON:
		return statefile.JSONCodec[Document]{}, nil
	case outputYAML:
		return statefile.YAMLCodec[Document]{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q, valid formats: json, yaml", format)
	}
}

// openDocument opens a state file for read-only commands.
func openDocument(path string) (*statefile.File[Document], error) {
	codec, err := resolveCodec(path)
	if err != nil {
		return nil, err
	}
	return statefile.Open(path, statefile.WithCodec(codec))
}

// openDocumentLocked opens a state file for mutating commands, holding
// the advisory process lock until Close.
func openDocumentLocked(path string) (*statefile.File[Document], error) {
	codec, err := resolveCodec(path)
	if err != nil {
		return nil, err
	}
	return statefile.Open(path, statefile.WithCodec(codec), statefile.WithProcessLock[Document]())
}

// printDocument writes a document to the command output in the requested
// format.
func printDocument(cmd *cobra.Command, doc Document, format string) error {
	if doc == nil {
		doc = Document{}
	}

	switch format {
	case outputYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal state: %w", err)
		}
		cmd.Print(string(data))
	default:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal state: %w", err)
		}
		cmd.Println(string(data))
	}
	return nil
}

// parseScalar decodes a CLI value argument. JSON syntax wins (numbers,
// booleans, null, arrays, objects); anything else is kept as a plain
// string.
func parseScalar(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

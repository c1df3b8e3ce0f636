// Package codec converts documents to and from their interchange formats.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"

	"tableflip.dev/resume/pkg/document"
)

// ErrFormat reports imported text that does not describe a document.
var ErrFormat = errors.New("codec: invalid document")

// Format is an interchange format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// AllFormats lists the supported formats.
func AllFormats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatMarkdown}
}

func (f Format) String() string {
	return string(f)
}

// ParseFormat converts a flag value to a Format.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", ErrFormat, raw)
}

// FormatForPath picks a format from a file extension.
func FormatForPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: no extension on %q", ErrFormat, path)
	}
	return ParseFormat(ext)
}

// Serialize encodes doc in the given format.
func Serialize(doc *document.Document, f Format) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrFormat)
	}
	switch f {
	case FormatJSON:
		return document.Marshal(doc)
	case FormatYAML:
		raw, err := document.Marshal(doc)
		if err != nil {
			return nil, err
		}
		return yaml.JSONToYAML(raw)
	case FormatMarkdown:
		return toMarkdown(doc)
	}
	return nil, fmt.Errorf("%w: unknown format %q", ErrFormat, f)
}

// Deserialize decodes data in the given format. The text must carry both a
// header and sections; the result is migrated to the current schema.
func Deserialize(data []byte, f Format) (*document.Document, error) {
	switch f {
	case FormatJSON:
		return fromJSON(data)
	case FormatYAML:
		raw, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		return fromJSON(raw)
	case FormatMarkdown:
		return fromMarkdown(data)
	}
	return nil, fmt.Errorf("%w: unknown format %q", ErrFormat, f)
}

func fromJSON(data []byte) (*document.Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	for _, key := range []string{"header", "sections"} {
		if v, ok := fields[key]; !ok || string(v) == "null" {
			return nil, fmt.Errorf("%w: missing %s", ErrFormat, key)
		}
	}
	doc, err := document.Migrate(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return doc, nil
}

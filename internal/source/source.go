package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the key of the strings list in structured files.
const DefaultPath = "strings"

// Format identifies a strings file format.
type Format string

// Supported formats.
const (
	FormatText Format = "txt"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath returns the format implied by the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", "":
		return FormatText, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads the strings file at path. keyPath selects the list in
// structured files; empty means DefaultPath.
func Load(path, keyPath string) ([]string, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	strs, err := Parse(data, format, keyPath)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return strs, nil
}

// Parse extracts the strings from data.
func Parse(data []byte, format Format, keyPath string) ([]string, error) {
	if keyPath == "" {
		keyPath = DefaultPath
	}

	var (
		strs []string
		err  error
	)
	switch format {
	case FormatText:
		strs, err = parseText(data)
	case FormatJSON:
		strs, err = parseJSON(data, keyPath)
	case FormatYAML:
		strs, err = parseYAML(data, keyPath)
	case FormatTOML:
		strs, err = parseTOML(data, keyPath)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if len(strs) == 0 {
		return nil, ErrNoStrings
	}
	return strs, nil
}

func parseText(data []byte) ([]string, error) {
	var strs []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		strs = append(strs, line)
	}
	return strs, sc.Err()
}

func parseJSON(data []byte, path string) ([]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid json")
	}

	result := gjson.GetBytes(data, path)
	if !result.Exists() && path == DefaultPath && gjson.ParseBytes(data).IsArray() {
		result = gjson.ParseBytes(data)
	}
	if !result.Exists() {
		return nil, fmt.Errorf("%w at %q", ErrNoStrings, path)
	}

	switch {
	case result.IsArray():
		var strs []string
		var bad bool
		result.ForEach(func(_, v gjson.Result) bool {
			if v.Type != gjson.String {
				bad = true
				return false
			}
			strs = append(strs, v.String())
			return true
		})
		if bad {
			return nil, fmt.Errorf("%w at %q", ErrInvalidValue, path)
		}
		return strs, nil
	case result.Type == gjson.String:
		return []string{result.String()}, nil
	}
	return nil, fmt.Errorf("%w at %q", ErrInvalidValue, path)
}

func parseYAML(data []byte, path string) ([]string, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return fromValue(doc, path)
}

func parseTOML(data []byte, path string) ([]string, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return fromValue(doc, path)
}

// fromValue walks a dotted key path through decoded maps. A document
// that is itself a list is accepted for the default path.
func fromValue(doc any, path string) ([]string, error) {
	if list, ok := doc.([]any); ok && path == DefaultPath {
		return toStrings(list, path)
	}

	cur := doc
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w at %q", ErrNoStrings, path)
		}
		cur, ok = m[key]
		if !ok {
			return nil, fmt.Errorf("%w at %q", ErrNoStrings, path)
		}
	}

	switch v := cur.(type) {
	case string:
		return []string{v}, nil
	case []any:
		return toStrings(v, path)
	}
	return nil, fmt.Errorf("%w at %q", ErrInvalidValue, path)
}

func toStrings(list []any, path string) ([]string, error) {
	strs := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w at %q", ErrInvalidValue, path)
		}
		strs = append(strs, s)
	}
	return strs, nil
}

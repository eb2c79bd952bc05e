// FILE: livery/fetch.go
package livery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// MaxPayloadSize caps how much of a theme payload file is read.
const MaxPayloadSize int64 = 1 << 20

// payloadExtensions lists the file extensions FileFetcher probes, in order.
var payloadExtensions = []string{".toml", ".json", ".yaml", ".yml"}

// StaticFetcher returns a Fetcher backed by an in-memory map of theme
// identifier -> raw payload. Useful for pre-bundled theme sets and tests.
func StaticFetcher(payloads map[string]map[string]any) Fetcher {
	return func(_ context.Context, themeID string) (map[string]any, error) {
		payload, ok := payloads[themeID]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrPayloadNotFound, themeID)
		}
		return payload, nil
	}
}

// FileFetcher resolves theme payloads from files named <id>.<ext> in a
// directory, supporting TOML, JSON, and YAML with automatic format detection.
type FileFetcher struct {
	dir    string
	format string // "", "auto", or an explicit format
}

// NewFileFetcher creates a fetcher over a payload directory. An optional
// format hint ("toml", "json", "yaml") skips detection.
func NewFileFetcher(dir string, formatHint ...string) (*FileFetcher, error) {
	f := &FileFetcher{dir: dir}
	if len(formatHint) > 0 && formatHint[0] != "" && formatHint[0] != "auto" {
		switch formatHint[0] {
		case "toml", "json", "yaml":
			f.format = formatHint[0]
		default:
			return nil, fmt.Errorf("unsupported payload format %q", formatHint[0])
		}
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("payload directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("payload path %q is not a directory", dir)
	}

	return f, nil
}

// Fetch implements the Fetcher contract. Use it as resolver fetch function
// via fileFetcher.Fetch.
func (f *FileFetcher) Fetch(_ context.Context, themeID string) (map[string]any, error) {
	// Identifiers come from the request boundary; constraining them to key
	// characters also rules out path traversal.
	if !isValidKeySegment(themeID) {
		return nil, fmt.Errorf("invalid theme identifier %q", themeID)
	}

	path, ok := f.payloadPath(themeID)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrPayloadNotFound, themeID, f.dir)
	}

	return f.loadPayload(path)
}

// payloadPath probes the known extensions for the identifier's payload file.
func (f *FileFetcher) payloadPath(themeID string) (string, bool) {
	for _, ext := range payloadExtensions {
		path := filepath.Join(f.dir, themeID+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func (f *FileFetcher) loadPayload(path string) (map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPayloadNotFound, path)
		}
		return nil, fmt.Errorf("failed to open payload %q: %w", path, err)
	}
	defer file.Close()

	// Read one byte past the cap so oversize files are detected rather than
	// silently truncated.
	data, err := io.ReadAll(io.LimitReader(file, MaxPayloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read payload %q: %w", path, err)
	}
	if int64(len(data)) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %s", ErrPayloadSize, path)
	}

	format := f.format
	if format == "" {
		format = detectFileFormat(path)
		if format == "" {
			format = detectFormatFromContent(data)
		}
	}

	return parsePayload(data, format, path)
}

// ParsePayload decodes a raw theme payload, detecting TOML, JSON, or YAML
// from the path's extension and falling back to content probing.
func ParsePayload(data []byte, path string) (map[string]any, error) {
	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(data)
	}
	return parsePayload(data, format, path)
}

func parsePayload(data []byte, format, path string) (map[string]any, error) {
	payload := make(map[string]any)

	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("failed to parse TOML payload %q: %w", path, err)
		}
	case "json":
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("failed to parse JSON payload %q: %w", path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("failed to parse YAML payload %q: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unable to determine payload format for %q", path)
	}

	return normalizeKeys(payload), nil
}

// normalizeKeys rewrites nested map keys to map[string]any. YAML can produce
// map[any]any subtrees, which the merge walk would otherwise treat as leaves.
func normalizeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return normalizeKeys(v)
	case map[any]any:
		converted := make(map[string]any, len(v))
		for key, sub := range v {
			converted[fmt.Sprintf("%v", key)] = normalizeValue(sub)
		}
		return converted
	default:
		return value
	}
}

// detectFileFormat determines format from the file extension.
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts detection by parsing: JSON first (strict),
// then YAML (a JSON superset), then TOML.
func detectFormatFromContent(data []byte) string {
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	var tomlTest any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	return ""
}

// WriteCSSFile writes serialized CSS to a file atomically via a temp file in
// the target directory.
func WriteCSSFile(path, css string) error {
	return atomicWriteFile(path, []byte(css))
}

func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

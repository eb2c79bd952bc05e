// FILE: livery/convenience.go
package livery

import (
	"fmt"
	"os"
)

// Quick creates a resolver from a definition tree and a fetcher with default
// ttl and stale-while-revalidate enabled. This is the recommended way to
// initialize theming for most applications.
func Quick(defs map[string]any, fetch Fetcher) (*Resolver, error) {
	schema, err := NewSchema(defs)
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}
	return NewResolver(schema, fetch)
}

// MustQuick is like Quick but panics on error.
func MustQuick(defs map[string]any, fetch Fetcher) *Resolver {
	r, err := Quick(defs, fetch)
	if err != nil {
		panic(fmt.Sprintf("livery: initialization failed: %v", err))
	}
	return r
}

// LoadSchemaFile reads a schema definition file (TOML, JSON, or YAML; format
// detected like theme payloads) and constructs the Schema. Leaves are tables
// of the form {type = "color", default = "#fff"}; every other table is a
// nested group.
func LoadSchemaFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %q: %w", path, err)
	}
	if int64(len(data)) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %s", ErrPayloadSize, path)
	}

	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(data)
	}

	raw, err := parsePayload(data, format, path)
	if err != nil {
		return nil, err
	}

	defs, err := schemaDefsFromRaw("", raw)
	if err != nil {
		return nil, fmt.Errorf("schema file %q: %w", path, err)
	}

	return NewSchema(defs)
}

// schemaDefsFromRaw converts a decoded definition file into the Token tree
// NewSchema expects. A table carrying a string "type" key is a leaf; any
// other table is a group.
func schemaDefsFromRaw(prefix string, raw map[string]any) (map[string]any, error) {
	defs := make(map[string]any, len(raw))

	for key, value := range raw {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		node, isMap := value.(map[string]any)
		if !isMap {
			return nil, fmt.Errorf("definition at %q must be a table, got %T", path, value)
		}

		if typeName, ok := node["type"].(string); ok {
			defaultValue, hasDefault := node["default"]
			if !hasDefault {
				return nil, fmt.Errorf("token at %q has no default", path)
			}
			defs[key] = Token{Type: TokenType(typeName), Default: defaultValue}
			continue
		}

		sub, err := schemaDefsFromRaw(path, node)
		if err != nil {
			return nil, err
		}
		defs[key] = sub
	}

	return defs, nil
}

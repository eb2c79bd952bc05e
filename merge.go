// FILE: livery/merge.go
package livery

import (
	"errors"
	"fmt"
	"sort"
)

// Merge combines a possibly partial, possibly untrusted theme payload with
// the schema's defaults, producing a fully populated, type-checked Theme.
//
// The schema is walked leaf by leaf: a value present in the partial payload
// at the leaf's path is validated against the declared token type and used; an
// absent value falls back to the default without error. A present value that
// fails validation aborts the merge — a malformed override is a data-integrity
// fault the caller must see, not something to silently paper over with the
// default. All failing paths are reported together, one ValidationError each.
//
// Paths in the payload that do not exist in the schema are ignored, so a
// payload written against a newer schema degrades cleanly. Ignoring stops at
// shape collisions: a subtree sitting on a leaf path, or a scalar sitting on a
// group path, is a present override of the wrong shape and fails validation
// rather than falling back to defaults.
//
// On success the returned Theme has exactly the schema's leaf paths populated.
func Merge(schema *Schema, partial map[string]any) (Theme, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}

	overrides := map[string]any{}
	if partial != nil {
		overrides = flattenMap(partial, "")
	}

	theme := make(Theme)
	var validationErrors []error

	// Shape check first. flattenMap only emits non-map values, so a scalar
	// placed on a group path surfaces as an override key that is an ancestor
	// of schema leaves. That is a present override of the wrong shape, not an
	// absent one.
	overrideKeys := make([]string, 0, len(overrides))
	for key := range overrides {
		overrideKeys = append(overrideKeys, key)
	}
	sort.Strings(overrideKeys)

	for _, key := range overrideKeys {
		if _, isLeaf := schema.tokens[key]; isLeaf {
			continue
		}
		if schema.HasPrefix(key) {
			validationErrors = append(validationErrors, &ValidationError{
				Path:  key,
				Value: overrides[key],
			})
		}
	}

	for _, path := range schema.paths {
		tok := schema.tokens[path]

		value, present := overrides[path]
		if !present {
			// Absent in the flat view can still mean a subtree was placed on
			// this leaf path; that is a wrongly shaped override, not a miss.
			if sub := navigateToPath(partial, path); sub != nil {
				validationErrors = append(validationErrors, &ValidationError{
					Path:  path,
					Want:  tok.Type,
					Value: sub,
				})
				continue
			}
			setNestedValue(theme, path, tok.Default)
			continue
		}

		if err := validateValue(tok.Type, value); err != nil {
			validationErrors = append(validationErrors, &ValidationError{
				Path:  path,
				Want:  tok.Type,
				Value: value,
			})
			continue
		}

		setNestedValue(theme, path, value)
	}

	if len(validationErrors) > 0 {
		return nil, fmt.Errorf("theme payload rejected: %w", errors.Join(validationErrors...))
	}

	return theme, nil
}

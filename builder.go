// FILE: livery/builder.go
package livery

import (
	"fmt"
	"time"
)

// ValidatorFunc validates a fully constructed Resolver before it is handed to
// the caller. It receives the built *Resolver and returns an error if the
// configuration is unusable.
type ValidatorFunc func(r *Resolver) error

// Builder provides a fluent interface for constructing resolvers.
type Builder struct {
	schema     *Schema
	fetch      Fetcher
	ttl        time.Duration
	swr        bool
	validators []ValidatorFunc
	err        error
}

// NewBuilder creates a resolver builder with the default ttl and
// stale-while-revalidate enabled.
func NewBuilder() *Builder {
	return &Builder{
		ttl:        DefaultTTL,
		swr:        true,
		validators: make([]ValidatorFunc, 0),
	}
}

// WithSchema sets the token schema resolved payloads are validated against.
func (b *Builder) WithSchema(schema *Schema) *Builder {
	b.schema = schema
	return b
}

// WithSchemaDefs builds the schema from a nested definition tree in place.
func (b *Builder) WithSchemaDefs(defs map[string]any) *Builder {
	schema, err := NewSchema(defs)
	if err != nil && b.err == nil {
		b.err = err
	}
	b.schema = schema
	return b
}

// WithFetcher sets the external fetch function.
func (b *Builder) WithFetcher(fetch Fetcher) *Builder {
	b.fetch = fetch
	return b
}

// WithTTL sets how long a resolved theme stays fresh.
func (b *Builder) WithTTL(ttl time.Duration) *Builder {
	b.ttl = ttl
	return b
}

// WithStaleWhileRevalidate controls whether stale entries are served
// immediately while a background refresh runs. When disabled, a stale entry
// is treated as absent and the next resolve blocks on a fresh fetch.
func (b *Builder) WithStaleWhileRevalidate(enabled bool) *Builder {
	b.swr = enabled
	return b
}

// WithValidator adds a validation function that runs at the end of the build.
// Multiple validators are executed in the order they were added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the Resolver with all specified options.
func (b *Builder) Build() (*Resolver, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive, got %v", b.ttl)
	}

	r, err := NewResolver(b.schema, b.fetch)
	if err != nil {
		return nil, err
	}
	r.ttl = b.ttl
	r.swr = b.swr

	for _, validator := range b.validators {
		if err := validator(r); err != nil {
			return nil, fmt.Errorf("resolver validation failed: %w", err)
		}
	}

	return r, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Resolver {
	r, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("livery: resolver build failed: %v", err))
	}
	return r
}

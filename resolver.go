// FILE: livery/resolver.go
package livery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Fetcher retrieves the raw, possibly partial theme payload for an
// identifier from an external source. The resolver treats any failure as
// opaque and propagates it to every caller joined on the same fetch.
type Fetcher func(ctx context.Context, themeID string) (map[string]any, error)

// Resolver turns theme identifiers into validated, fully populated Themes:
// fetch -> merge/validate against the schema -> cache -> return.
//
// Concurrent Resolve calls for the same identifier are coalesced into a
// single fetcher invocation; calls for different identifiers are fully
// independent. A Resolver owns its cache and in-flight registry exclusively,
// and separate instances share nothing.
type Resolver struct {
	schema *Schema
	fetch  Fetcher
	ttl    time.Duration
	swr    bool

	cache *Cache
	group singleflight.Group

	mu       sync.Mutex
	inflight map[string]struct{}

	now func() time.Time // injectable for tests
}

// NewResolver creates a resolver with the default ttl and stale-while-
// revalidate enabled. Use NewBuilder for full control.
func NewResolver(schema *Schema, fetch Fetcher) (*Resolver, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}
	if fetch == nil {
		return nil, fmt.Errorf("fetcher cannot be nil")
	}

	return &Resolver{
		schema:   schema,
		fetch:    fetch,
		ttl:      DefaultTTL,
		swr:      true,
		cache:    NewCache(),
		inflight: make(map[string]struct{}),
		now:      time.Now,
	}, nil
}

// Schema returns the schema this resolver validates payloads against.
func (r *Resolver) Schema() *Schema {
	return r.schema
}

// Resolve returns the theme for an identifier.
//
//  1. A fresh cache entry is returned directly, with no fetch.
//  2. A stale entry with stale-while-revalidate enabled is returned
//     immediately while at most one background refresh per key is started;
//     a failed background refresh is absorbed and the stale entry kept.
//  3. Otherwise the call blocks on a fetch, joining any fetch already in
//     flight for the key: N concurrent Resolve calls produce exactly one
//     fetcher invocation, and every caller receives the identical theme or
//     the identical error. Failures are never cached.
func (r *Resolver) Resolve(ctx context.Context, themeID string) (Theme, error) {
	if entry, ok := r.cache.Get(themeID); ok {
		if entry.Fresh(r.now()) {
			return entry.Value, nil
		}
		if r.swr {
			r.refreshInBackground(themeID)
			return entry.Value, nil
		}
		// Stale with revalidation disabled is treated as absent.
	}

	return r.doFetch(ctx, themeID)
}

// Refresh forces a foreground revalidation for the identifier, bypassing any
// cached entry. It joins a refresh already in flight, so a caller that wants
// to observe the outcome of a background revalidation can await it here.
func (r *Resolver) Refresh(ctx context.Context, themeID string) (Theme, error) {
	return r.doFetch(ctx, themeID)
}

// Get is a synchronous peek at the cached theme for an identifier, regardless
// of freshness. It never triggers a fetch; the boolean is false when nothing
// has been cached yet.
func (r *Resolver) Get(themeID string) (Theme, bool) {
	entry, ok := r.cache.Get(themeID)
	if !ok {
		return nil, false
	}
	return entry.Value, true
}

// EntryState reports the lifecycle state of the cached entry for an
// identifier. The boolean is false when nothing is cached.
func (r *Resolver) EntryState(themeID string) (EntryState, bool) {
	entry, ok := r.cache.Get(themeID)
	if !ok {
		return 0, false
	}
	return entry.State(r.now(), r.revalidating(themeID)), true
}

// Invalidate removes any cached entry for the identifier. An in-flight fetch
// is not cancelled and will still populate the cache when it settles.
func (r *Resolver) Invalidate(themeID string) {
	r.cache.Invalidate(themeID)
}

// ClearCache removes all cached entries. In-flight fetches are unaffected.
func (r *Resolver) ClearCache() {
	r.cache.Clear()
}

// doFetch coalesces concurrent fetches per key through the singleflight
// group, then fetch -> merge -> cache. Only successful merges are cached.
func (r *Resolver) doFetch(ctx context.Context, themeID string) (Theme, error) {
	result, err, _ := r.group.Do(themeID, func() (any, error) {
		return r.fetchAndStore(ctx, themeID)
	})
	if err != nil {
		return nil, err
	}
	return result.(Theme), nil
}

// refreshInBackground schedules a revalidation for the key, joining any fetch
// already in flight so at most one refresh per key runs. The result is
// deliberately absorbed: a degraded upstream must not interrupt callers that
// were already served stale data. The entry is not evicted on failure, and
// the next stale Resolve schedules a new attempt.
func (r *Resolver) refreshInBackground(themeID string) {
	ch := r.group.DoChan(themeID, func() (any, error) {
		return r.fetchAndStore(context.Background(), themeID)
	})
	go func() {
		<-ch
	}()
}

func (r *Resolver) fetchAndStore(ctx context.Context, themeID string) (Theme, error) {
	r.mu.Lock()
	r.inflight[themeID] = struct{}{}
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.inflight, themeID)
		r.mu.Unlock()
	}()

	// Once started, a fetch runs to completion and updates shared state even
	// if the original caller has gone away; joined callers must not have
	// their shared result torn down by the first caller's cancellation.
	payload, err := r.fetch(context.WithoutCancel(ctx), themeID)
	if err != nil {
		return nil, fmt.Errorf("%w for %q: %w", ErrFetch, themeID, err)
	}

	theme, err := Merge(r.schema, payload)
	if err != nil {
		return nil, fmt.Errorf("theme %q: %w", themeID, err)
	}

	r.cache.Put(themeID, theme, r.ttl)
	return theme, nil
}

func (r *Resolver) revalidating(themeID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.inflight[themeID]
	return ok
}

// FILE: livery/watch.go
package livery

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultMaxWatchers = 100 // Prevent resource exhaustion

// WatchOptions configures payload-directory watching behavior.
type WatchOptions struct {
	// PollInterval for file stat checks (minimum 100ms)
	PollInterval time.Duration

	// Debounce duration to avoid rapid invalidations while a file is
	// being rewritten
	Debounce time.Duration

	// MaxWatchers limits concurrent subscriber channels
	MaxWatchers int
}

// DefaultWatchOptions returns sensible defaults for payload watching.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval: DefaultPollInterval,
		Debounce:     DefaultDebounce,
		MaxWatchers:  DefaultMaxWatchers,
	}
}

type fileState struct {
	modTime time.Time
	size    int64
}

// PayloadWatcher polls a FileFetcher's directory and invalidates the bound
// resolver's entry for a theme whenever its payload file changes or
// disappears, so the next resolve re-fetches. Subscribers receive the theme
// identifier of every invalidation.
type PayloadWatcher struct {
	ctx      context.Context
	cancel   context.CancelFunc
	opts     WatchOptions
	fetcher  *FileFetcher
	resolver *Resolver

	mu          sync.Mutex
	states      map[string]fileState // payload path -> last observed state
	debounce    map[string]*time.Timer
	subscribers map[int64]chan string
	subID       atomic.Int64
	watching    atomic.Bool
}

// Watch starts polling the fetcher's payload directory, invalidating entries
// on the given resolver as files change. Stop the returned watcher to release
// it.
func (f *FileFetcher) Watch(resolver *Resolver, opts ...WatchOptions) *PayloadWatcher {
	opt := DefaultWatchOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.PollInterval < MinPollInterval {
		opt.PollInterval = MinPollInterval
	}
	if opt.MaxWatchers <= 0 {
		opt.MaxWatchers = DefaultMaxWatchers
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &PayloadWatcher{
		ctx:         ctx,
		cancel:      cancel,
		opts:        opt,
		fetcher:     f,
		resolver:    resolver,
		states:      make(map[string]fileState),
		debounce:    make(map[string]*time.Timer),
		subscribers: make(map[int64]chan string),
	}

	// Seed initial state so startup does not flood subscribers with
	// pseudo-changes for files that were already there.
	w.scan(false)

	go w.watchLoop()
	return w
}

// Subscribe returns a channel receiving the identifier of every invalidated
// theme. The channel is buffered; a slow consumer misses notifications rather
// than blocking the watcher. It is closed when the watcher stops.
func (w *PayloadWatcher) Subscribe() <-chan string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.subscribers) >= w.opts.MaxWatchers {
		ch := make(chan string)
		close(ch)
		return ch
	}

	ch := make(chan string, 10)
	id := w.subID.Add(1)
	w.subscribers[id] = ch

	go func() {
		<-w.ctx.Done()
		w.mu.Lock()
		delete(w.subscribers, id)
		close(ch)
		w.mu.Unlock()
	}()

	return ch
}

// IsWatching reports whether the watch loop is running.
func (w *PayloadWatcher) IsWatching() bool {
	return w.watching.Load()
}

// Stop terminates the watcher and its subscriber channels.
func (w *PayloadWatcher) Stop() {
	w.cancel()

	w.mu.Lock()
	for _, timer := range w.debounce {
		timer.Stop()
	}
	w.debounce = make(map[string]*time.Timer)
	w.mu.Unlock()
}

func (w *PayloadWatcher) watchLoop() {
	if !w.watching.CompareAndSwap(false, true) {
		return
	}
	defer w.watching.Store(false)

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.scan(true)
		}
	}
}

// scan walks the payload directory once and records per-file state. When
// notify is set, changed or deleted payloads schedule an invalidation.
func (w *PayloadWatcher) scan(notify bool) {
	entries, err := os.ReadDir(w.fetcher.dir)
	if err != nil {
		return
	}

	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !isPayloadExtension(ext) {
			continue
		}

		path := filepath.Join(w.fetcher.dir, name)
		info, err := entry.Info()
		if err != nil {
			continue
		}

		seen[path] = true
		next := fileState{modTime: info.ModTime(), size: info.Size()}

		w.mu.Lock()
		prev, existed := w.states[path]
		w.states[path] = next
		w.mu.Unlock()

		changed := !existed || !prev.modTime.Equal(next.modTime) || prev.size != next.size
		if notify && changed {
			w.scheduleInvalidation(strings.TrimSuffix(name, filepath.Ext(name)))
		}
	}

	// Deleted payloads: the stale cache entry must not outlive its source.
	w.mu.Lock()
	var removed []string
	for path := range w.states {
		if !seen[path] {
			delete(w.states, path)
			base := filepath.Base(path)
			removed = append(removed, strings.TrimSuffix(base, filepath.Ext(base)))
		}
	}
	w.mu.Unlock()

	if notify {
		for _, id := range removed {
			w.scheduleInvalidation(id)
		}
	}
}

func (w *PayloadWatcher) scheduleInvalidation(themeID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.debounce[themeID]; ok {
		timer.Stop()
	}
	w.debounce[themeID] = time.AfterFunc(w.opts.Debounce, func() {
		if w.resolver != nil {
			w.resolver.Invalidate(themeID)
		}
		w.notifySubscribers(themeID)
	})
}

func (w *PayloadWatcher) notifySubscribers(themeID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ch := range w.subscribers {
		select {
		case ch <- themeID:
		default:
			// Channel full, skip
		}
	}
}

func isPayloadExtension(ext string) bool {
	for _, known := range payloadExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// FILE: livery/timing.go
package livery

import "time"

// Core timing constants. These define the default cache lifetimes and the
// payload-watching cadence.
const (
	// Cache lifetimes
	DefaultTTL = 5 * time.Minute // Theme freshness window when none is configured

	// File watching intervals (ordered by frequency)
	MinPollInterval     = 100 * time.Millisecond // Hard floor for payload stat polling
	DefaultDebounce     = 500 * time.Millisecond // Payload change coalescence period
	DefaultPollInterval = time.Second            // Standard payload monitoring frequency
)

// Default HTTP cache directives for the serving boundary (seconds).
const (
	DefaultMaxAgeSeconds = 300  // Cache-Control max-age
	DefaultSWRSeconds    = 3600 // Cache-Control stale-while-revalidate
)

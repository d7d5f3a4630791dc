// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Resolution pipeline metrics
	IncLinkMatched(kind string)
	IncResolveSucceeded()
	IncResolveFailed()
	ObserveResolveDuration(duration time.Duration)

	// Shortener metrics
	IncShortURLCreated()
	IncShortURLReused()

	// Redirect hot-path metrics
	IncRedirectCacheHit()
	IncRedirectCacheMiss()
	ObserveRedirectDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncLinkMatched is a no-op.
func (n *NoopRecorder) IncLinkMatched(kind string) {}

// IncResolveSucceeded is a no-op.
func (n *NoopRecorder) IncResolveSucceeded() {}

// IncResolveFailed is a no-op.
func (n *NoopRecorder) IncResolveFailed() {}

// ObserveResolveDuration is a no-op.
func (n *NoopRecorder) ObserveResolveDuration(duration time.Duration) {}

// IncShortURLCreated is a no-op.
func (n *NoopRecorder) IncShortURLCreated() {}

// IncShortURLReused is a no-op.
func (n *NoopRecorder) IncShortURLReused() {}

// IncRedirectCacheHit is a no-op.
func (n *NoopRecorder) IncRedirectCacheHit() {}

// IncRedirectCacheMiss is a no-op.
func (n *NoopRecorder) IncRedirectCacheMiss() {}

// ObserveRedirectDuration is a no-op.
func (n *NoopRecorder) ObserveRedirectDuration(duration time.Duration) {}

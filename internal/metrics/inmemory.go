package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	LinksMatched           map[string]uint64
	ResolvesSucceeded      uint64
	ResolvesFailed         uint64
	ResolveDurationCount   uint64
	ResolveDurationTotalNs int64
	ShortURLsCreated       uint64
	ShortURLsReused        uint64
	RedirectCacheHits      uint64
	RedirectCacheMisses    uint64
	RedirectDurationCount  uint64
	RedirectDurationNs     int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu           sync.Mutex
	linksMatched map[string]uint64

	resolvesSucceeded      uint64
	resolvesFailed         uint64
	resolveDurationCount   uint64
	resolveDurationTotalNs int64
	shortURLsCreated       uint64
	shortURLsReused        uint64
	redirectCacheHits      uint64
	redirectCacheMisses    uint64
	redirectDurationCount  uint64
	redirectDurationNs     int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		linksMatched: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	matched := make(map[string]uint64, len(m.linksMatched))
	for k, v := range m.linksMatched {
		matched[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		LinksMatched:           matched,
		ResolvesSucceeded:      atomic.LoadUint64(&m.resolvesSucceeded),
		ResolvesFailed:         atomic.LoadUint64(&m.resolvesFailed),
		ResolveDurationCount:   atomic.LoadUint64(&m.resolveDurationCount),
		ResolveDurationTotalNs: atomic.LoadInt64(&m.resolveDurationTotalNs),
		ShortURLsCreated:       atomic.LoadUint64(&m.shortURLsCreated),
		ShortURLsReused:        atomic.LoadUint64(&m.shortURLsReused),
		RedirectCacheHits:      atomic.LoadUint64(&m.redirectCacheHits),
		RedirectCacheMisses:    atomic.LoadUint64(&m.redirectCacheMisses),
		RedirectDurationCount:  atomic.LoadUint64(&m.redirectDurationCount),
		RedirectDurationNs:     atomic.LoadInt64(&m.redirectDurationNs),
	}
}

// IncLinkMatched increments the per-shape match counter.
func (m *InMemoryRecorder) IncLinkMatched(kind string) {
	m.mu.Lock()
	m.linksMatched[kind]++
	m.mu.Unlock()
}

// IncResolveSucceeded increments the successful resolution counter.
func (m *InMemoryRecorder) IncResolveSucceeded() {
	atomic.AddUint64(&m.resolvesSucceeded, 1)
}

// IncResolveFailed increments the failed resolution counter.
func (m *InMemoryRecorder) IncResolveFailed() {
	atomic.AddUint64(&m.resolvesFailed, 1)
}

// ObserveResolveDuration records pipeline duration.
func (m *InMemoryRecorder) ObserveResolveDuration(duration time.Duration) {
	atomic.AddUint64(&m.resolveDurationCount, 1)
	atomic.AddInt64(&m.resolveDurationTotalNs, duration.Nanoseconds())
}

// IncShortURLCreated increments the new-entry counter.
func (m *InMemoryRecorder) IncShortURLCreated() {
	atomic.AddUint64(&m.shortURLsCreated, 1)
}

// IncShortURLReused increments the existing-entry counter.
func (m *InMemoryRecorder) IncShortURLReused() {
	atomic.AddUint64(&m.shortURLsReused, 1)
}

// IncRedirectCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncRedirectCacheHit() {
	atomic.AddUint64(&m.redirectCacheHits, 1)
}

// IncRedirectCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncRedirectCacheMiss() {
	atomic.AddUint64(&m.redirectCacheMisses, 1)
}

// ObserveRedirectDuration records redirect duration.
func (m *InMemoryRecorder) ObserveRedirectDuration(duration time.Duration) {
	atomic.AddUint64(&m.redirectDurationCount, 1)
	atomic.AddInt64(&m.redirectDurationNs, duration.Nanoseconds())
}

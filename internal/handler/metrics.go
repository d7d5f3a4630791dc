package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/tiktoker/tiktoker/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	kinds := make([]string, 0, len(snap.LinksMatched))
	for kind := range snap.LinksMatched {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		writeMetric(w, "tiktoker_links_matched_total{kind=%q} %d\n", kind, snap.LinksMatched[kind])
	}

	writeMetric(w, "tiktoker_resolves_total{status=\"success\"} %d\n", snap.ResolvesSucceeded)
	writeMetric(w, "tiktoker_resolves_total{status=\"failed\"} %d\n", snap.ResolvesFailed)
	writeMetric(w, "tiktoker_resolve_duration_seconds_count %d\n", snap.ResolveDurationCount)
	writeMetric(w, "tiktoker_resolve_duration_seconds_sum %.6f\n", float64(snap.ResolveDurationTotalNs)/1e9)

	writeMetric(w, "tiktoker_short_urls_total{outcome=\"created\"} %d\n", snap.ShortURLsCreated)
	writeMetric(w, "tiktoker_short_urls_total{outcome=\"reused\"} %d\n", snap.ShortURLsReused)

	writeMetric(w, "tiktoker_redirect_cache_hits_total %d\n", snap.RedirectCacheHits)
	writeMetric(w, "tiktoker_redirect_cache_misses_total %d\n", snap.RedirectCacheMisses)
	writeMetric(w, "tiktoker_redirect_duration_seconds_count %d\n", snap.RedirectDurationCount)
	writeMetric(w, "tiktoker_redirect_duration_seconds_sum %.6f\n", float64(snap.RedirectDurationNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

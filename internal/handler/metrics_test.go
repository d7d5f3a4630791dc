package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tiktoker/tiktoker/internal/metrics"
)

func TestMetricsHandler_Exposition(t *testing.T) {
	recorder := metrics.NewInMemory()
	recorder.IncLinkMatched("long")
	recorder.IncLinkMatched("long")
	recorder.IncLinkMatched("short")
	recorder.IncResolveSucceeded()
	recorder.IncShortURLCreated()
	recorder.IncRedirectCacheHit()
	recorder.ObserveRedirectDuration(3 * time.Millisecond)

	h := NewMetricsHandler(recorder)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	h.Metrics(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`tiktoker_links_matched_total{kind="long"} 2`,
		`tiktoker_links_matched_total{kind="short"} 1`,
		`tiktoker_resolves_total{status="success"} 1`,
		`tiktoker_short_urls_total{outcome="created"} 1`,
		`tiktoker_redirect_cache_hits_total 1`,
		`tiktoker_redirect_duration_seconds_count 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing metric line %q in:\n%s", want, body)
		}
	}
}

func TestMetricsHandler_NoSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	h.Metrics(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}

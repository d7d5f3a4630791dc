package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tiktoker/tiktoker/internal/handler/dto"
	"github.com/tiktoker/tiktoker/internal/tiktok"
)

type fakeMusicFetcher struct {
	detail *tiktok.MusicDetail
	err    error
}

func (f *fakeMusicFetcher) FetchMusic(ctx context.Context, musicID int64) (*tiktok.MusicDetail, error) {
	return f.detail, f.err
}

func musicRouter(svc MusicFetcher) http.Handler {
	r := chi.NewRouter()
	h := NewMusicHandler(svc, discardLogger())
	r.Get("/api/v1/music/{musicID}", h.Detail)
	return r
}

func TestMusicHandler_Detail(t *testing.T) {
	svc := &fakeMusicFetcher{detail: &tiktok.MusicDetail{VideoCount: 12345}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/music/6745923456789", nil)
	rec := httptest.NewRecorder()

	musicRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var response dto.MusicResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.VideoCount != 12345 {
		t.Errorf("video_count = %d", response.VideoCount)
	}
}

func TestMusicHandler_NotFound(t *testing.T) {
	svc := &fakeMusicFetcher{err: tiktok.ErrMusicNotFound}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/music/6745923456789", nil)
	rec := httptest.NewRecorder()

	musicRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestMusicHandler_UpstreamUnavailable(t *testing.T) {
	svc := &fakeMusicFetcher{err: tiktok.ErrUpstreamUnavailable}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/music/6745923456789", nil)
	rec := httptest.NewRecorder()

	musicRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", rec.Code)
	}
}

func TestMusicHandler_BadID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/music/abc", nil)
	rec := httptest.NewRecorder()

	musicRouter(&fakeMusicFetcher{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

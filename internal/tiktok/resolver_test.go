package tiktok

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestResolver(t *testing.T, handler http.HandlerFunc) (*Resolver, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewResolver(NewHTTPClient(2 * time.Second)), srv
}

func TestResolveShortLink(t *testing.T) {
	r, srv := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Location", "https://www.tiktok.com/@someone/video/7068971038273423621")
		w.WriteHeader(http.StatusMovedPermanently)
	})

	id, err := r.ResolveShortLink(context.Background(), srv.URL+"/PTPdh1wVay")
	if err != nil {
		t.Fatalf("ResolveShortLink: %v", err)
	}
	if id != 7068971038273423621 {
		t.Errorf("id = %d", id)
	}
}

func TestResolveShortLink_NoRedirect(t *testing.T) {
	r, srv := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := r.ResolveShortLink(context.Background(), srv.URL+"/PTPdh1wVay")
	if !errors.Is(err, ErrUnresolvableLink) {
		t.Errorf("err = %v, want ErrUnresolvableLink", err)
	}
}

func TestResolveShortLink_UnrecognizableTarget(t *testing.T) {
	r, srv := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Location", "https://example.com/somewhere-else")
		w.WriteHeader(http.StatusFound)
	})

	_, err := r.ResolveShortLink(context.Background(), srv.URL+"/PTPdh1wVay")
	if !errors.Is(err, ErrUnresolvableLink) {
		t.Errorf("err = %v, want ErrUnresolvableLink", err)
	}
}

func TestResolveShortLink_TargetIsAnotherShortLink(t *testing.T) {
	// One hop is the contract; a short target counts as unresolvable.
	r, srv := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Location", "https://vm.tiktok.com/QQQffff99")
		w.WriteHeader(http.StatusFound)
	})

	_, err := r.ResolveShortLink(context.Background(), srv.URL+"/PTPdh1wVay")
	if !errors.Is(err, ErrUnresolvableLink) {
		t.Errorf("err = %v, want ErrUnresolvableLink", err)
	}
}

func TestResolveShortLink_TransportFailure(t *testing.T) {
	r, srv := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {})
	srv.Close()

	_, err := r.ResolveShortLink(context.Background(), srv.URL+"/PTPdh1wVay")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("err = %v, want ErrUpstreamUnavailable", err)
	}
}

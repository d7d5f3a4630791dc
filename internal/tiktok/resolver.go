package tiktok

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tiktoker/tiktoker/internal/match"
)

// ErrUnresolvableLink means the redirect did not yield a recognizable link.
var ErrUnresolvableLink = errors.New("redirect did not yield a recognizable link")

// Resolver turns a short-form link into the canonical numeric video id by
// following exactly one redirect hop. Upstream redirects short slugs
// straight to the canonical long-form URL, so chains are never chased.
type Resolver struct {
	client *http.Client
}

// NewResolver creates a Resolver. The client must not follow redirects;
// NewHTTPClient returns a suitable one.
func NewResolver(client *http.Client) *Resolver {
	return &Resolver{client: client}
}

// ResolveShortLink issues a single non-following GET against the short URL,
// re-matches the Location header, and returns the numeric id found there.
func (r *Resolver) ResolveShortLink(ctx context.Context, shortURL string) (uint64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, shortURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build redirect request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	location := resp.Header.Get("Location")
	if location == "" {
		return 0, fmt.Errorf("%w: no redirect from %s", ErrUnresolvableLink, shortURL)
	}

	d := match.Find(location)
	if d == nil {
		return 0, fmt.Errorf("%w: target %q", ErrUnresolvableLink, location)
	}

	id, err := d.NumericID()
	if err != nil {
		// The target is itself a short form; a single hop is the contract.
		return 0, fmt.Errorf("%w: %v", ErrUnresolvableLink, err)
	}
	return id, nil
}

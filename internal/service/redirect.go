package service

import (
	"context"
	"errors"
	"time"

	"github.com/tiktoker/tiktoker/internal/cache"
	"github.com/tiktoker/tiktoker/internal/metrics"
	"github.com/tiktoker/tiktoker/internal/model"
	"github.com/tiktoker/tiktoker/internal/repository"
)

// ErrShortLinkNotFound means no shortener entry exists for the slug.
var ErrShortLinkNotFound = errors.New("short link not found")

// RedirectService resolves a slug to its shortener entry for redirect.
type RedirectService struct {
	repo    *repository.Repository
	cache   *cache.Cache
	metrics metrics.Recorder
}

// NewRedirectService creates a RedirectService.
func NewRedirectService(repo *repository.Repository, cacheClient *cache.Cache, recorder metrics.Recorder) *RedirectService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RedirectService{
		repo:    repo,
		cache:   cacheClient,
		metrics: recorder,
	}
}

// Lookup resolves a slug to its entry. This is the hot path: cache first,
// negative cache for repeated misses, Postgres as the source of truth.
// The bool result reports whether the cache served the entry.
func (s *RedirectService) Lookup(ctx context.Context, slug string) (*model.ShortenerEntry, bool, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRedirectDuration(time.Since(start))
	}()

	cached, err := s.cache.GetEntry(ctx, slug)
	if err == nil {
		s.metrics.IncRedirectCacheHit()
		return cached, true, nil
	}

	if errors.Is(err, cache.ErrCacheMiss) {
		s.metrics.IncRedirectCacheMiss()
		negative, _ := s.cache.IsNegativelyCached(ctx, slug)
		if negative {
			return nil, false, ErrShortLinkNotFound
		}
	}
	// Any other Redis error falls through to the database.

	entry, err := s.repo.GetEntryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			_ = s.cache.SetNegativeCache(ctx, slug)
			return nil, false, ErrShortLinkNotFound
		}
		return nil, false, err
	}

	// Backfill; a failed cache write must not fail the redirect.
	_ = s.cache.SetEntry(ctx, entry)

	return entry, false, nil
}

package service

import (
	"context"
	"time"

	"github.com/tiktoker/tiktoker/internal/match"
	"github.com/tiktoker/tiktoker/internal/metrics"
	"github.com/tiktoker/tiktoker/internal/model"
)

// ShortLinkResolver resolves a short-form link to its numeric video id.
type ShortLinkResolver interface {
	ResolveShortLink(ctx context.Context, shortURL string) (uint64, error)
}

// MetadataFetcher fetches and normalizes upstream video metadata.
type MetadataFetcher interface {
	Fetch(ctx context.Context, videoID uint64) (*model.VideoRecord, error)
}

// Shortener returns the canonical short URL for a source URI.
type Shortener interface {
	GetOrCreate(ctx context.Context, sourceURI string) (string, error)
}

// ResolutionService runs the full pipeline for one incoming message:
// match, maybe redirect-resolve, fetch metadata, obtain the short URL.
// Stateless; either fully succeeds or fails at the point of first failure.
// No retries here - retry policy belongs to the caller.
type ResolutionService struct {
	resolver  ShortLinkResolver
	fetcher   MetadataFetcher
	shortener Shortener
	metrics   metrics.Recorder
}

// NewResolutionService creates a ResolutionService.
func NewResolutionService(resolver ShortLinkResolver, fetcher MetadataFetcher, shortener Shortener, recorder metrics.Recorder) *ResolutionService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ResolutionService{
		resolver:  resolver,
		fetcher:   fetcher,
		shortener: shortener,
		metrics:   recorder,
	}
}

// Resolve scans content for a link and resolves it end to end.
// Text without a recognizable link returns (nil, nil): common, not a fault.
func (s *ResolutionService) Resolve(ctx context.Context, content string) (*model.ResolvedLink, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveResolveDuration(time.Since(start))
	}()

	d := match.Find(content)
	if d == nil {
		return nil, nil
	}
	s.metrics.IncLinkMatched(d.Kind.String())

	var videoID uint64
	var err error
	if d.Kind.IsShort() {
		videoID, err = s.resolver.ResolveShortLink(ctx, d.CanonicalURL)
	} else {
		videoID, err = d.NumericID()
	}
	if err != nil {
		s.metrics.IncResolveFailed()
		return nil, err
	}

	record, err := s.fetcher.Fetch(ctx, videoID)
	if err != nil {
		s.metrics.IncResolveFailed()
		return nil, err
	}

	shortURL, err := s.shortener.GetOrCreate(ctx, record.Video.SourceURI)
	if err != nil {
		s.metrics.IncResolveFailed()
		return nil, err
	}

	s.metrics.IncResolveSucceeded()
	return &model.ResolvedLink{
		Record:   record,
		ShortURL: shortURL,
		Platform: d.Platform,
	}, nil
}

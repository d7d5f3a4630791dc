// Package service provides business logic for the application.
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tiktoker/tiktoker/internal/metrics"
	"github.com/tiktoker/tiktoker/internal/model"
	"github.com/tiktoker/tiktoker/internal/repository"
)

// ErrSlugExhausted is defensive only: at 8 random URL-safe characters the
// collision probability makes reaching it practically impossible.
var ErrSlugExhausted = errors.New("slug generation exhausted retries")

const (
	// slugBytes of randomness yield 8 base64url characters.
	slugBytes       = 6
	maxSlugAttempts = 10
)

// ShortenerStore is the persistence surface the shortener needs. The store
// must enforce uniqueness of source_uri and slug itself; GetOrCreate's race
// handling depends on it.
type ShortenerStore interface {
	GetEntryBySourceURI(ctx context.Context, sourceURI string) (*model.ShortenerEntry, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	CreateEntry(ctx context.Context, entry *model.ShortenerEntry) error
}

// ShortURLService maps a source video URI to its one canonical short URL.
type ShortURLService struct {
	store   ShortenerStore
	baseURL string
	metrics metrics.Recorder
}

// NewShortURLService creates a ShortURLService minting links under baseURL.
func NewShortURLService(store ShortenerStore, baseURL string, recorder metrics.Recorder) *ShortURLService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ShortURLService{
		store:   store,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		metrics: recorder,
	}
}

// GetOrCreate returns the canonical short URL for a source URI, creating the
// entry if it does not exist yet. Safe under arbitrary concurrency: when two
// callers race on the same brand-new source URI, exactly one insert wins and
// the loser re-reads the winner's row.
func (s *ShortURLService) GetOrCreate(ctx context.Context, sourceURI string) (string, error) {
	entry, err := s.store.GetEntryBySourceURI(ctx, sourceURI)
	if err == nil {
		s.metrics.IncShortURLReused()
		return entry.ShortURL, nil
	}
	if !errors.Is(err, repository.ErrEntryNotFound) {
		return "", err
	}

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := generateSlug()
		if err != nil {
			return "", err
		}

		taken, err := s.store.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if taken {
			continue
		}

		newEntry := &model.ShortenerEntry{
			ID:        ulid.Make().String(),
			SourceURI: sourceURI,
			Slug:      slug,
			ShortURL:  s.baseURL + "/" + slug,
			CreatedAt: time.Now().UTC(),
		}

		err = s.store.CreateEntry(ctx, newEntry)
		switch {
		case err == nil:
			s.metrics.IncShortURLCreated()
			return newEntry.ShortURL, nil

		case errors.Is(err, repository.ErrSourceURIExists):
			// Lost the insert race to a concurrent caller. Not an error:
			// discard the slug and return the winner's short URL.
			existing, err := s.store.GetEntryBySourceURI(ctx, sourceURI)
			if err != nil {
				return "", fmt.Errorf("re-read after duplicate source uri: %w", err)
			}
			s.metrics.IncShortURLReused()
			return existing.ShortURL, nil

		case errors.Is(err, repository.ErrSlugExists):
			// Another caller claimed the same slug first. Fresh slug, retry.
			continue

		default:
			return "", err
		}
	}

	return "", ErrSlugExhausted
}

// generateSlug returns a fixed-length random URL-safe slug.
func generateSlug() (string, error) {
	b := make([]byte, slugBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

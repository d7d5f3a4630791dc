package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tiktoker/tiktoker/internal/model"
)

// Cache key prefixes and TTLs.
const (
	entryKeyPrefix    = "entry:"
	negCacheKeySuffix = ":neg"

	// DefaultEntryTTL is the TTL for cached shortener entries. Entries are
	// immutable, so the TTL only bounds memory, not staleness.
	DefaultEntryTTL = 24 * time.Hour

	// NegativeCacheTTL is the TTL for negative cache entries.
	NegativeCacheTTL = 5 * time.Minute
)

// ErrCacheMiss means the key is not cached.
var ErrCacheMiss = errors.New("cache miss")

func entryKey(slug string) string {
	return entryKeyPrefix + slug
}

// GetEntry retrieves a shortener entry from cache by slug.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetEntry(ctx context.Context, slug string) (*model.ShortenerEntry, error) {
	result, err := c.client.HGetAll(ctx, entryKey(slug)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	return &model.ShortenerEntry{
		ID:        result["id"],
		SourceURI: result["source_uri"],
		Slug:      slug,
		ShortURL:  result["short_url"],
	}, nil
}

// SetEntry stores a shortener entry in cache, keyed by slug.
func (c *Cache) SetEntry(ctx context.Context, entry *model.ShortenerEntry) error {
	key := entryKey(entry.Slug)

	fields := map[string]any{
		"id":         entry.ID,
		"source_uri": entry.SourceURI,
		"short_url":  entry.ShortURL,
	}

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, DefaultEntryTTL)
	pipe.Del(ctx, key+negCacheKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache shortener entry: %w", err)
	}

	return nil
}

// IsNegativelyCached checks if a slug is known not to exist.
func (c *Cache) IsNegativelyCached(ctx context.Context, slug string) (bool, error) {
	exists, err := c.client.Exists(ctx, entryKey(slug)+negCacheKeySuffix).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check negative cache: %w", err)
	}

	return exists > 0, nil
}

// SetNegativeCache marks a slug as not found.
func (c *Cache) SetNegativeCache(ctx context.Context, slug string) error {
	key := entryKey(slug) + negCacheKeySuffix

	if err := c.client.SetEx(ctx, key, "", NegativeCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set negative cache: %w", err)
	}

	return nil
}

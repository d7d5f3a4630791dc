package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tiktoker/tiktoker/internal/model"
)

// Common errors for shortener operations.
var (
	ErrEntryNotFound   = errors.New("shortener entry not found")
	ErrSourceURIExists = errors.New("entry already exists for source uri")
	ErrSlugExists      = errors.New("slug already exists")
)

// CreateEntry inserts a new shortener entry. Uniqueness of source_uri and
// slug is enforced by the database, not here: concurrent callers racing on
// the same brand-new source URI are expected, and the loser of the race gets
// ErrSourceURIExists to re-read the winner's row.
func (r *Repository) CreateEntry(ctx context.Context, entry *model.ShortenerEntry) error {
	query := `
		INSERT INTO shortener_entries (id, source_uri, slug, short_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.SourceURI,
		entry.Slug,
		entry.ShortURL,
		entry.CreatedAt,
	)

	if err != nil {
		if pgErr := uniqueViolation(err); pgErr != nil {
			switch {
			case strings.Contains(pgErr.ConstraintName, "source_uri"):
				return ErrSourceURIExists
			case strings.Contains(pgErr.ConstraintName, "slug"):
				return ErrSlugExists
			}
		}
		return fmt.Errorf("failed to create shortener entry: %w", err)
	}

	return nil
}

// GetEntryBySourceURI retrieves the canonical entry for a source URI.
func (r *Repository) GetEntryBySourceURI(ctx context.Context, sourceURI string) (*model.ShortenerEntry, error) {
	query := `
		SELECT id, source_uri, slug, short_url, created_at
		FROM shortener_entries
		WHERE source_uri = $1
	`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, sourceURI))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry by source uri: %w", err)
	}

	return entry, nil
}

// GetEntryBySlug retrieves an entry by its slug.
// This is the hot path for short-link redirects.
func (r *Repository) GetEntryBySlug(ctx context.Context, slug string) (*model.ShortenerEntry, error) {
	query := `
		SELECT id, source_uri, slug, short_url, created_at
		FROM shortener_entries
		WHERE slug = $1
	`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry by slug: %w", err)
	}

	return entry, nil
}

// SlugExists checks if a slug is already taken.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM shortener_entries WHERE slug = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}

	return exists, nil
}

// scanEntry scans a single row into a ShortenerEntry.
func scanEntry(row pgx.Row) (*model.ShortenerEntry, error) {
	var entry model.ShortenerEntry
	err := row.Scan(
		&entry.ID,
		&entry.SourceURI,
		&entry.Slug,
		&entry.ShortURL,
		&entry.CreatedAt,
	)
	return &entry, err
}

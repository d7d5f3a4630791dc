// Package testutil provides helpers for integration tests against real
// Postgres and Redis instances.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tiktoker/tiktoker/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420421

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// resetSchema applies a migration's down then up script.
func resetSchema(ctx context.Context, pool *pgxpool.Pool, name string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	for _, suffix := range []string{".down.sql", ".up.sql"} {
		path := filepath.Join(root, "migrations", name+suffix)
		sql, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", path, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", path, err)
		}
	}

	return nil
}

// ResetShortenerSchema drops and recreates the shortener schema for tests.
func ResetShortenerSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000001_shortener")
}

// ResetGuildConfigsSchema drops and recreates the guild configs schema.
func ResetGuildConfigsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000002_guild_configs")
}

// ResetUsageSchema drops and recreates the usage schema.
func ResetUsageSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000003_usage")
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// NewTestEntry creates a shortener entry with sensible defaults.
func NewTestEntry(t testing.TB, slug string) *model.ShortenerEntry {
	t.Helper()
	return &model.ShortenerEntry{
		ID:        ulid.Make().String(),
		SourceURI: UniqueID("uri"),
		Slug:      slug,
		ShortURL:  "https://m.tiktoker.win/" + slug,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestGuildConfig creates a guild config with non-default values so
// round trips are detectable.
func NewTestGuildConfig(t testing.TB, guildID int64) *model.GuildConfig {
	t.Helper()
	return &model.GuildConfig{
		GuildID:             guildID,
		AutoEmbed:           false,
		DeleteOrigin:        true,
		SuppressOriginEmbed: false,
		Language:            "de",
		UpdatedAt:           time.Now().UTC(),
	}
}

// UniqueID generates a unique string for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

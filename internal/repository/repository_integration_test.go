package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tiktoker/tiktoker/internal/model"
	"github.com/tiktoker/tiktoker/internal/repository"
	"github.com/tiktoker/tiktoker/internal/testutil"
)

func newRepoTestEnv(t *testing.T) (context.Context, *repository.Repository) {
	t.Helper()

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := repository.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetShortenerSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset shortener schema: %v", err)
	}
	if err := testutil.ResetGuildConfigsSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset guild configs schema: %v", err)
	}
	if err := testutil.ResetUsageSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset usage schema: %v", err)
	}

	return ctx, repo
}

func TestCreateEntry_Roundtrip(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	entry := testutil.NewTestEntry(t, "abcd1234")
	if err := repo.CreateEntry(ctx, entry); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	bySlug, err := repo.GetEntryBySlug(ctx, entry.Slug)
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if bySlug.SourceURI != entry.SourceURI {
		t.Errorf("source_uri = %q, want %q", bySlug.SourceURI, entry.SourceURI)
	}

	byURI, err := repo.GetEntryBySourceURI(ctx, entry.SourceURI)
	if err != nil {
		t.Fatalf("get by source uri: %v", err)
	}
	if byURI.Slug != entry.Slug {
		t.Errorf("slug = %q, want %q", byURI.Slug, entry.Slug)
	}

	exists, err := repo.SlugExists(ctx, entry.Slug)
	if err != nil {
		t.Fatalf("slug exists: %v", err)
	}
	if !exists {
		t.Error("SlugExists = false for persisted slug")
	}
}

func TestCreateEntry_DuplicateSourceURI(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	first := testutil.NewTestEntry(t, "firstff1")
	if err := repo.CreateEntry(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}

	dup := testutil.NewTestEntry(t, "secondd2")
	dup.SourceURI = first.SourceURI

	err := repo.CreateEntry(ctx, dup)
	if !errors.Is(err, repository.ErrSourceURIExists) {
		t.Fatalf("err = %v, want ErrSourceURIExists", err)
	}
}

func TestCreateEntry_DuplicateSlug(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	first := testutil.NewTestEntry(t, "sameslug")
	if err := repo.CreateEntry(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}

	dup := testutil.NewTestEntry(t, "sameslug")

	err := repo.CreateEntry(ctx, dup)
	if !errors.Is(err, repository.ErrSlugExists) {
		t.Fatalf("err = %v, want ErrSlugExists", err)
	}
}

func TestGetEntry_NotFound(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	if _, err := repo.GetEntryBySlug(ctx, "missing1"); !errors.Is(err, repository.ErrEntryNotFound) {
		t.Errorf("by slug err = %v, want ErrEntryNotFound", err)
	}
	if _, err := repo.GetEntryBySourceURI(ctx, "missing-uri"); !errors.Is(err, repository.ErrEntryNotFound) {
		t.Errorf("by source uri err = %v, want ErrEntryNotFound", err)
	}
}

func TestGuildConfig_UpsertRoundtrip(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	if _, err := repo.GetGuildConfig(ctx, 42); !errors.Is(err, repository.ErrGuildConfigNotFound) {
		t.Fatalf("err = %v, want ErrGuildConfigNotFound", err)
	}

	cfg := testutil.NewTestGuildConfig(t, 42)
	if err := repo.UpsertGuildConfig(ctx, cfg); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.GetGuildConfig(ctx, 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Language != "de" || got.AutoEmbed || !got.DeleteOrigin {
		t.Errorf("config roundtrip mismatch: %+v", got)
	}

	// Second upsert replaces in place.
	cfg.Language = "en"
	cfg.AutoEmbed = true
	if err := repo.UpsertGuildConfig(ctx, cfg); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err = repo.GetGuildConfig(ctx, 42)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Language != "en" || !got.AutoEmbed {
		t.Errorf("updated config mismatch: %+v", got)
	}
}

func TestUsage_InsertAndList(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	userID := int64(7)
	messageID := int64(99)
	for i := 0; i < 3; i++ {
		rec := &model.UsageRecord{
			ID:        ulid.Make().String(),
			GuildID:   42,
			UserID:    &userID,
			VideoID:   uint64(1000 + i),
			MessageID: &messageID,
			EntryTime: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		if err := repo.InsertUsage(ctx, rec); err != nil {
			t.Fatalf("insert usage %d: %v", i, err)
		}
	}

	guildRecords, err := repo.ListGuildUsage(ctx, 42)
	if err != nil {
		t.Fatalf("list guild usage: %v", err)
	}
	if len(guildRecords) != 3 {
		t.Fatalf("got %d guild records, want 3", len(guildRecords))
	}
	// Newest first.
	if guildRecords[0].VideoID != 1002 {
		t.Errorf("first record video_id = %d, want 1002", guildRecords[0].VideoID)
	}

	userRecords, err := repo.ListUserUsage(ctx, userID)
	if err != nil {
		t.Fatalf("list user usage: %v", err)
	}
	if len(userRecords) != 3 {
		t.Fatalf("got %d user records, want 3", len(userRecords))
	}
}

func TestUsage_Scrub(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	userID := int64(7)
	messageID := int64(99)
	rec := &model.UsageRecord{
		ID:        ulid.Make().String(),
		GuildID:   42,
		UserID:    &userID,
		VideoID:   1000,
		MessageID: &messageID,
		EntryTime: time.Now().UTC(),
	}
	if err := repo.InsertUsage(ctx, rec); err != nil {
		t.Fatalf("insert usage: %v", err)
	}

	if err := repo.ScrubUserUsage(ctx, 42, userID); err != nil {
		t.Fatalf("scrub: %v", err)
	}

	guildRecords, err := repo.ListGuildUsage(ctx, 42)
	if err != nil {
		t.Fatalf("list guild usage: %v", err)
	}
	if len(guildRecords) != 1 {
		t.Fatalf("got %d records, want 1 (rows stay, attribution goes)", len(guildRecords))
	}
	if guildRecords[0].UserID != nil || guildRecords[0].MessageID != nil {
		t.Errorf("scrubbed record still attributed: %+v", guildRecords[0])
	}

	userRecords, err := repo.ListUserUsage(ctx, userID)
	if err != nil {
		t.Fatalf("list user usage: %v", err)
	}
	if len(userRecords) != 0 {
		t.Errorf("got %d user records after scrub, want 0", len(userRecords))
	}
}

func TestOptOut_AddRemoveCheck(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	optedOut, err := repo.IsOptedOut(ctx, 7)
	if err != nil {
		t.Fatalf("is opted out: %v", err)
	}
	if optedOut {
		t.Fatal("fresh user should not be opted out")
	}

	if err := repo.AddOptOut(ctx, 7); err != nil {
		t.Fatalf("add opt out: %v", err)
	}
	// Idempotent.
	if err := repo.AddOptOut(ctx, 7); err != nil {
		t.Fatalf("second add opt out: %v", err)
	}

	optedOut, err = repo.IsOptedOut(ctx, 7)
	if err != nil {
		t.Fatalf("is opted out: %v", err)
	}
	if !optedOut {
		t.Fatal("user should be opted out")
	}

	if err := repo.RemoveOptOut(ctx, 7); err != nil {
		t.Fatalf("remove opt out: %v", err)
	}

	optedOut, err = repo.IsOptedOut(ctx, 7)
	if err != nil {
		t.Fatalf("is opted out: %v", err)
	}
	if optedOut {
		t.Fatal("user should be opted back in")
	}
}

package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/tiktoker/tiktoker/internal/model"
	"github.com/tiktoker/tiktoker/internal/repository"
)

// fakeStore enforces the same uniqueness rules as the real Postgres schema,
// under a mutex so concurrent GetOrCreate calls race realistically.
type fakeStore struct {
	mu          sync.Mutex
	bySourceURI map[string]*model.ShortenerEntry
	bySlug      map[string]*model.ShortenerEntry
	inserts     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bySourceURI: make(map[string]*model.ShortenerEntry),
		bySlug:      make(map[string]*model.ShortenerEntry),
	}
}

func (f *fakeStore) GetEntryBySourceURI(ctx context.Context, sourceURI string) (*model.ShortenerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.bySourceURI[sourceURI]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, repository.ErrEntryNotFound
}

func (f *fakeStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.bySlug[slug]
	return ok, nil
}

func (f *fakeStore) CreateEntry(ctx context.Context, entry *model.ShortenerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bySourceURI[entry.SourceURI]; ok {
		return repository.ErrSourceURIExists
	}
	if _, ok := f.bySlug[entry.Slug]; ok {
		return repository.ErrSlugExists
	}
	copied := *entry
	f.bySourceURI[entry.SourceURI] = &copied
	f.bySlug[entry.Slug] = &copied
	f.inserts++
	return nil
}

func (f *fakeStore) entryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bySourceURI)
}

func TestGetOrCreate_NewSourceURI(t *testing.T) {
	store := newFakeStore()
	svc := NewShortURLService(store, "https://m.tiktoker.win/", nil)

	shortURL, err := svc.GetOrCreate(context.Background(), "v09044g40000abc")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	if !strings.HasPrefix(shortURL, "https://m.tiktoker.win/") {
		t.Errorf("shortURL = %q, want base URL prefix without double slash", shortURL)
	}
	slug := strings.TrimPrefix(shortURL, "https://m.tiktoker.win/")
	if len(slug) != 8 {
		t.Errorf("slug %q has length %d, want 8", slug, len(slug))
	}
	if strings.ContainsAny(slug, "+/") {
		t.Errorf("slug %q contains non-URL-safe characters", slug)
	}
}

func TestGetOrCreate_ExistingSourceURI(t *testing.T) {
	store := newFakeStore()
	svc := NewShortURLService(store, "https://m.tiktoker.win", nil)

	first, err := svc.GetOrCreate(context.Background(), "uri-1")
	if err != nil {
		t.Fatalf("first GetOrCreate: %v", err)
	}
	second, err := svc.GetOrCreate(context.Background(), "uri-1")
	if err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}

	if first != second {
		t.Errorf("short URLs differ: %q vs %q", first, second)
	}
	if store.inserts != 1 {
		t.Errorf("inserts = %d, want 1", store.inserts)
	}
}

func TestGetOrCreate_DistinctSourceURIs(t *testing.T) {
	store := newFakeStore()
	svc := NewShortURLService(store, "https://m.tiktoker.win", nil)

	a, err := svc.GetOrCreate(context.Background(), "uri-a")
	if err != nil {
		t.Fatalf("GetOrCreate a: %v", err)
	}
	b, err := svc.GetOrCreate(context.Background(), "uri-b")
	if err != nil {
		t.Fatalf("GetOrCreate b: %v", err)
	}

	if a == b {
		t.Errorf("distinct source URIs share short URL %q", a)
	}
	if store.entryCount() != 2 {
		t.Errorf("entries = %d, want 2", store.entryCount())
	}
}

func TestGetOrCreate_ConcurrentSameSourceURI(t *testing.T) {
	store := newFakeStore()
	svc := NewShortURLService(store, "https://m.tiktoker.win", nil)

	const n = 50
	results := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = svc.GetOrCreate(context.Background(), "hot-uri")
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("call %d failed: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Fatalf("call %d returned %q, call 0 returned %q", i, results[i], results[0])
		}
	}
	if store.entryCount() != 1 {
		t.Errorf("entries = %d, want exactly 1", store.entryCount())
	}
}

// scriptedStore forces specific insert outcomes to exercise the race arms.
type scriptedStore struct {
	*fakeStore
	createErrs []error
}

func (s *scriptedStore) CreateEntry(ctx context.Context, entry *model.ShortenerEntry) error {
	if len(s.createErrs) > 0 {
		err := s.createErrs[0]
		s.createErrs = s.createErrs[1:]
		if err != nil {
			if errors.Is(err, repository.ErrSourceURIExists) {
				// Simulate the concurrent winner's row appearing.
				winner := &model.ShortenerEntry{
					SourceURI: entry.SourceURI,
					Slug:      "winner12",
					ShortURL:  "https://m.tiktoker.win/winner12",
				}
				s.fakeStore.mu.Lock()
				s.fakeStore.bySourceURI[entry.SourceURI] = winner
				s.fakeStore.bySlug[winner.Slug] = winner
				s.fakeStore.mu.Unlock()
			}
			return err
		}
	}
	return s.fakeStore.CreateEntry(ctx, entry)
}

func TestGetOrCreate_LosesInsertRace(t *testing.T) {
	store := &scriptedStore{
		fakeStore:  newFakeStore(),
		createErrs: []error{repository.ErrSourceURIExists},
	}
	svc := NewShortURLService(store, "https://m.tiktoker.win", nil)

	shortURL, err := svc.GetOrCreate(context.Background(), "raced-uri")
	if err != nil {
		t.Fatalf("GetOrCreate after lost race: %v", err)
	}
	if shortURL != "https://m.tiktoker.win/winner12" {
		t.Errorf("shortURL = %q, want the winner's", shortURL)
	}
}

func TestGetOrCreate_SlugCollisionRetries(t *testing.T) {
	store := &scriptedStore{
		fakeStore:  newFakeStore(),
		createErrs: []error{repository.ErrSlugExists, nil},
	}
	svc := NewShortURLService(store, "https://m.tiktoker.win", nil)

	shortURL, err := svc.GetOrCreate(context.Background(), "collide-uri")
	if err != nil {
		t.Fatalf("GetOrCreate after slug collision: %v", err)
	}
	if shortURL == "" {
		t.Error("empty short URL")
	}
	if store.inserts != 1 {
		t.Errorf("inserts = %d, want 1 after retry", store.inserts)
	}
}

func TestGenerateSlug(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		slug, err := generateSlug()
		if err != nil {
			t.Fatalf("generateSlug: %v", err)
		}
		if len(slug) != 8 {
			t.Fatalf("slug %q has length %d, want 8", slug, len(slug))
		}
		if strings.ContainsAny(slug, "+/=") {
			t.Fatalf("slug %q is not URL-safe", slug)
		}
		seen[slug] = true
	}
	if len(seen) < 95 {
		t.Errorf("only %d distinct slugs out of 100", len(seen))
	}
}

package keyword

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoehoe5252-yong/yong2/internal/models"
	"github.com/hoehoe5252-yong/yong2/internal/testhelpers"
)

type stubBackend struct {
	name  string
	items []Item
	err   error
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) Search(context.Context, string) ([]Item, error) {
	return s.items, s.err
}

type memoryStore struct {
	upserts    []*models.KeywordArticle
	existing   map[string]bool
	nextID     int64
	bookmarked []int64
	upsertErr  error
}

func (m *memoryStore) Upsert(_ context.Context, a *models.KeywordArticle) (bool, error) {
	if m.upsertErr != nil {
		return false, m.upsertErr
	}
	m.nextID++
	a.ID = m.nextID
	m.upserts = append(m.upserts, a)
	if m.existing[a.URL] {
		return false, nil
	}
	return true, nil
}

func (m *memoryStore) UpsertKeyword(_ context.Context, id int64) error {
	m.bookmarked = append(m.bookmarked, id)
	return nil
}

func timePtr(t time.Time) *time.Time { return &t }

func TestIngestMergesAndBookmarks(t *testing.T) {
	now := time.Now()
	google := &stubBackend{name: "google", items: []Item{
		{Title: "Cloud Shift", Press: "Daily Tech", URL: "https://a.example.com/1", PublishedAt: timePtr(now)},
		{Title: "Other Story", Press: "Weekly", URL: "https://a.example.com/2", PublishedAt: timePtr(now)},
	}}
	naver := &stubBackend{name: "naver", items: []Item{
		// Same article under a different URL; title collapses them.
		{Title: "Cloud Shift", Press: "Daily Tech", URL: "https://b.example.com/1", PublishedAt: timePtr(now.Add(-time.Hour))},
	}}

	store := &memoryStore{}
	ing := NewIngestor([]Backend{google, naver}, store, store, 30, 30, testhelpers.NewTestLogger())
	ing.now = func() time.Time { return now }

	res, err := ing.Ingest(context.Background(), "클라우드")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Inserted)
	assert.Zero(t, res.Failures)
	require.Len(t, store.upserts, 2)
	assert.Equal(t, "[Daily Tech] Cloud Shift", store.upserts[0].Title)
	assert.Equal(t, "클라우드", store.upserts[0].KeywordNorm)
	assert.Len(t, store.bookmarked, 2)
}

func TestIngestWindowAndCap(t *testing.T) {
	now := time.Now()
	backend := &stubBackend{name: "google", items: []Item{
		{Title: "Fresh A", URL: "https://x.example.com/a", PublishedAt: timePtr(now)},
		{Title: "Fresh B", URL: "https://x.example.com/b", PublishedAt: timePtr(now.AddDate(0, 0, -1))},
		{Title: "Stale", URL: "https://x.example.com/c", PublishedAt: timePtr(now.AddDate(0, 0, -40))},
		{Title: "Undated", URL: "https://x.example.com/d"},
	}}

	store := &memoryStore{}
	ing := NewIngestor([]Backend{backend}, store, store, 30, 1, testhelpers.NewTestLogger())
	ing.now = func() time.Time { return now }

	res, err := ing.Ingest(context.Background(), "go")
	require.NoError(t, err)

	// Stale and undated items fall out of the window; the cap keeps one.
	assert.Equal(t, 1, res.Inserted)
	require.Len(t, store.upserts, 1)
	assert.Equal(t, "Fresh A", store.upserts[0].Title)
}

func TestIngestOneBackendFailing(t *testing.T) {
	now := time.Now()
	good := &stubBackend{name: "google", items: []Item{
		{Title: "Works", URL: "https://x.example.com/ok", PublishedAt: timePtr(now)},
	}}
	bad := &stubBackend{name: "naver", err: errors.New("boom")}

	store := &memoryStore{}
	ing := NewIngestor([]Backend{good, bad}, store, store, 30, 30, testhelpers.NewTestLogger())
	ing.now = func() time.Time { return now }

	res, err := ing.Ingest(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Failures)
}

func TestIngestAllBackendsFailing(t *testing.T) {
	bad := &stubBackend{name: "google", err: errors.New("boom")}

	store := &memoryStore{}
	ing := NewIngestor([]Backend{bad}, store, store, 30, 30, testhelpers.NewTestLogger())

	_, err := ing.Ingest(context.Background(), "go")
	assert.Error(t, err)
	assert.Empty(t, store.upserts)
}

func TestIngestExistingArticleNotRebookmarked(t *testing.T) {
	now := time.Now()
	backend := &stubBackend{name: "google", items: []Item{
		{Title: "Seen Before", URL: "https://x.example.com/seen", PublishedAt: timePtr(now)},
	}}

	store := &memoryStore{existing: map[string]bool{"https://x.example.com/seen": true}}
	ing := NewIngestor([]Backend{backend}, store, store, 30, 30, testhelpers.NewTestLogger())
	ing.now = func() time.Time { return now }

	res, err := ing.Ingest(context.Background(), "go")
	require.NoError(t, err)
	assert.Zero(t, res.Inserted)
	assert.Empty(t, store.bookmarked)
}

func TestMergePrefersMostRecent(t *testing.T) {
	now := time.Now()
	older := Item{Title: "Same", URL: "https://x.example.com/1", PublishedAt: timePtr(now.Add(-2 * time.Hour))}
	newer := Item{Title: "Same", URL: "https://x.example.com/1", Summary: "richer", PublishedAt: timePtr(now)}

	merged := mergeItems([]Item{older, newer})
	require.Len(t, merged, 1)
	assert.Equal(t, "richer", merged[0].Summary)
}

func TestMergeReindexesReplacedTitle(t *testing.T) {
	now := time.Now()
	first := Item{Title: "Old Title", URL: "https://x.example.com/1", PublishedAt: timePtr(now.Add(-2 * time.Hour))}
	replacement := Item{Title: "New Title", URL: "https://x.example.com/1", PublishedAt: timePtr(now)}
	// Third URL, but it shares the replacement's title.
	echo := Item{Title: "New Title", URL: "https://y.example.com/1", PublishedAt: timePtr(now.Add(-time.Hour))}

	merged := mergeItems([]Item{first, replacement, echo})
	require.Len(t, merged, 1)
	assert.Equal(t, "New Title", merged[0].Title)
}

func TestMergeReindexesReplacedURL(t *testing.T) {
	now := time.Now()
	first := Item{Title: "Same Story", URL: "https://x.example.com/1", PublishedAt: timePtr(now.Add(-2 * time.Hour))}
	replacement := Item{Title: "Same Story", URL: "https://y.example.com/1", PublishedAt: timePtr(now)}
	echo := Item{Title: "Different", URL: "https://y.example.com/1", PublishedAt: timePtr(now.Add(-time.Hour))}

	merged := mergeItems([]Item{first, replacement, echo})
	require.Len(t, merged, 1)
	assert.Equal(t, "Same Story", merged[0].Title)
}

func TestDisplayTitleKeepsExistingBracket(t *testing.T) {
	assert.Equal(t, "[IT Daily] Headline", displayTitle(Item{Title: "[IT Daily] Headline", Press: "Other"}))
	assert.Equal(t, "[Press] Headline", displayTitle(Item{Title: "Headline", Press: "Press"}))
	assert.Equal(t, "Headline", displayTitle(Item{Title: "Headline"}))
}

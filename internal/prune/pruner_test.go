package prune

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoehoe5252-yong/yong2/internal/testhelpers"
)

type fakeStore struct {
	cutoff  time.Time
	deleted int64
	err     error
	calls   int
}

func (f *fakeStore) DeleteUnbookmarkedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return f.deleted, f.err
}

func TestRunComputesCutoff(t *testing.T) {
	articles := &fakeStore{deleted: 5}
	keywords := &fakeStore{deleted: 2}
	p := New(articles, keywords, 90, testhelpers.NewTestLogger())

	now := time.Date(2026, 8, 23, 14, 30, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	total, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)

	want := time.Date(2026, 5, 25, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, articles.cutoff)
	assert.Equal(t, want, keywords.cutoff)
}

func TestRunDisabled(t *testing.T) {
	articles := &fakeStore{}
	p := New(articles, &fakeStore{}, 0, testhelpers.NewTestLogger())

	total, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, articles.calls, "disabled pruner must not touch the store")
	assert.False(t, p.Enabled())
}

func TestRunArticleError(t *testing.T) {
	p := New(&fakeStore{err: errors.New("boom")}, &fakeStore{}, 30, testhelpers.NewTestLogger())

	_, err := p.Run(context.Background())
	assert.Error(t, err)
}

package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoehoe5252-yong/yong2/internal/models"
)

const seedFixture = `{
  "generated_at": "2026-08-20T09:00:00Z",
  "source_id": "i_boss",
  "start_url": "https://iboss.example.com/ab-marketing",
  "articles": [
    {
      "title": "마케팅 칼럼 하나",
      "url": "https://iboss.example.com/ab-123?utm_source=share",
      "summary": "요약",
      "published_at": "2026-08-18"
    },
    {
      "title": "",
      "url": "https://iboss.example.com/ab-124"
    }
  ]
}`

func TestDecodeSeed(t *testing.T) {
	seed, err := DecodeSeed(strings.NewReader(seedFixture))
	require.NoError(t, err)

	assert.Equal(t, "i_boss", seed.SourceID)
	require.Len(t, seed.Articles, 2)

	candidates := seed.Candidates()
	require.Len(t, candidates, 2)

	first := candidates[0]
	assert.Equal(t, "i_boss", first.SourceID)
	assert.Equal(t, "마케팅 칼럼 하나", first.Title)
	// Tracking params stripped during conversion.
	assert.Equal(t, "https://iboss.example.com/ab-123", first.URL)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC), *first.PublishedAt)

	// The invalid row is kept; the import run reports it as a failure.
	assert.Empty(t, candidates[1].Title)
}

func TestDecodeSeedEmpty(t *testing.T) {
	_, err := DecodeSeed(strings.NewReader(`{"articles": []}`))
	assert.Error(t, err)

	_, err = DecodeSeed(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestSeedDefaultsSourceID(t *testing.T) {
	seed := &Seed{Articles: []SeedArticle{{Title: "t", URL: "https://x.example.com/1"}}}
	candidates := seed.Candidates()
	require.Len(t, candidates, 1)
	assert.Equal(t, models.ManualImportSourceID, candidates[0].SourceID)
}

func TestParseSeedDate(t *testing.T) {
	tests := []struct {
		in   string
		want *time.Time
	}{
		{"2026-08-18", timeRef(2026, 8, 18)},
		{"2026-08-18T10:30:00+09:00", timeRef(2026, 8, 18)},
		{"2026. 08. 18.", timeRef(2026, 8, 18)},
		{"", nil},
		{"someday", nil},
	}
	for _, tt := range tests {
		got := parseSeedDate(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, tt.in)
			continue
		}
		require.NotNil(t, got, tt.in)
		assert.Equal(t, *tt.want, *got, tt.in)
	}
}

func timeRef(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

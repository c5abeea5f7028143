package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoehoe5252-yong/yong2/internal/models"
)

const detailPage = `
<html><head>
<meta property="og:title" content="상세 페이지 제목">
<meta name="description" content="메타 설명입니다.">
<meta property="og:image" content="https://example.com/og.jpg">
<meta name="author" content="박기자">
<script type="application/ld+json">
{"@type":"NewsArticle","datePublished":"2026-08-18T10:00:00+09:00"}
</script>
</head><body><h1>상세 페이지 제목</h1></body></html>`

func TestEnrichDetailFillsMissing(t *testing.T) {
	c := &models.Candidate{SourceID: "yozm_it", URL: "https://example.com/news/1"}

	require.NoError(t, EnrichDetail(c, []byte(detailPage)))

	assert.Equal(t, "상세 페이지 제목", c.Title)
	assert.Equal(t, "메타 설명입니다.", c.Summary)
	assert.Equal(t, "https://example.com/og.jpg", c.ImageURL)
	assert.Equal(t, "박기자", c.Author)
	require.NotNil(t, c.PublishedAt)
	assert.Equal(t, time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC), c.PublishedAt.UTC())
}

func TestEnrichDetailKeepsListData(t *testing.T) {
	listDate := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)
	c := &models.Candidate{
		SourceID:    "yozm_it",
		Title:       "목록 제목",
		Summary:     "목록 요약",
		PublishedAt: &listDate,
	}

	require.NoError(t, EnrichDetail(c, []byte(detailPage)))

	assert.Equal(t, "목록 제목", c.Title)
	assert.Equal(t, "목록 요약", c.Summary)
	assert.Equal(t, listDate, *c.PublishedAt)
	// Empty fields are still filled.
	assert.Equal(t, "박기자", c.Author)
}

func TestEnrichDetailH1Fallback(t *testing.T) {
	page := `
<html><body>
<div class="post">
  <h1>헤드라인 제목</h1>
  <span class="meta">박기자 · 2026. 08. 17.</span>
</div>
</body></html>`

	c := &models.Candidate{SourceID: "yozm_it"}
	require.NoError(t, EnrichDetail(c, []byte(page)))

	assert.Equal(t, "헤드라인 제목", c.Title)
	require.NotNil(t, c.PublishedAt)
	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), *c.PublishedAt)
}

func TestEnrichDetailEmptyPage(t *testing.T) {
	c := &models.Candidate{SourceID: "yozm_it", Title: "그대로"}
	require.NoError(t, EnrichDetail(c, []byte("<html><body></body></html>")))
	assert.Equal(t, "그대로", c.Title)
	assert.Empty(t, c.Summary)
	assert.Nil(t, c.PublishedAt)
}

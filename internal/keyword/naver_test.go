package keyword

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const naverSearchFixture = `<!DOCTYPE html>
<html><body>
<ul class="list_news">
  <li>
    <div class="news_area">
      <div class="info_group">
        <a class="info press">데일리테크<span>언론사 선정</span></a>
        <span class="info">3일 전</span>
      </div>
      <a class="news_tit" href="https://dailytech.example.com/news/300?utm_source=naver" title="클라우드 보안 이슈 확산">클라우드 보안 이슈...</a>
      <div class="dsc_wrap">보안 업계에 따르면 클라우드 설정 오류로 인한 사고가 늘고 있다.</div>
      <img data-src="https://img.example.com/thumb300.jpg" alt="" />
    </div>
  </li>
  <li>
    <div class="news_area">
      <div class="info_group">
        <a class="info press">주간IT</a>
        <span class="info">2026. 08. 01.</span>
      </div>
      <a class="news_tit" href="https://weeklyit.example.com/news/7">두번째 기사 제목</a>
    </div>
  </li>
</ul>
</body></html>`

func TestNaverBackendSearch(t *testing.T) {
	now := time.Date(2026, 8, 21, 15, 0, 0, 0, time.UTC)
	fetcher := &stubFetcher{body: naverSearchFixture}
	backend := NewNaverBackend(fetcher)
	backend.now = func() time.Time { return now }

	items, err := backend.Search(context.Background(), "클라우드")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Contains(t, fetcher.lastURL, "where=news")

	first := items[0]
	assert.Equal(t, "클라우드 보안 이슈 확산", first.Title)
	assert.Equal(t, "데일리테크", first.Press)
	// Tracking params stripped by normalization.
	assert.Equal(t, "https://dailytech.example.com/news/300", first.URL)
	assert.Equal(t, "https://img.example.com/thumb300.jpg", first.ImageURL)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, now.Truncate(24*time.Hour).AddDate(0, 0, -3), *first.PublishedAt)

	second := items[1]
	assert.Equal(t, "두번째 기사 제목", second.Title)
	assert.Equal(t, "주간IT", second.Press)
	require.NotNil(t, second.PublishedAt)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *second.PublishedAt)
}

package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoehoe5252-yong/yong2/internal/models"
)

const feedBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>기술 블로그</title>
  <item>
    <title>고루틴 누수 잡기</title>
    <link>https://blog.example.com/posts/goroutine-leak</link>
    <description>  프로덕션에서 고루틴 누수를 찾아낸 과정  </description>
    <author>kim@example.com (김개발)</author>
    <pubDate>Thu, 20 Aug 2026 09:00:00 +0900</pubDate>
  </item>
  <item>
    <title>중복 항목</title>
    <link>https://blog.example.com/posts/goroutine-leak?utm_source=rss</link>
  </item>
  <item>
    <title></title>
    <link>https://blog.example.com/posts/untitled</link>
  </item>
  <item>
    <title>GUID만 있는 글</title>
    <guid>https://blog.example.com/posts/guid-only</guid>
  </item>
</channel>
</rss>`

func rssSource() models.Source {
	return models.Source{
		ID:        "dev_blog",
		Name:      "기술 블로그",
		Type:      models.SourceTypeRSS,
		StartURLs: []string{"https://blog.example.com/rss"},
		Rules:     models.SourceRules{Tags: []string{"블로그"}},
	}
}

func TestFeedList(t *testing.T) {
	got, err := List([]byte(feedBody), "https://blog.example.com/rss", rssSource())
	require.NoError(t, err)

	// The second item is the first behind a tracking param, the third has
	// no title.
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "dev_blog", first.SourceID)
	assert.Equal(t, "https://blog.example.com/posts/goroutine-leak", first.URL)
	assert.Equal(t, "고루틴 누수 잡기", first.Title)
	assert.Equal(t, "프로덕션에서 고루틴 누수를 찾아낸 과정", first.Summary)
	assert.Equal(t, []string{"블로그"}, first.Tags)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), first.PublishedAt.UTC().Truncate(24*time.Hour))

	assert.Equal(t, "https://blog.example.com/posts/guid-only", got[1].URL)
}

func TestFeedListMalformed(t *testing.T) {
	_, err := List([]byte("<html>not a feed</html>"), "https://blog.example.com/rss", rssSource())
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "dev_blog", parseErr.SourceID)
}

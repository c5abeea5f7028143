package keyword

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/hoehoe5252-yong/yong2/internal/extract"
)

const googleNewsSearchURL = "https://news.google.com/rss/search"

// GoogleBackend searches Google News through its RSS search feed,
// localized to Korean results.
type GoogleBackend struct {
	fetcher PageFetcher
}

func NewGoogleBackend(fetcher PageFetcher) *GoogleBackend {
	return &GoogleBackend{fetcher: fetcher}
}

func (b *GoogleBackend) Name() string { return "google" }

func (b *GoogleBackend) Search(ctx context.Context, keyword string) ([]Item, error) {
	query := url.Values{}
	query.Set("q", keyword)
	query.Set("hl", "ko")
	query.Set("gl", "KR")
	query.Set("ceid", "KR:ko")

	res, err := b.fetcher.Fetch(ctx, googleNewsSearchURL+"?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("google news search %q: %w", keyword, err)
	}

	feed, err := gofeed.NewParser().ParseString(string(res.Body))
	if err != nil {
		return nil, fmt.Errorf("parse google news feed %q: %w", keyword, err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry.Link == "" || entry.Title == "" {
			continue
		}

		title, press := splitPressSuffix(entry.Title)
		items = append(items, Item{
			Title:       title,
			Press:       press,
			URL:         extract.NormalizeURL(entry.Link),
			Summary:     strings.TrimSpace(entry.Description),
			PublishedAt: entry.PublishedParsed,
		})
	}

	return items, nil
}

// splitPressSuffix splits the "Headline - Press" form Google News uses.
// The last separator wins so headlines containing a dash stay intact.
func splitPressSuffix(title string) (headline, press string) {
	idx := strings.LastIndex(title, " - ")
	if idx < 0 {
		return strings.TrimSpace(title), ""
	}
	return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
}

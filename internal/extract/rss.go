package extract

import (
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/hoehoe5252-yong/yong2/internal/models"
)

func feedList(body []byte, src models.Source) ([]models.Candidate, error) {
	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, &ParseError{SourceID: src.ID, Err: err}
	}

	seen := make(map[string]bool)
	out := make([]models.Candidate, 0, len(parsed.Items))

	for _, item := range parsed.Items {
		link := feedItemLink(item)
		title := collapseSpace(item.Title)
		if link == "" || title == "" {
			continue
		}

		normalized := NormalizeURL(link)
		if seen[normalized] {
			continue
		}
		seen[normalized] = true

		c := models.Candidate{
			SourceID:    src.ID,
			URL:         normalized,
			Title:       title,
			Summary:     collapseSpace(item.Description),
			Author:      feedItemAuthor(item),
			PublishedAt: feedItemPublished(item),
			Tags:        src.Rules.Tags,
		}
		if img := item.Image; img != nil {
			c.ImageURL = img.URL
		}

		out = append(out, c)
	}

	return out, nil
}

// feedItemLink prefers the explicit link, falling back to a GUID that
// looks like a URL.
func feedItemLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if strings.HasPrefix(item.GUID, "http") {
		return item.GUID
	}
	return ""
}

func feedItemPublished(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	return item.UpdatedParsed
}

func feedItemAuthor(item *gofeed.Item) string {
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	return ""
}

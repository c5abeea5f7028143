package extract

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hoehoe5252-yong/yong2/internal/models"
)

// EnrichDetail fills a candidate's missing fields from its article page.
// Only empty fields are filled: list-page data is never overwritten, and
// a page that yields nothing leaves the stub untouched (partial data
// beats missing data for a feed).
func EnrichDetail(c *models.Candidate, body []byte) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return &ParseError{SourceID: c.SourceID, Err: err}
	}

	if c.Title == "" {
		c.Title = firstMeta(doc, "og:title", "twitter:title")
		if c.Title == "" {
			c.Title = collapseSpace(doc.Find("h1").First().Text())
		}
	}
	if c.Summary == "" {
		c.Summary = firstMeta(doc, "description", "og:description")
	}
	if c.ImageURL == "" {
		c.ImageURL = firstMeta(doc, "og:image", "twitter:image")
	}
	if c.Author == "" {
		c.Author = firstMeta(doc, "author", "article:author")
	}
	if c.PublishedAt == nil {
		c.PublishedAt = detailPublishedAt(doc)
	}

	return nil
}

// metaContent reads a meta tag: og:/twitter:/article: keys live in the
// property attribute, plain names in the name attribute.
func metaContent(doc *goquery.Document, key string) string {
	attr := "name"
	if strings.ContainsRune(key, ':') {
		attr = "property"
	}
	content, _ := doc.Find("meta[" + attr + "='" + key + "']").First().Attr("content")
	return strings.TrimSpace(content)
}

func firstMeta(doc *goquery.Document, keys ...string) string {
	for _, key := range keys {
		if v := metaContent(doc, key); v != "" {
			return v
		}
	}
	return ""
}

var jsonLDDate = regexp.MustCompile(`"datePublished"\s*:\s*"([^"]+)"`)

// detailPublishedAt tries publication-date sources from most to least
// structured: JSON-LD datePublished, a dotted date near the headline,
// then anywhere on the page.
func detailPublishedAt(doc *goquery.Document) *time.Time {
	var fromLD *time.Time
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		m := jsonLDDate.FindStringSubmatch(s.Text())
		if m == nil {
			return true
		}
		if t, err := time.Parse(time.RFC3339, m[1]); err == nil {
			day := t.Truncate(24 * time.Hour)
			fromLD = &day
			return false
		}
		return true
	})
	if fromLD != nil {
		return fromLD
	}

	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		if t := ParseDateText(collapseSpace(h1.Parent().Text())); t != nil {
			return t
		}
	}

	return ParseDateText(collapseSpace(doc.Find("body").Text()))
}

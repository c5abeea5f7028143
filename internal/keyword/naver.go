package keyword

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hoehoe5252-yong/yong2/internal/extract"
)

const naverNewsSearchURL = "https://search.naver.com/search.naver"

// NaverBackend scrapes Naver news search result pages. Naver has no
// feed for keyword search, so this reads the result markup directly.
type NaverBackend struct {
	fetcher PageFetcher

	// now is swappable so relative-date tests are deterministic.
	now func() time.Time
}

func NewNaverBackend(fetcher PageFetcher) *NaverBackend {
	return &NaverBackend{
		fetcher: fetcher,
		now:     time.Now,
	}
}

func (b *NaverBackend) Name() string { return "naver" }

func (b *NaverBackend) Search(ctx context.Context, keyword string) ([]Item, error) {
	query := url.Values{}
	query.Set("where", "news")
	query.Set("query", keyword)

	res, err := b.fetcher.Fetch(ctx, naverNewsSearchURL+"?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("naver news search %q: %w", keyword, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return nil, fmt.Errorf("parse naver search page %q: %w", keyword, err)
	}

	now := b.now()
	var items []Item

	doc.Find("a.news_tit").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		title := cleanText(a.AttrOr("title", ""))
		if title == "" {
			title = cleanText(a.Text())
		}
		if href == "" || title == "" {
			return
		}

		item := Item{
			Title: title,
			URL:   extract.NormalizeURL(href),
		}

		card := a.Closest(".news_area")
		if card.Length() > 0 {
			item.Summary = cleanText(card.Find(".dsc_wrap").First().Text())
			item.Press = naverPress(card)
			item.PublishedAt = naverPublishedAt(card, now)
			if src, ok := card.Find("img").First().Attr("data-src"); ok {
				item.ImageURL = strings.TrimSpace(src)
			}
		}

		items = append(items, item)
	})

	return items, nil
}

func naverPress(card *goquery.Selection) string {
	press := cleanText(card.Find(".info_group a.info.press").First().Text())
	// The press anchor sometimes carries a trailing badge label.
	if idx := strings.Index(press, "언론사"); idx > 0 {
		press = strings.TrimSpace(press[:idx])
	}
	return press
}

// naverPublishedAt reads the date badge next to the press name. Naver
// shows either a dotted absolute date or a relative phrase (3일 전).
func naverPublishedAt(card *goquery.Selection, now time.Time) *time.Time {
	var published *time.Time
	card.Find(".info_group span.info").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := cleanText(s.Text())
		if t := extract.ParseDateText(text); t != nil {
			published = t
			return false
		}
		if t := extract.ParseRelativeDate(text, now); t != nil {
			published = t
			return false
		}
		return true
	})
	return published
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

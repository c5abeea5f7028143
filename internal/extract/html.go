package extract

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hoehoe5252-yong/yong2/internal/models"
)

// minSummaryLen filters out card fragments (dates, category labels) that
// are too short to serve as a summary.
const minSummaryLen = 10

func htmlList(body []byte, pageURL string, src models.Source) ([]models.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{SourceID: src.ID, Err: err}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, &ParseError{SourceID: src.ID, Err: err}
	}

	match := linkMatcher(src.Rules.LinkPattern)

	seen := make(map[string]bool)
	var out []models.Candidate

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" || !match(href) {
			return
		}

		resolved := resolveURL(base, href)
		normalized := NormalizeURL(resolved)
		if normalized == "" || seen[normalized] {
			return
		}
		seen[normalized] = true

		c := models.Candidate{
			SourceID: src.ID,
			URL:      normalized,
			Title:    linkTitle(a),
			Tags:     src.Rules.Tags,
		}
		fillCardFields(&c, a, base, src.Rules)

		out = append(out, c)
	})

	return out, nil
}

// linkMatcher interprets the rule pattern as a regular expression when it
// compiles, as a plain substring otherwise.
func linkMatcher(pattern string) func(string) bool {
	if re, err := regexp.Compile(pattern); err == nil {
		return re.MatchString
	}
	return func(href string) bool {
		return strings.Contains(href, pattern)
	}
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// linkTitle reads the link text, falling back to the alt text of an image
// inside the link (image-only cards).
func linkTitle(a *goquery.Selection) string {
	if text := collapseSpace(a.Text()); text != "" {
		return text
	}
	if alt, ok := a.Find("img").First().Attr("alt"); ok {
		return collapseSpace(alt)
	}
	return ""
}

// fillCardFields reads summary, published date, and image from the card
// element enclosing the link, using rule selectors when present and text
// heuristics otherwise.
func fillCardFields(c *models.Candidate, a *goquery.Selection, base *url.URL, rules models.SourceRules) {
	card := a.Parent()
	if card.Length() == 0 {
		return
	}

	if rules.TitleSelector != "" {
		if t := collapseSpace(card.Find(rules.TitleSelector).First().Text()); t != "" {
			c.Title = t
		}
	}

	cardText := collapseSpace(card.Text())

	if rules.SummarySelector != "" {
		c.Summary = collapseSpace(card.Find(rules.SummarySelector).First().Text())
	}
	if c.Summary == "" {
		c.Summary = firstNonDateSentence(cardText)
	}

	c.PublishedAt = ParseDateText(cardText)

	img := card.Find("img").First()
	if rules.ImageSelector != "" {
		img = card.Find(rules.ImageSelector).First()
	}
	if src := imageSrc(img); src != "" {
		c.ImageURL = resolveURL(base, src)
	}
}

func imageSrc(img *goquery.Selection) string {
	for _, attr := range []string{"src", "data-src", "data-original"} {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// firstNonDateSentence picks the first card-text fragment long enough to
// be a summary and not itself a date.
func firstNonDateSentence(text string) string {
	if text == "" {
		return ""
	}
	for _, part := range splitCardText(text) {
		if ParseDateText(part) != nil {
			continue
		}
		if len([]rune(part)) >= minSummaryLen {
			return part
		}
	}
	return text
}

var cardSeparators = regexp.MustCompile(`[|\x{00b7}\n]`)

func splitCardText(text string) []string {
	raw := cardSeparators.Split(text, -1)
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

var spaceRun = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

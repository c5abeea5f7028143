package extract

import (
	"net/url"
	"regexp"
	"strings"
)

// trackingParams are query parameters that carry no identity: two URLs
// differing only in these point at the same article. They are stripped
// before a URL is used as a dedup key anywhere downstream.
var trackingParams = map[string]bool{
	"fbclid":   true,
	"gclid":    true,
	"igshid":   true,
	"ref":      true,
	"utm_id":   true,
	"utm_term": true,
}

func isTrackingParam(name string) bool {
	return trackingParams[name] || strings.HasPrefix(name, "utm_")
}

// NormalizeURL canonicalizes an article URL for use as an identity key:
// scheme and host are lowercased, the fragment and known tracking
// parameters are dropped, a trailing slash is stripped, and Google News
// redirect wrappers are unwrapped. Unparseable input is returned as-is.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	raw = unwrapGoogleNews(raw)

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for name := range q {
			if isTrackingParam(name) {
				q.Del(name)
			}
		}
		u.RawQuery = q.Encode()
	}

	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String()
}

// unwrapGoogleNews resolves a news.google.com redirect URL to its target
// when the target is carried in the url query parameter.
func unwrapGoogleNews(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if target := u.Query().Get("url"); target != "" {
		return target
	}
	return raw
}

var (
	bracketPrefix = regexp.MustCompile(`\[[^\]]+\]\s*`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// NormalizeTitle reduces a title to a comparison key: press-label
// brackets removed, whitespace collapsed, casefolded. Storage keeps the
// original title; this form exists only for dedup.
func NormalizeTitle(title string) string {
	cleaned := bracketPrefix.ReplaceAllString(title, "")
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	return strings.ToLower(strings.TrimSpace(cleaned))
}

package extract

import (
	"regexp"
	"strings"
	"time"
)

var (
	dottedDate   = regexp.MustCompile(`(\d{4})\s*\.\s*(\d{2})\s*\.\s*(\d{2})\s*\.?`)
	relativeDays = regexp.MustCompile(`(\d+)\s*일\s*전`)
)

// ParseDateText finds a Korean-style dotted date (2026. 01. 05.) in free
// text. Returns nil when no date is present.
func ParseDateText(text string) *time.Time {
	m := dottedDate.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	t, err := time.Parse("2006.01.02", m[1]+"."+m[2]+"."+m[3])
	if err != nil {
		return nil
	}
	return &t
}

// ParseRelativeDate resolves Korean relative phrasings (3일 전, 어제,
// 오늘, N분 전, N시간 전) against now. Returns nil when the text has no
// recognizable phrase.
func ParseRelativeDate(text string, now time.Time) *time.Time {
	if text == "" {
		return nil
	}
	day := now.Truncate(24 * time.Hour)

	if m := relativeDays.FindStringSubmatch(text); m != nil {
		n := 0
		for _, ch := range m[1] {
			n = n*10 + int(ch-'0')
		}
		t := day.AddDate(0, 0, -n)
		return &t
	}
	if strings.Contains(text, "어제") {
		t := day.AddDate(0, 0, -1)
		return &t
	}
	if strings.Contains(text, "오늘") || strings.Contains(text, "분 전") || strings.Contains(text, "시간 전") {
		return &day
	}
	return nil
}

// WithinDays reports whether published falls inside the recency window
// ending at today. A nil published time never qualifies; days <= 0
// disables the window.
func WithinDays(published *time.Time, now time.Time, days int) bool {
	if days <= 0 {
		return true
	}
	if published == nil {
		return false
	}
	day := now.Truncate(24 * time.Hour)
	start := day.AddDate(0, 0, -(days - 1))
	p := published.Truncate(24 * time.Hour)
	return !p.Before(start) && !p.After(day)
}

package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateText(t *testing.T) {
	got := ParseDateText("조회 1,234 · 2026. 08. 15. · 댓글 3")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), *got)

	assert.Nil(t, ParseDateText("no date here"))
	assert.Nil(t, ParseDateText(""))
}

func TestParseRelativeDate(t *testing.T) {
	now := time.Date(2026, 8, 23, 15, 30, 0, 0, time.UTC)
	day := now.Truncate(24 * time.Hour)

	tests := []struct {
		name string
		in   string
		want *time.Time
	}{
		{name: "days ago", in: "3일 전", want: timePtr(day.AddDate(0, 0, -3))},
		{name: "yesterday", in: "어제", want: timePtr(day.AddDate(0, 0, -1))},
		{name: "today", in: "오늘", want: &day},
		{name: "minutes ago is today", in: "10분 전", want: &day},
		{name: "hours ago is today", in: "2시간 전", want: &day},
		{name: "unrecognized", in: "다음 주", want: nil},
		{name: "empty", in: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRelativeDate(tt.in, now)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestWithinDays(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	inside := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	boundary := time.Date(2026, 7, 25, 23, 59, 0, 0, time.UTC)
	outside := time.Date(2026, 7, 24, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	assert.True(t, WithinDays(&inside, now, 30))
	// Day 30 of a 30-day window still counts.
	assert.True(t, WithinDays(&boundary, now, 30))
	assert.False(t, WithinDays(&outside, now, 30))
	assert.False(t, WithinDays(&future, now, 30))
	assert.False(t, WithinDays(nil, now, 30))

	// Window disabled.
	assert.True(t, WithinDays(nil, now, 0))
	assert.True(t, WithinDays(&outside, now, -1))
}

func timePtr(t time.Time) *time.Time { return &t }

package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoehoe5252-yong/yong2/internal/models"
	"github.com/hoehoe5252-yong/yong2/internal/testhelpers"
)

const validCatalog = `
sources:
  - id: yozm_it
    name: 요즘IT
    type: html_list
    start_urls:
      - https://yozm.wishket.com/magazine/list/
    rules:
      link_pattern: /magazine/detail/
      detail: true
      tags: [개발]
  - id: dev_blog
    name: 기술 블로그
    type: rss
    start_urls:
      - https://blog.example.com/rss
  - id: i_boss
    name: 아이보스
    type: html_list
    start_urls:
      - https://www.i-boss.co.kr/ab-6141
    rules:
      link_pattern: /ab-
      manual_only: true
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewLoadsCatalog(t *testing.T) {
	r, err := New(writeCatalog(t, validCatalog), testhelpers.NewTestLogger())
	require.NoError(t, err)

	src, err := r.Get("yozm_it")
	require.NoError(t, err)
	assert.Equal(t, "요즘IT", src.Name)
	assert.Equal(t, models.SourceTypeHTMLList, src.Type)
	assert.True(t, src.Rules.Detail)
	assert.Equal(t, []string{"개발"}, src.Rules.Tags)
}

func TestGetUnknownSource(t *testing.T) {
	r, err := New(writeCatalog(t, validCatalog), testhelpers.NewTestLogger())
	require.NoError(t, err)

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListKeepsDeclarationOrder(t *testing.T) {
	r, err := New(writeCatalog(t, validCatalog), testhelpers.NewTestLogger())
	require.NoError(t, err)

	ids := make([]string, 0, 3)
	for _, s := range r.List() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"yozm_it", "dev_blog", "i_boss"}, ids)
}

func TestListCrawlableExcludesManualOnly(t *testing.T) {
	r, err := New(writeCatalog(t, validCatalog), testhelpers.NewTestLogger())
	require.NoError(t, err)

	for _, s := range r.ListCrawlable() {
		assert.False(t, s.Rules.ManualOnly)
		assert.NotEqual(t, "i_boss", s.ID)
	}
	assert.Len(t, r.ListCrawlable(), 2)
}

func TestReloadKeepsPreviousCatalogOnFailure(t *testing.T) {
	path := writeCatalog(t, validCatalog)
	r, err := New(path, testhelpers.NewTestLogger())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("sources: []\n"), 0o600))
	require.Error(t, r.Reload())

	// The old catalog is still served.
	assert.Len(t, r.List(), 3)
	_, err = r.Get("yozm_it")
	assert.NoError(t, err)
}

func TestNewRejectsInvalidCatalog(t *testing.T) {
	tests := []struct {
		name    string
		catalog string
		reason  string
	}{
		{
			name:    "empty catalog",
			catalog: "sources: []\n",
			reason:  "no sources",
		},
		{
			name: "duplicate id",
			catalog: `
sources:
  - {id: a, name: A, type: rss, start_urls: [https://a.example.com/rss]}
  - {id: a, name: A2, type: rss, start_urls: [https://a.example.com/rss2]}
`,
			reason: "duplicate",
		},
		{
			name: "unknown type",
			catalog: `
sources:
  - {id: a, name: A, type: api, start_urls: [https://a.example.com]}
`,
			reason: "unknown type",
		},
		{
			name: "relative start url",
			catalog: `
sources:
  - {id: a, name: A, type: rss, start_urls: [/rss]}
`,
			reason: "absolute",
		},
		{
			name: "html_list without link_pattern",
			catalog: `
sources:
  - {id: a, name: A, type: html_list, start_urls: [https://a.example.com]}
`,
			reason: "link_pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(writeCatalog(t, tt.catalog), testhelpers.NewTestLogger())
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestNewMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.yaml"), testhelpers.NewTestLogger())
	require.Error(t, err)
}

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoehoe5252-yong/yong2/internal/models"
	"github.com/hoehoe5252-yong/yong2/internal/repository"
	"github.com/hoehoe5252-yong/yong2/internal/testhelpers"
)

func testKeywordArticle() *models.KeywordArticle {
	return &models.KeywordArticle{
		Keyword:     "클라우드",
		KeywordNorm: "클라우드",
		Title:       "[Daily Tech] 클라우드 시장 동향",
		URL:         "https://news.example.com/cloud",
	}
}

func TestBookmarkRepository_UpsertRevives(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewBookmarkRepository(db, testhelpers.NewTestLogger())

	mock.ExpectQuery("INSERT INTO bookmarks").
		WithArgs(int64(5), false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "article_id", "is_auto", "created_at", "removed_at"}).
			AddRow(int64(1), int64(5), false, time.Now(), nil))

	bookmark, err := repo.Upsert(context.Background(), 5, false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), bookmark.ArticleID)
	assert.Nil(t, bookmark.RemovedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookmarkRepository_RemoveNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewBookmarkRepository(db, testhelpers.NewTestLogger())

	mock.ExpectExec("UPDATE bookmarks").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Remove(context.Background(), 5)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeywordArticleRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewKeywordArticleRepository(db, testhelpers.NewTestLogger())

	article := testKeywordArticle()
	mock.ExpectQuery("INSERT INTO keyword_articles").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "is_insert"}).
			AddRow(int64(3), time.Now(), true))

	inserted, err := repo.Upsert(context.Background(), article)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, int64(3), article.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeywordArticleRepository_UpsertExisting(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewKeywordArticleRepository(db, testhelpers.NewTestLogger())

	article := testKeywordArticle()
	mock.ExpectQuery("INSERT INTO keyword_articles").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "is_insert"}).
			AddRow(int64(3), time.Now(), false))

	inserted, err := repo.Upsert(context.Background(), article)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jmylchreest/blockfront/internal/models"
)

func setupContentTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.ContentEntry{}))
	return db
}

func newEntry(site, model, locale, key, payload string, fetched time.Time) *models.ContentEntry {
	return &models.ContentEntry{
		SiteID:    site,
		Model:     model,
		Locale:    locale,
		CacheKey:  key,
		Payload:   []byte(payload),
		FetchedAt: fetched,
	}
}

func TestContentRepo_GetMissingReturnsNil(t *testing.T) {
	repo := NewContentRepository(setupContentTestDB(t))

	got, err := repo.Get(context.Background(), ContentKey{SiteID: "s", Model: "page", CacheKey: "/"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestContentRepo_UpsertReplacesByKey(t *testing.T) {
	repo := NewContentRepository(setupContentTestDB(t))
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, newEntry("s", "page", "en", "/about", `{"v":1}`, t0)))
	require.NoError(t, repo.Upsert(ctx, newEntry("s", "page", "en", "/about", `{"v":2}`, t0.Add(time.Minute))))
	require.NoError(t, repo.Upsert(ctx, newEntry("s", "page", "de", "/about", `{"v":3}`, t0)))

	got, err := repo.Get(ctx, ContentKey{SiteID: "s", Model: "page", Locale: "en", CacheKey: "/about"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"v":2}`, string(got.Payload))
	assert.True(t, got.FetchedAt.Equal(t0.Add(time.Minute)))

	n, err := repo.Count(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestContentRepo_UpsertNotFoundMarker(t *testing.T) {
	repo := NewContentRepository(setupContentTestDB(t))
	ctx := context.Background()

	e := newEntry("s", "page", "en", "/gone", "", time.Now())
	e.Payload = nil
	e.NotFound = true
	require.NoError(t, repo.Upsert(ctx, e))

	got, err := repo.Get(ctx, ContentKey{SiteID: "s", Model: "page", Locale: "en", CacheKey: "/gone"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.NotFound)
	assert.Empty(t, got.Payload)
}

func TestContentRepo_UpsertValidates(t *testing.T) {
	repo := NewContentRepository(setupContentTestDB(t))

	err := repo.Upsert(context.Background(), newEntry("s", "page", "en", "", "{}", time.Now()))
	assert.ErrorIs(t, err, models.ErrCacheKeyRequired)
}

func TestContentRepo_Delete(t *testing.T) {
	repo := NewContentRepository(setupContentTestDB(t))
	ctx := context.Background()
	now := time.Now()

	for _, e := range []*models.ContentEntry{
		newEntry("s", "page", "en", "/a", "{}", now),
		newEntry("s", "page", "de", "/a", "{}", now),
		newEntry("s", "page", "en", "/a|l=1,o=0", "{}", now),
		newEntry("s", "page", "en", "/ab", "{}", now),
		newEntry("s", "page", "en", "/b", "{}", now),
		newEntry("s", "article", "en", "/a", "{}", now),
		newEntry("t", "page", "en", "/a", "{}", now),
	} {
		require.NoError(t, repo.Upsert(ctx, e))
	}

	n, err := repo.Delete(ctx, "s", "page", "/a")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n, "both locales and the query variant, not /ab")

	n, err = repo.Delete(ctx, "s", "page", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	total, err := repo.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestContentRepo_DeleteOlderThan(t *testing.T) {
	repo := NewContentRepository(setupContentTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Upsert(ctx, newEntry("s", "page", "en", "/old", "{}", now.Add(-48*time.Hour))))
	require.NoError(t, repo.Upsert(ctx, newEntry("s", "page", "en", "/new", "{}", now)))

	n, err := repo.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.Get(ctx, ContentKey{SiteID: "s", Model: "page", Locale: "en", CacheKey: "/new"})
	require.NoError(t, err)
	assert.NotNil(t, got)
}

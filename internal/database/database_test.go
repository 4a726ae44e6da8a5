package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/jmylchreest/blockfront/internal/config"
	"github.com/jmylchreest/blockfront/internal/models"
)

func memoryConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:          "sqlite",
		DSN:             ":memory:",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		LogLevel:        "silent",
	}
}

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(memoryConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_SQLiteMemoryUsesSingleConnection(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Ping(context.Background()))
	assert.Equal(t, "sqlite", db.Driver())

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats["max_open_connections"])
}

func TestNew_InvalidDriver(t *testing.T) {
	db, err := New(config.DatabaseConfig{Driver: "oracle", DSN: "x"}, nil)
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestDB_Close(t *testing.T) {
	db, err := New(memoryConfig(), nil)
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(context.Background()))
}

func TestDB_MigrateAndRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Migrate(ctx))

	entry := &models.ContentEntry{
		SiteID:    "default",
		Model:     "page",
		Locale:    "en",
		CacheKey:  "/about",
		Payload:   []byte(`{"id":"abc"}`),
		FetchedAt: time.Now().UTC(),
	}
	require.NoError(t, db.WithContext(ctx).Create(entry).Error)
	assert.False(t, entry.ID.IsZero())

	var got models.ContentEntry
	require.NoError(t, db.WithContext(ctx).First(&got, "cache_key = ?", "/about").Error)
	assert.Equal(t, entry.ID, got.ID)
	assert.JSONEq(t, `{"id":"abc"}`, string(got.Payload))
}

func TestGormLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"silent": logger.Silent,
		"error":  logger.Error,
		"warn":   logger.Warn,
		"info":   logger.Info,
		"":       logger.Warn,
	}
	for in, want := range tests {
		assert.Equal(t, want, gormLogLevel(in), in)
	}
}

func TestTruncateSQL(t *testing.T) {
	short := "SELECT 1"
	assert.Equal(t, short, truncateSQL(short))

	long := make([]byte, maxSQLLogLength+50)
	for i := range long {
		long[i] = 'x'
	}
	out := truncateSQL(string(long))
	assert.Len(t, out, maxSQLLogLength+len("... (truncated)"))
}

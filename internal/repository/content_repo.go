// Package repository provides gorm-backed data access for blockfront.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jmylchreest/blockfront/internal/models"
)

// ContentKey identifies one cached content response.
type ContentKey struct {
	SiteID   string
	Model    string
	Locale   string
	CacheKey string
}

// ContentRepository stores builder content responses for the revalidating cache.
type ContentRepository interface {
	// Get returns the entry for key, or nil when nothing is cached.
	Get(ctx context.Context, key ContentKey) (*models.ContentEntry, error)
	// Upsert stores entry, replacing any entry with the same key.
	Upsert(ctx context.Context, entry *models.ContentEntry) error
	// Delete removes entries for a site and model in all locales. A cacheKey
	// also matches the query variants of the same path ("/about|l=1,o=0").
	// An empty cacheKey removes every key for that model.
	Delete(ctx context.Context, siteID, model, cacheKey string) (int64, error)
	// DeleteOlderThan removes entries fetched before cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	// Count returns the number of entries cached for a site, or all sites when siteID is empty.
	Count(ctx context.Context, siteID string) (int64, error)
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a ContentRepository.
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Get(ctx context.Context, key ContentKey) (*models.ContentEntry, error) {
	var entry models.ContentEntry
	err := r.db.WithContext(ctx).
		Where("site_id = ? AND model = ? AND locale = ? AND cache_key = ?",
			key.SiteID, key.Model, key.Locale, key.CacheKey).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting content entry: %w", err)
	}
	return &entry, nil
}

func (r *contentRepository) Upsert(ctx context.Context, entry *models.ContentEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validating content entry: %w", err)
	}
	if entry.Payload == nil {
		entry.Payload = []byte{}
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "site_id"}, {Name: "model"}, {Name: "locale"}, {Name: "cache_key"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "not_found", "fetched_at", "updated_at"}),
	}).Create(entry).Error
}

func (r *contentRepository) Delete(ctx context.Context, siteID, model, cacheKey string) (int64, error) {
	q := r.db.WithContext(ctx).Where("site_id = ? AND model = ?", siteID, model)
	if cacheKey != "" {
		prefix := cacheKey + "|"
		q = q.Where("cache_key = ? OR substr(cache_key, 1, ?) = ?",
			cacheKey, utf8.RuneCountInString(prefix), prefix)
	}
	result := q.Delete(&models.ContentEntry{})
	return result.RowsAffected, result.Error
}

func (r *contentRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.ContentEntry{}, "fetched_at < ?", cutoff)
	return result.RowsAffected, result.Error
}

func (r *contentRepository) Count(ctx context.Context, siteID string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.ContentEntry{})
	if siteID != "" {
		q = q.Where("site_id = ?", siteID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting content entries: %w", err)
	}
	return count, nil
}

var _ ContentRepository = (*contentRepository)(nil)

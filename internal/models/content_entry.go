package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCacheKeyRequired is returned when a content entry has no key.
var ErrCacheKeyRequired = errors.New("cache key is required")

// ErrValidation reports an invalid field of an entry about to be stored.
type ErrValidation struct {
	Field   string
	Message string
}

func (e ErrValidation) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// ContentEntry is one cached response from the page builder content API.
// Entries are unique per site, model, locale and key (a URL path or a list
// query signature).
type ContentEntry struct {
	BaseModel
	SiteID    string    `gorm:"size:64;not null;uniqueIndex:idx_content_entry_lookup" json:"site_id"`
	Model     string    `gorm:"size:64;not null;uniqueIndex:idx_content_entry_lookup" json:"model"`
	Locale    string    `gorm:"size:35;not null;default:'';uniqueIndex:idx_content_entry_lookup" json:"locale"`
	CacheKey  string    `gorm:"size:512;not null;uniqueIndex:idx_content_entry_lookup" json:"cache_key"`
	Payload   []byte    `gorm:"not null" json:"-"`
	NotFound  bool      `gorm:"not null;default:false" json:"not_found"`
	FetchedAt time.Time `gorm:"not null;index" json:"fetched_at"`
}

// TableName returns the table name for content entries.
func (ContentEntry) TableName() string {
	return "content_entries"
}

// Validate checks the entry before it is stored.
func (e *ContentEntry) Validate() error {
	if strings.TrimSpace(e.SiteID) == "" {
		return ErrValidation{Field: "site_id", Message: "required"}
	}
	if strings.TrimSpace(e.Model) == "" {
		return ErrValidation{Field: "model", Message: "required"}
	}
	if e.CacheKey == "" {
		return ErrCacheKeyRequired
	}
	return nil
}

// Fresh reports whether the entry was fetched within maxAge of now.
func (e *ContentEntry) Fresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(e.FetchedAt) < maxAge
}

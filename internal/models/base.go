// Package models defines GORM database models for blockfront.
package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// ID is a lexically sortable primary key. Rows created later sort after
// earlier ones, so the cache tables can be paged by key.
type ID ulid.ULID

// NewID returns a fresh ID. IDs made within the same millisecond by one
// process are strictly increasing.
func NewID() ID {
	return ID(ulid.Make())
}

// ParseID parses the canonical 26 character form.
func ParseID(s string) (ID, error) {
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return ID{}, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID(id), nil
}

func (id ID) String() string { return ulid.ULID(id).String() }

// IsZero reports whether the ID is unset.
func (id ID) IsZero() bool { return id == ID{} }

// Time returns the creation time encoded in the ID.
func (id ID) Time() time.Time { return ulid.Time(ulid.ULID(id).Time()) }

// Value implements driver.Valuer. An unset ID is stored as NULL.
func (id ID) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	return id.String(), nil
}

// Scan implements sql.Scanner.
func (id *ID) Scan(value any) error {
	var s string
	switch v := value.(type) {
	case nil:
		*id = ID{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("scanning id: unsupported type %T", value)
	}
	if s == "" {
		*id = ID{}
		return nil
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	if id.IsZero() {
		return []byte{}, nil
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(data []byte) error {
	return id.Scan(string(data))
}

// GormDataType returns the column type used for IDs on every driver.
func (ID) GormDataType() string {
	return "varchar(26)"
}

// BaseModel holds the key and timestamps shared by the cache tables.
type BaseModel struct {
	ID        ID        `gorm:"primarykey;type:varchar(26)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns an ID to rows inserted without one.
func (b *BaseModel) BeforeCreate(*gorm.DB) error {
	if b.ID.IsZero() {
		b.ID = NewID()
	}
	return nil
}

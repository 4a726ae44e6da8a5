package migrations

import (
	"gorm.io/gorm"

	"github.com/jmylchreest/blockfront/internal/models"
)

// purgeIndex supports the expiry sweep, which filters by site and age.
const purgeIndex = "idx_content_entry_site_fetched"

// AllMigrations returns every schema migration in version order.
//   - 001: content_entries fetch cache
//   - 002: composite (site_id, fetched_at) index for expiry sweeps
func AllMigrations() []Migration {
	return []Migration{
		migration001ContentCache(),
		migration002PurgeIndex(),
	}
}

func migration001ContentCache() Migration {
	return Migration{
		Version:     "001",
		Description: "Create content cache table",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.ContentEntry{})
		},
		Down: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&models.ContentEntry{})
		},
	}
}

func migration002PurgeIndex() Migration {
	return Migration{
		Version:     "002",
		Description: "Index content cache by site and fetch time",
		Up: func(tx *gorm.DB) error {
			if tx.Migrator().HasIndex(&models.ContentEntry{}, purgeIndex) {
				return nil
			}
			return tx.Exec("CREATE INDEX " + purgeIndex + " ON content_entries (site_id, fetched_at)").Error
		},
		Down: func(tx *gorm.DB) error {
			if !tx.Migrator().HasIndex(&models.ContentEntry{}, purgeIndex) {
				return nil
			}
			return tx.Migrator().DropIndex(&models.ContentEntry{}, purgeIndex)
		},
	}
}

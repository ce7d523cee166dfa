package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createListEntriesTable creates the list_entries table with its indexes.
//
// The unique constraint on (user_id, content_id) is the store-level
// uniqueness guarantee: concurrent duplicate adds resolve in the database,
// not in application code. The (user_id, added_at DESC) index backs the
// paginated read path.
func createListEntriesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_list_entries",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS list_entries (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id VARCHAR(100) NOT NULL,
					content_id VARCHAR(100) NOT NULL,
					content_type VARCHAR(20) NOT NULL,
					added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT uq_user_content UNIQUE (user_id, content_id)
				);
			`).Error
			if err != nil {
				return err
			}

			return tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_list_entries_user_added_at
				ON list_entries(user_id, added_at DESC, id DESC);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS list_entries;").Error
		},
	}
}

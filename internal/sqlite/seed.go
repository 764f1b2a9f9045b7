package sqlite

import (
	"database/sql"
	"time"
)

// defaultFolders are created on first attach.
var defaultFolders = []string{"contacts"}

// seedFolders inserts any missing default folder. Existing folders keep
// their ids.
func seedFolders(db *sql.DB, now time.Time) error {
	for _, name := range defaultFolders {
		_, err := db.Exec(
			"INSERT OR IGNORE INTO folders (folder_id, name, created_at) VALUES (?, ?, ?)",
			newEntryID(), name, now.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return err
		}
	}
	return nil
}

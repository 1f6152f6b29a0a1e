package library

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
)

// SetupSchema creates the library_entries table and its index. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	libraries := make([]string, len(bootstrap.Libraries))
	for i, lib := range bootstrap.Libraries {
		libraries[i] = "'" + string(lib) + "'"
	}

	schemaEntries := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS library_entries (
    id INTEGER PRIMARY KEY,
    library TEXT NOT NULL CHECK (library IN (%s)),
    version TEXT NOT NULL,
    url_pattern TEXT NOT NULL,
    url TEXT NOT NULL,
    integrity TEXT NOT NULL,
    active INTEGER NOT NULL DEFAULT 0
);
`, strings.Join(libraries, ", "))

	const schemaIndex = `CREATE INDEX IF NOT EXISTS idx_library_entries_active ON library_entries (library, active);`

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaEntries); err != nil {
		return fmt.Errorf("could not create schema: %w", err)
	}
	if _, err = tx.Exec(schemaIndex); err != nil {
		return fmt.Errorf("could not create index: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

//go:build !cgo_sqlite

package main

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// initDB uses the pure Go SQLite driver.
func initDB(dataSource string) (*sql.DB, error) {
	return openDB("sqlite", dataSource)
}

//go:build cgo_sqlite

package main

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// initDB uses the cgo SQLite driver, enabled with the cgo_sqlite build tag.
func initDB(dataSource string) (*sql.DB, error) {
	return openDB("sqlite3", dataSource)
}

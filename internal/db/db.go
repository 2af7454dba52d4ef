// Package db opens the SQLite database backing the catalog, pricing policy and
// saved quotes.
package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

var pragmas = []string{
	"journal_mode = WAL",
	"foreign_keys = ON",
	"busy_timeout = 5000",
}

// Open opens the database at path, applies the connection pragmas and checks
// connectivity. An in-memory path is limited to one connection, otherwise each
// pooled connection would see its own empty database.
func Open(path string) (*sql.DB, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if inMemory(path) {
		database.SetMaxOpenConns(1)
	}

	for _, pragma := range pragmas {
		if _, err := database.Exec("PRAGMA " + pragma); err != nil {
			database.Close()
			return nil, fmt.Errorf("set sqlite pragma %q: %w", pragma, err)
		}
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return database, nil
}

func inMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// Package store persists the catalog, the pricing policy and saved quotes in
// SQLite.
package store

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps a migrated database handle.
type Store struct {
	db *sql.DB
}

// New returns a Store over db. The schema must already be migrated.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Stats counts rows written by a bulk operation.
type Stats struct {
	Inserts int
	Updates int
}

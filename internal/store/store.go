// Package store is the Postgres data access layer for the Rasid platform
// tables the assistant reads from.
package store

import (
	"database/sql"

	"github.com/lib/pq"
)

// Store wraps the platform database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// stringArray scans a Postgres text[] column into a []string.
func stringArray(dst *[]string) interface{} {
	return (*pq.StringArray)(dst)
}

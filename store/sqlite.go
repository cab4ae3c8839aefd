// Package store manages the shared SQLite connection backing both search
// indexes. The engine is embedded: one connection, writers serialized, no
// locking beyond what the database provides.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps the shared connection. Both index stores and all searchers run
// against the same DB value.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the search database at path and applies the schema.
// Use ":memory:" for a throwaway in-process database.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open search database at %s: %w", path, err)
	}

	// A single shared connection: writes serialize, readers see the last
	// committed state, and in-memory databases survive connection reuse.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure search database: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply search schema: %w", err)
	}

	return &DB{db}, nil
}

// WithTx runs fn inside a transaction, rolling back on any error. Nothing fn
// writes is visible to readers until the commit.
func (db *DB) WithTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// EscapeLike escapes LIKE wildcards in s so it matches literally. Queries
// using the result must specify ESCAPE '\'.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

// FTSPrefixQuery builds a quoted prefix MATCH expression for query, so user
// input is never interpreted as full-text query syntax.
func FTSPrefixQuery(query string) string {
	return `"` + strings.ReplaceAll(query, `"`, `""`) + `"*`
}

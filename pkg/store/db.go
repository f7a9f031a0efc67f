// Package store persists the learner's device-local state: settings, stars,
// per-item kanji overrides, and attempt statistics. Everything lives in a
// single SQLite file in the data directory.
package store

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stars (
	item_id TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS kanji_overrides (
	item_id TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS item_stats (
	item_id TEXT PRIMARY KEY,
	attempts INTEGER NOT NULL DEFAULT 0,
	correct INTEGER NOT NULL DEFAULT 0
);
`

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx.
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// InitDB runs migrations on the given DB connection using the embedded SQL.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Open opens (creating if needed) the SQLite store at path and migrates it.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

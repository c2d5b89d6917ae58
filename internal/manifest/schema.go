// Package manifest records the posts and images produced by the last build
// in a SQLite database.
package manifest

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS posts (
	filename TEXT PRIMARY KEY,
	note     TEXT NOT NULL,
	title    TEXT NOT NULL DEFAULT '',
	date     TEXT NOT NULL DEFAULT '',
	tags     TEXT NOT NULL DEFAULT '[]',
	checksum TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS images (
	filename TEXT NOT NULL,
	post     TEXT NOT NULL REFERENCES posts(filename) ON DELETE CASCADE,
	checksum TEXT NOT NULL DEFAULT '',
	UNIQUE(filename, post)
);

CREATE INDEX IF NOT EXISTS idx_images_post ON images(post);
`

// DB wraps a sql.DB with manifest operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("manifest: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("manifest: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("manifest: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

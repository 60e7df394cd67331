// Package index provides the SQLite-backed document store the renderer reads
// hits from: per-document stored fields, per-line text for fast context and
// the version-history log.
package index

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// A NULL path marks a corrupt record; UNIQUE still admits any number of them.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	id     INTEGER PRIMARY KEY,
	path   TEXT UNIQUE,
	genre  TEXT NOT NULL DEFAULT '',
	date   TEXT,
	defs   BLOB,
	scopes BLOB
);

CREATE TABLE IF NOT EXISTS lines (
	doc_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	line   INTEGER NOT NULL,
	text   TEXT NOT NULL,
	PRIMARY KEY (doc_id, line)
);

CREATE TABLE IF NOT EXISTS history (
	path     TEXT NOT NULL,
	revision TEXT NOT NULL,
	author   TEXT NOT NULL DEFAULT '',
	date     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	message  TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (path, revision)
);

CREATE INDEX IF NOT EXISTS idx_history_path ON history(path);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

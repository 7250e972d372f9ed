package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// DB is a SQLite handle holding the kv table.
type DB struct {
	*sql.DB
}

func inMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// NewDB opens the SQLite file at dbPath, creating its parent directory.
func NewDB(dbPath string) (*DB, error) {
	if !inMemory(dbPath) {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}
	// A single writer; in-memory databases are also per connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", dbPath, err)
	}
	return &DB{conn}, nil
}

// Close closes the connection.
func (d *DB) Close() error {
	return d.DB.Close()
}

// InitSchema creates the kv table if needed.
func (d *DB) InitSchema() error {
	if _, err := d.Exec(kvSchema); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

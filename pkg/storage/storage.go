package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Fixed keys for persisted client state. Values are JSON-serialized, read
// once at startup and written back on every mutation.
const (
	KeyBookmarks = "news.bookmarks"
	KeyRead      = "news.read"
	KeyTheme     = "ui.theme"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Store is the local SQLite-backed key/value store.
type Store struct {
	db *sql.DB
}

// Open connects to the store at dbPath, creating the file and schema as
// needed.
func Open(dbPath string) (*Store, error) {
	// Expand tilde to home directory if present
	if strings.HasPrefix(dbPath, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = homeDir + dbPath[1:]
	}

	dbDir := filepath.Dir(dbPath)
	if dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS cache (
			version TEXT NOT NULL,
			url TEXT NOT NULL,
			content_type TEXT NOT NULL DEFAULT '',
			body BLOB,
			fetched_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (version, url)
		)
	`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the connection for the cache layer, which shares the file.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Get unmarshals the JSON value stored under key into out.
func (s *Store) Get(key string, out any) error {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(value), out)
}

// Put stores value under key as JSON, replacing any previous value.
func (s *Store) Put(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, string(data),
	)
	return err
}

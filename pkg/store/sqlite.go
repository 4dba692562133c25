package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Keys of the kv table. Each holds one JSON array.
const (
	keyTasks      = "tasks"
	keyCategories = "categories"
	keyTags       = "tags"
)

// SQLiteBackend keeps the three collections as JSON documents in a single
// key-value table.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// NewSQLiteBackend opens (or creates) the database at dbPath.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	b := &SQLiteBackend{db: db, path: dbPath}
	if err := b.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// migrate creates the necessary tables
func (b *SQLiteBackend) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`
	_, err := b.db.Exec(schema)
	return err
}

func (b *SQLiteBackend) Path() string { return b.path }

// Close closes the database connection
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) Load() (Data, bool, error) {
	var d Data
	found := false
	for _, kv := range []struct {
		key string
		out any
	}{
		{keyTasks, &d.Tasks},
		{keyCategories, &d.Categories},
		{keyTags, &d.Tags},
	} {
		ok, err := b.get(kv.key, kv.out)
		if err != nil {
			return Data{}, false, err
		}
		found = found || ok
	}
	return d, found, nil
}

func (b *SQLiteBackend) get(key string, out any) (bool, error) {
	var value string
	err := b.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// Save writes all three collections in one transaction.
func (b *SQLiteBackend) Save(d Data) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, kv := range []struct {
		key string
		v   any
	}{
		{keyTasks, nonNil(d.Tasks)},
		{keyCategories, nonNil(d.Categories)},
		{keyTags, nonNil(d.Tags)},
	} {
		value, err := json.Marshal(kv.v)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", kv.key, err)
		}
		_, err = tx.Exec(`
			INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, kv.key, string(value), now)
		if err != nil {
			return fmt.Errorf("writing %s: %w", kv.key, err)
		}
	}
	return tx.Commit()
}

// Package settings is the persistent key-value store shared by the agent and
// the options command. It holds the lookup service endpoint under KeyEndPoint.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/f3rmion/hoverword/internal/lookup"
	_ "modernc.org/sqlite"
)

// KeyEndPoint is the key holding the lookup service base URL.
const KeyEndPoint = "apiEndPoint"

// ErrInvalidEndPoint is returned when an endpoint is not an absolute http(s) URL.
var ErrInvalidEndPoint = errors.New("invalid endpoint")

const schema = `CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Store is a SQLite-backed settings store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the settings database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating settings dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening settings database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating settings table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key and whether it exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting setting %s: %w", key, err)
	}
	return nil
}

// All returns every stored setting.
func (s *Store) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	defer rows.Close()

	all := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		all[k] = v
	}
	return all, rows.Err()
}

// EndPoint returns the configured lookup service URL, falling back to
// lookup.DefaultEndPoint when none is stored.
func (s *Store) EndPoint(ctx context.Context) (string, error) {
	v, ok, err := s.Get(ctx, KeyEndPoint)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(v) == "" {
		return lookup.DefaultEndPoint, nil
	}
	return v, nil
}

// SetEndPoint validates and stores the lookup service URL.
func (s *Store) SetEndPoint(ctx context.Context, endpoint string) error {
	endpoint, err := NormalizeEndPoint(endpoint)
	if err != nil {
		return err
	}
	return s.Set(ctx, KeyEndPoint, endpoint)
}

// NormalizeEndPoint checks that endpoint is an absolute http(s) URL and strips
// trailing slashes.
func NormalizeEndPoint(endpoint string) (string, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEndPoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidEndPoint, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidEndPoint)
	}
	return endpoint, nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updatedAt REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snapshots (
		owner TEXT PRIMARY KEY,
		fetchedAt REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snapshot_records (
		owner TEXT NOT NULL REFERENCES snapshots(owner) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		id INTEGER NOT NULL,
		title TEXT NOT NULL,
		status TEXT NOT NULL,
		date TEXT NOT NULL,
		duration TEXT NOT NULL DEFAULT '',
		transcript TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (owner, position)
	)`,
}

// Store is the local key/value area and snapshot cache.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. ":memory:" is
// accepted for tests.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if path == ":memory:" {
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key. The boolean is false when the key
// is absent.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updatedAt) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = excluded.updatedAt
	`, key, value, unixNow())
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Remove deletes the given keys. Missing keys are ignored.
func (s *Store) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("remove keys: %w", err)
	}
	return nil
}

// Keys returns all stored keys in lexical order.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// ReplaceSnapshot stores records as the owner's cached list, replacing any
// previous snapshot.
func (s *Store) ReplaceSnapshot(ctx context.Context, owner string, records []CachedRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_records WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (owner, fetchedAt) VALUES (?, ?)
		ON CONFLICT(owner) DO UPDATE SET fetchedAt = excluded.fetchedAt
	`, owner, unixNow()); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_records (owner, position, id, title, status, date, duration, transcript, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, owner, i, r.ID, r.Title, r.Status, r.Date,
			r.Duration, r.Transcript, r.Summary); err != nil {
			return fmt.Errorf("insert snapshot record %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Snapshot returns the cached list for owner, or nil when none exists.
func (s *Store) Snapshot(ctx context.Context, owner string) (*Snapshot, error) {
	var fetchedAt float64
	err := s.db.QueryRowContext(ctx, `SELECT fetchedAt FROM snapshots WHERE owner = ?`, owner).Scan(&fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT position, id, title, status, date, duration, transcript, summary
		FROM snapshot_records
		WHERE owner = ?
		ORDER BY position ASC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("query snapshot records: %w", err)
	}
	defer rows.Close()

	snap := &Snapshot{Owner: owner, FetchedAt: timeFromUnix(fetchedAt)}
	for rows.Next() {
		var r CachedRecord
		if err := rows.Scan(&r.Position, &r.ID, &r.Title, &r.Status, &r.Date,
			&r.Duration, &r.Transcript, &r.Summary); err != nil {
			return nil, fmt.Errorf("scan snapshot record: %w", err)
		}
		snap.Records = append(snap.Records, r)
	}
	return snap, rows.Err()
}

// DeleteSnapshot drops the owner's cached list.
func (s *Store) DeleteSnapshot(ctx context.Context, owner string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshot_records WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("delete snapshot records: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func unixNow() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

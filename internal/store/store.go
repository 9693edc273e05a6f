// Package store persists the bot's small bookkeeping state: processed
// message markers with expiry, onboarding flags, and lifetime counters.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS markers (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS flags (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS counters (
	name  TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
`

// Store is a SQLite-backed key store. All methods are safe for concurrent
// use; SQLite serializes writers, the mutex keeps the single connection
// honest.
type Store struct {
	mu  sync.Mutex
	db  *sql.DB
	now func() time.Time
}

// Option adjusts a Store at open time.
type Option func(*Store)

// WithClock replaces the wall clock, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open creates or opens the store at path. ":memory:" works for tests.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init store schema: %w", err)
	}
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Marker reports whether key holds an unexpired processed marker.
func (s *Store) Marker(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT expires_at FROM markers WHERE key = ?`, key).Scan(&expiresAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read marker: %w", err)
	}
	return expiresAt > s.now().Unix(), nil
}

// SetMarkerIfAbsent records key with a ttl in one statement. It returns
// false when a live marker already exists, which is how concurrent
// deliveries of the same event decide a single winner. An expired marker
// counts as absent and is overwritten.
func (s *Store) SetMarkerIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowUnix := s.now().Unix()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO markers (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at
		WHERE markers.expires_at <= ?`,
		key, value, nowUnix+int64(ttl.Seconds()), nowUnix)
	if err != nil {
		return false, fmt.Errorf("set marker: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set marker: %w", err)
	}
	return n > 0, nil
}

// PurgeExpired deletes markers whose expiry has passed and reports how
// many were removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM markers WHERE expires_at <= ?`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("purge markers: %w", err)
	}
	return res.RowsAffected()
}

// Flag reports whether key has ever been set. Flags never expire.
func (s *Store) Flag(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM flags WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read flag: %w", err)
	}
	return true, nil
}

// SetFlag records key permanently, storing the set time as its value.
func (s *Store) SetFlag(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO flags (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO NOTHING`,
		key, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set flag: %w", err)
	}
	return nil
}

// Increment adds one to the named lifetime counter.
func (s *Store) Increment(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO counters (name, value) VALUES (?, 1)
		 ON CONFLICT(name) DO UPDATE SET value = counters.value + 1`, name)
	if err != nil {
		return fmt.Errorf("increment counter: %w", err)
	}
	return nil
}

// Counters returns every lifetime counter by name.
func (s *Store) Counters(ctx context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM counters`)
	if err != nil {
		return nil, fmt.Errorf("read counters: %w", err)
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("read counters: %w", err)
		}
		out[name] = value
	}
	return out, rows.Err()
}

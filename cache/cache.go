// Package cache stores fetched execution histories in a local SQLite
// database so repeated profiling of the same execution skips the network.
// Completed execution histories never change, so entries only expire to
// bound disk usage.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/tebeka/atexit"

	"github.com/sanjams2/sfn-profiler/timeline"
)

// DefaultExpiry is how long a cached history stays usable.
const DefaultExpiry = 31 * 24 * time.Hour

const schema = `
CREATE TABLE IF NOT EXISTS histories (
	arn        TEXT PRIMARY KEY,
	fetched_at INTEGER NOT NULL,
	records    TEXT NOT NULL
)`

// Dir returns the cache directory, honoring SFN_PROFILER_CACHE_DIR.
func Dir() string {
	if dir := os.Getenv("SFN_PROFILER_CACHE_DIR"); dir != "" {
		return dir
	}

	base, err := os.UserCacheDir()
	if err != nil {
		panic(err)
	}

	return filepath.Join(base, "sfn-profiler")
}

// A Store is an on-disk history cache. Writes are buffered and flushed on
// exit or on Flush.
type Store struct {
	db     *sql.DB
	expiry time.Duration

	mu      sync.Mutex
	pending map[string]entry
}

type entry struct {
	fetchedAt time.Time
	records   []timeline.RawRecord
}

// Open opens (or creates) the cache database at path.
func Open(path string) *Store {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		panic(err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		panic(err)
	}

	if _, err := db.Exec(schema); err != nil {
		panic(err)
	}

	s := &Store{
		db:      db,
		expiry:  DefaultExpiry,
		pending: make(map[string]entry),
	}

	s.purgeExpired()

	atexit.Register(func() { s.Flush() })

	return s
}

// WithExpiry overrides the entry lifetime.
func (s *Store) WithExpiry(d time.Duration) *Store {
	s.expiry = d
	s.purgeExpired()

	return s
}

// purgeExpired deletes rows older than the expiry so the database does not
// grow without bound. Expired rows are already invisible to Get.
func (s *Store) purgeExpired() {
	cutoff := time.Now().Add(-s.expiry).Unix()

	if _, err := s.db.Exec(
		"DELETE FROM histories WHERE fetched_at < ?", cutoff); err != nil {
		panic(err)
	}
}

// Get returns the cached history for an execution, if present and fresh.
func (s *Store) Get(arn string) ([]timeline.RawRecord, bool) {
	s.mu.Lock()
	if e, ok := s.pending[arn]; ok {
		s.mu.Unlock()
		return e.records, true
	}
	s.mu.Unlock()

	var (
		fetchedAt int64
		blob      string
	)

	err := s.db.QueryRow(
		"SELECT fetched_at, records FROM histories WHERE arn = ?", arn,
	).Scan(&fetchedAt, &blob)
	if err != nil {
		return nil, false
	}

	if time.Since(time.Unix(fetchedAt, 0)) > s.expiry {
		return nil, false
	}

	var records []timeline.RawRecord
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		return nil, false
	}

	return records, true
}

// Put buffers a fetched history for writing.
func (s *Store) Put(arn string, records []timeline.RawRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[arn] = entry{fetchedAt: time.Now(), records: records}
}

// Flush writes every buffered history to the database.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for arn, e := range s.pending {
		blob, err := json.Marshal(e.records)
		if err != nil {
			panic(fmt.Errorf("encoding cached history for %s: %w", arn, err))
		}

		_, err = s.db.Exec(
			"INSERT OR REPLACE INTO histories (arn, fetched_at, records) "+
				"VALUES (?, ?, ?)",
			arn, e.fetchedAt.Unix(), string(blob))
		if err != nil {
			panic(fmt.Errorf("writing cached history for %s: %w", arn, err))
		}
	}

	s.pending = make(map[string]entry)
}

// Close flushes buffered writes and closes the database.
func (s *Store) Close() error {
	s.Flush()
	return s.db.Close()
}

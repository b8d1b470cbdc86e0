package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/hirelink/searchcore/storage"
	"github.com/hirelink/searchcore/storage/sqlite/migrations"
)

// Store is the SQLite-backed relational store. It owns the authoritative
// job and candidate rows; the index only ever holds a copy.
type Store struct {
	db     *sql.DB
	path   string
	closed atomic.Bool
}

// NewStore creates a SQLite store inside dataDir, creating the directory
// if needed.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "platform.db")

	// WAL keeps readers from blocking behind writers.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection. Subsequent calls are no-ops.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

// handle guards data access after Close; database/sql would otherwise
// surface a driver-specific error.
func (s *Store) handle() (*sql.DB, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	return s.db, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Jobs returns a JobStore backed by this store.
func (s *Store) Jobs() storage.JobStore {
	return &jobStore{store: s}
}

// Candidates returns a CandidateStore backed by this store.
func (s *Store) Candidates() storage.CandidateStore {
	return &candidateStore{store: s}
}

// migrate applies embedded migration files in lexical order, tracking
// applied versions in schema_migrations.
func (s *Store) migrate(fsys fs.FS) error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		var applied int
		err := s.db.QueryRow("SELECT COUNT(1) FROM schema_migrations WHERE version = ?", name).Scan(&applied)
		if err != nil {
			return fmt.Errorf("checking migration %s: %w", name, err)
		}
		if applied > 0 {
			continue
		}

		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(script)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, strftime('%s','now'))", name,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// placeholders builds "?, ?, ?" for IN clauses.
func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	buf := make([]byte, 0, n*3)
	for i := 0; i < n; i++ {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = append(buf, '?')
	}
	return string(buf)
}

package badger

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Backend is the shared badger database underneath the per-entity
// indexes. One backend hosts several namespaces (jobs, candidates);
// the namespaces partition the key space, not the database.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// BackendOption configures a Backend before it opens.
type BackendOption func(*Backend)

// WithBackendLogger routes badger's internal messages through logger.
// Default is slog.Default().
func WithBackendLogger(logger *slog.Logger) BackendOption {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// OpenBackend opens the index database under dir, creating the
// directory when missing. With inMemory set, dir is ignored and nothing
// touches disk; tests run that way.
func OpenBackend(dir string, inMemory bool, opts ...BackendOption) (*Backend, error) {
	b := &Backend{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}

	var badgerOpts badger.Options
	if inMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(dir)
	}
	// Postings and documents are small values; compression buys nothing.
	badgerOpts.Compression = options.None
	badgerOpts.Logger = badgerLogger{b.logger}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}
	b.db = db
	return b, nil
}

func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("index path %s is not a directory", dir)
	}
	return nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed reports whether the database has been closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// View runs fn inside a read-only snapshot transaction.
func (b *Backend) View(fn func(tx *badger.Txn) error) error {
	return b.run(fn, false)
}

// Update runs fn inside a read-write transaction. fn commits
// explicitly; the deferred discard only takes effect when fn bails out
// before committing.
func (b *Backend) Update(fn func(tx *badger.Txn) error) error {
	return b.run(fn, true)
}

func (b *Backend) run(fn func(tx *badger.Txn) error, write bool) error {
	tx := b.db.NewTransaction(write)
	defer tx.Discard()
	return fn(tx)
}

// DropPrefix removes every key under prefix. Used by Clear during full
// reindex; badger applies it atomically with respect to readers.
func (b *Backend) DropPrefix(prefix []byte) error {
	return b.db.DropPrefix(prefix)
}

// badgerLogger adapts slog onto badger's printf-style logger.
type badgerLogger struct {
	l *slog.Logger
}

var _ badger.Logger = badgerLogger{}

func (bl badgerLogger) Errorf(format string, args ...any) {
	bl.l.Error(fmt.Sprintf(format, args...))
}

func (bl badgerLogger) Warningf(format string, args ...any) {
	bl.l.Warn(fmt.Sprintf(format, args...))
}

func (bl badgerLogger) Infof(format string, args ...any) {
	bl.l.Info(fmt.Sprintf(format, args...))
}

func (bl badgerLogger) Debugf(format string, args ...any) {
	bl.l.Debug(fmt.Sprintf(format, args...))
}

// Package docstore owns the lifecycle of the embedded document store
// (BadgerDB) holding rating events, comments, messages, and sessions. It is
// the second, independently-consistent store next to PostgreSQL; the two
// share no transaction boundary.
package docstore

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Options controls how the store is opened.
type Options struct {
	// Path is the on-disk directory. Ignored when InMemory is set.
	Path string

	// InMemory opens a non-persistent store, used by tests.
	InMemory bool

	Logger zerolog.Logger
}

// Store wraps a badger database with explicit open/close lifecycle.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open initializes the document store.
func Open(opts Options) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Path).
		WithInMemory(opts.InMemory).
		WithLogger(badgerLogger{opts.Logger})
	if opts.InMemory {
		badgerOpts = badgerOpts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open docstore: %w", err)
	}

	opts.Logger.Info().Str("path", opts.Path).Bool("in_memory", opts.InMemory).
		Msg("docstore: opened")

	return &Store{db: db, logger: opts.Logger}, nil
}

// DB exposes the underlying badger handle for document repositories.
func (s *Store) DB() *badger.DB {
	return s.db
}

// HealthCheck verifies the store accepts reads.
func (s *Store) HealthCheck() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("docstore not initialized")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// Close flushes and closes the store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.logger.Info().Msg("docstore: closing")
	return s.db.Close()
}

// badgerLogger adapts zerolog to badger's Logger interface.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msg(trimmed(format, args))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msg(trimmed(format, args))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msg(trimmed(format, args))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug().Msg(trimmed(format, args))
}

func trimmed(format string, args []interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerConfig holds configuration for a BadgerDB-backed store.
type BadgerConfig struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal log output.
	// If nil, BadgerDB's internal logging is disabled.
	Logger *slog.Logger

	// GCInterval is how often to run value log garbage collection.
	// Zero disables the GC runner.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum ratio of discardable data before GC.
	GCDiscardRatio float64
}

// DefaultBadgerConfig returns defaults for an on-disk store at path.
//
// Description:
//
//	Returns a BadgerConfig with:
//	- SyncWrites enabled
//	- 10-minute GC interval
//	- 50% discard ratio threshold
//
// Inputs:
//
//	path - Directory for database files. Created on Open if missing.
//
// Outputs:
//
//	BadgerConfig - Ready-to-use configuration
func DefaultBadgerConfig(path string) BadgerConfig {
	return BadgerConfig{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     10 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryBadgerConfig returns configuration optimized for testing.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Badger is a Store backed by an embedded BadgerDB.
//
// Thread Safety: safe for concurrent use.
type Badger struct {
	db     *badger.DB
	cfg    BadgerConfig
	logger *slog.Logger

	stopGC chan struct{}
	gcDone sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// OpenBadger opens a BadgerDB store.
//
// Description:
//
//	Opens a BadgerDB database at the configured path, or in memory if
//	InMemory is true. Creates the directory if it doesn't exist and
//	starts the value-log GC runner when GCInterval is positive.
//
// Inputs:
//
//	cfg - Database configuration. Path is required unless InMemory is true.
//
// Outputs:
//
//	*Badger - The opened store. Caller must call Close() when done.
//	error - Non-nil if path is invalid or database cannot be opened.
func OpenBadger(cfg BadgerConfig) (*Badger, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithNumVersionsToKeep(1)

	logger := cfg.Logger
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	b := &Badger{
		db:     db,
		cfg:    cfg,
		logger: logger,
		stopGC: make(chan struct{}),
	}

	if cfg.GCInterval > 0 && !cfg.InMemory {
		b.gcDone.Add(1)
		go b.runGC()
	}

	return b, nil
}

// Get implements Store.
func (b *Badger) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}

	var value []byte
	found := false
	err := b.WithReadTxn(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, found, nil
}

// Set implements Store.
func (b *Badger) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := b.WithTxn(ctx, func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Remove implements Store.
func (b *Badger) Remove(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := b.WithTxn(ctx, func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// WithTxn executes fn within a read-write transaction.
//
// Description:
//
//	Creates a new transaction, executes fn, and commits if fn returns nil.
//	If fn returns an error, the transaction is discarded.
//
// Inputs:
//
//	ctx - Context for cancellation. Checked before starting.
//	fn - Function to execute within the transaction.
//
// Outputs:
//
//	error - Non-nil if context cancelled, fn fails, or commit fails.
func (b *Badger) WithTxn(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	txn := b.db.NewTransaction(true)
	defer txn.Discard()

	if err := fn(txn); err != nil {
		return err
	}
	return txn.Commit()
}

// WithReadTxn executes fn within a read-only transaction.
func (b *Badger) WithReadTxn(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	txn := b.db.NewTransaction(false)
	defer txn.Discard()
	return fn(txn)
}

// Close stops the GC runner and closes the database. Safe to call more than once.
func (b *Badger) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.stopGC)
	b.mu.Unlock()

	b.gcDone.Wait()
	return b.db.Close()
}

// InMemory reports whether the store keeps nothing on disk.
func (b *Badger) InMemory() bool {
	return b.cfg.InMemory
}

// Path returns the database directory, empty in memory mode.
func (b *Badger) Path() string {
	return b.cfg.Path
}

func (b *Badger) runGC() {
	defer b.gcDone.Done()

	ratio := b.cfg.GCDiscardRatio
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.5
	}

	ticker := time.NewTicker(b.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopGC:
			return
		case <-ticker.C:
			b.collect(ratio)
		}
	}
}

// collect runs value log GC until there is nothing left to rewrite.
func (b *Badger) collect(ratio float64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for i := 0; ; i++ {
		err := b.db.RunValueLogGC(ratio)
		if err == nil {
			continue
		}
		if !errors.Is(err, badger.ErrNoRewrite) {
			b.logger.Warn("value log gc failed", "error", err)
		} else if i > 0 {
			b.logger.Debug("value log gc complete", "rewrites", i)
		}
		return
	}
}

var _ Store = (*Badger)(nil)

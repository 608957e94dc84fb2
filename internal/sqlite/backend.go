// Package sqlite implements the SQLite storage backend. JSONL files in
// DataDir are the source of truth; SQLite is the query engine and is
// rebuilt from those files on every Attach.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

// Compile-time interface checks.
var (
	_ types.Storage           = (*Backend)(nil)
	_ types.Unit[types.Board] = (*boardUnit)(nil)
	_ types.Unit[types.List]  = (*listUnit)(nil)
	_ types.CardUnit          = (*cardUnit)(nil)
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Backend implements types.Storage on SQLite with JSONL persistence.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	// syncStrategy is the effective strategy: immediate or on_close.
	syncStrategy string
	// pending holds tables whose JSONL file is stale under on_close.
	pending map[string]container
}

// NewBackend creates a detached backend. Call Attach with a Config to
// initialize it.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach creates DataDir if needed, builds a fresh database from the JSONL
// files, and makes the units available.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The database is a cache of the JSONL files; start from scratch.
	dbPath := filepath.Join(dataDir, dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	// A single connection keeps transactions and plain queries serialized.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	if err := initJSONLFiles(dataDir); err != nil {
		db.Close()
		return err
	}
	if err := loadAllJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	config.DataDir = dataDir
	b.db = db
	b.config = config
	b.syncStrategy = config.EffectiveSyncStrategy()
	b.pending = make(map[string]container)
	b.attached = true
	return nil
}

// Detach flushes pending JSONL writes and closes the database. Idempotent.
// After Detach, unit operations return ErrStorageDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if err := b.flushPendingLocked(); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}

	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.attached = false
	return nil
}

// Units returns the board, list, and card units.
func (b *Backend) Units() (types.Units, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.Units{}, types.ErrStorageDetached
	}
	return types.Units{
		Boards: &boardUnit{b: b},
		Lists:  &listUnit{b: b},
		Cards:  &cardUnit{b: b},
	}, nil
}

// read runs fn against the database under the read lock.
func (b *Backend) read(fn func(q querier) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrStorageDetached
	}
	return fn(b.db)
}

// write runs fn in a transaction under the write lock. fn reports the
// tables it changed. Under immediate their JSONL files are rewritten from
// the transaction before it commits, so a failed rewrite rolls the mutation
// back. Under on_close they are queued for Detach. A failed write leaves
// both the database and the JSONL files as they were.
func (b *Backend) write(fn func(tx *sql.Tx) ([]container, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStorageDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	touched, err := fn(tx)
	if err != nil {
		tx.Rollback()
		return err
	}

	if b.syncStrategy == types.SyncOnClose {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing transaction: %w", err)
		}
		for _, c := range touched {
			b.pending[c.table] = c
		}
		return nil
	}

	var written []container
	for _, c := range touched {
		if err := persistTableJSONL(tx, b.config.DataDir, c); err != nil {
			tx.Rollback()
			b.restoreJSONLLocked(written)
			return err
		}
		written = append(written, c)
	}
	if err := tx.Commit(); err != nil {
		b.restoreJSONLLocked(written)
		return fmt.Errorf("committing transaction: %w", err)
	}
	// Tables left over from an earlier restore get another try; Detach
	// reports them if they still fail.
	_ = b.flushPendingLocked()
	return nil
}

// restoreJSONLLocked rewrites tables from committed state after a write
// that rewrote them was abandoned. Tables that cannot be rewritten now are
// queued for Detach. The caller holds b.mu.
func (b *Backend) restoreJSONLLocked(tables []container) {
	for _, c := range tables {
		if err := persistTableJSONL(b.db, b.config.DataDir, c); err != nil {
			b.pending[c.table] = c
		}
	}
}

// flushPendingLocked writes every queued table. The caller holds b.mu.
func (b *Backend) flushPendingLocked() error {
	for _, c := range []container{boardsTable, listsTable, cardsTable} {
		if _, ok := b.pending[c.table]; !ok {
			continue
		}
		if err := persistTableJSONL(b.db, b.config.DataDir, c); err != nil {
			return fmt.Errorf("flush %s: %w", c.table, err)
		}
		delete(b.pending, c.table)
	}
	return nil
}

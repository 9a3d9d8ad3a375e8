// Package store persists epoch snapshots from one or more prefetch
// controllers to a SQLite database for offline analysis, independent
// of the mandatory per-controller Q-table persistence.
package store

import (
	"database/sql"
	"fmt"
	"os"

	// Registers the "sqlite3" driver with database/sql.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/banditprefetch/prefetch"
)

// defaultBatchSize bounds how many rows accumulate in memory before an
// automatic Flush, independent of any epoch-driven flush the caller
// triggers.
const defaultBatchSize = 500

type bufferedRow struct {
	controller string
	snap       prefetch.EpochSnapshot
}

// EpochHistoryStore buffers EpochSnapshot rows from any number of named
// controllers and periodically flushes them to a single SQLite
// database, batching inserts inside a transaction.
type EpochHistoryStore struct {
	db   *sql.DB
	stmt *sql.Stmt

	path      string
	batchSize int
	buffer    []bufferedRow
}

// Open creates (or truncates, if it already exists) a SQLite database
// at path and prepares it to receive epoch history. If path is empty a
// unique file name is generated in the current directory, mirroring
// the teacher's per-run trace file naming.
func Open(path string) (*EpochHistoryStore, error) {
	if path == "" {
		path = "banditprefetch_" + xid.New().String() + ".sqlite3"
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("store: could not remove existing database %s: %w", path, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: could not open %s: %w", path, err)
	}

	s := &EpochHistoryStore{
		db:        db,
		path:      path,
		batchSize: defaultBatchSize,
	}

	if err := s.createTable(); err != nil {
		db.Close()
		return nil, err
	}

	if err := s.prepareStatement(); err != nil {
		db.Close()
		return nil, err
	}

	atexit.Register(func() { _ = s.Close() })

	return s, nil
}

func (s *EpochHistoryStore) createTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS epoch_history (
			controller             VARCHAR(200) NOT NULL,
			epoch                  INTEGER      NOT NULL,
			tick                   INTEGER      NOT NULL,
			state                  INTEGER      NOT NULL,
			raw_miss_rate          REAL         NOT NULL,
			smoothed_miss_rate     REAL         NOT NULL,
			delta_smoothed_miss    REAL         NOT NULL,
			ipc                    REAL         NOT NULL,
			delta_ipc              REAL         NOT NULL,
			accuracy               REAL         NOT NULL,
			action                 INTEGER      NOT NULL,
			explore_rate           REAL         NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("store: could not create epoch_history table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE INDEX IF NOT EXISTS epoch_history_controller_index
			ON epoch_history (controller);
	`)
	if err != nil {
		return fmt.Errorf("store: could not create controller index: %w", err)
	}

	return nil
}

func (s *EpochHistoryStore) prepareStatement() error {
	stmt, err := s.db.Prepare(`
		INSERT INTO epoch_history (
			controller, epoch, tick, state, raw_miss_rate, smoothed_miss_rate,
			delta_smoothed_miss, ipc, delta_ipc, accuracy, action, explore_rate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("store: could not prepare insert statement: %w", err)
	}

	s.stmt = stmt

	return nil
}

// AppendFor buffers snap for controllerName, flushing automatically
// once the batch fills. AppendFor never returns an error to keep the
// caller's hot epoch path unconditional; a failed flush is logged and
// otherwise dropped, matching prefetch.CSVLogger's failure posture.
func (s *EpochHistoryStore) AppendFor(controllerName string, snap prefetch.EpochSnapshot) {
	s.buffer = append(s.buffer, bufferedRow{controller: controllerName, snap: snap})

	if len(s.buffer) >= s.batchSize {
		if err := s.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "store: flush failed: %v\n", err)
		}
	}
}

// Flush writes every buffered row inside a single transaction.
func (s *EpochHistoryStore) Flush() error {
	if len(s.buffer) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: could not begin transaction: %w", err)
	}

	stmt := tx.Stmt(s.stmt)

	for _, row := range s.buffer {
		snap := row.snap

		_, err := stmt.Exec(
			row.controller,
			snap.Epoch,
			snap.Tick,
			snap.State,
			snap.RawMissRate,
			snap.SmoothedMissRate,
			snap.DeltaSmoothedMissRate,
			snap.IPC,
			snap.DeltaIPC,
			snap.Accuracy,
			snap.Action.Semantic(),
			snap.ExploreRate,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("store: insert failed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: could not commit transaction: %w", err)
	}

	s.buffer = nil

	return nil
}

// Close flushes any remaining rows and closes the underlying database
// connection.
func (s *EpochHistoryStore) Close() error {
	if err := s.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "store: flush on close failed: %v\n", err)
	}

	return s.db.Close()
}

// ForController returns an EpochHistoryStore-shaped adapter bound to a
// single controller name, satisfying prefetch.EpochHistoryStore so a
// shared store can back several controllers without each one knowing
// the others' names.
func (s *EpochHistoryStore) ForController(name string) prefetch.EpochHistoryStore {
	return controllerView{store: s, name: name}
}

type controllerView struct {
	store *EpochHistoryStore
	name  string
}

func (v controllerView) Append(snap prefetch.EpochSnapshot) {
	v.store.AppendFor(v.name, snap)
}

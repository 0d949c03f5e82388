package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// ErrBatchWriterClosed is returned by Add after Close.
var ErrBatchWriterClosed = errors.New("batch writer closed")

// BatchWriter buffers diagnostic rows and inserts them in batches, one
// transaction per batch, from a single committer goroutine. A failed batch
// is rolled back as a whole.
type BatchWriter struct {
	mu     sync.Mutex
	buf    []Diagnostic
	size   int
	closed bool

	conn     *sql.DB
	commitCh chan []Diagnostic
	wg       sync.WaitGroup
	OnError  func(error)

	// errMu guards lastErr, the first asynchronous error.
	errMu   sync.Mutex
	lastErr error
}

// NewBatchWriter starts a writer that flushes every size rows.
func NewBatchWriter(conn *sql.DB, size int) *BatchWriter {
	if size <= 0 {
		size = 50
	}
	bw := &BatchWriter{
		buf:      make([]Diagnostic, 0, size),
		size:     size,
		conn:     conn,
		commitCh: make(chan []Diagnostic, 2),
	}
	bw.wg.Add(1)
	go bw.committer()
	return bw
}

// Add enqueues one row. It blocks while the committer is two batches behind.
func (bw *BatchWriter) Add(d Diagnostic) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return ErrBatchWriterClosed
	}
	bw.buf = append(bw.buf, d)
	if len(bw.buf) >= bw.size {
		bw.flushLocked()
	}
	return nil
}

// flushLocked assumes bw.mu is held.
func (bw *BatchWriter) flushLocked() {
	if len(bw.buf) == 0 {
		return
	}
	bw.commitCh <- bw.buf
	bw.buf = make([]Diagnostic, 0, bw.size)
}

func (bw *BatchWriter) committer() {
	defer bw.wg.Done()
	for batch := range bw.commitCh {
		if err := bw.insertBatch(batch); err != nil {
			bw.errMu.Lock()
			if bw.lastErr == nil {
				bw.lastErr = err
			}
			bw.errMu.Unlock()
			if bw.OnError != nil {
				bw.OnError(err)
			}
		}
	}
}

func (bw *BatchWriter) insertBatch(batch []Diagnostic) error {
	ctx := context.Background()
	tx, err := bw.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin diagnostics tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO build_diagnostics (run_id, kind, lemma, reason) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare diagnostics insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range batch {
		if d.RunID == "" {
			return fmt.Errorf("diagnostic for %q has no run id", d.Lemma)
		}
		if _, err := stmt.ExecContext(ctx, d.RunID, d.Kind, d.Lemma, d.Reason); err != nil {
			return fmt.Errorf("insert diagnostic %s: %w", d.Lemma, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit diagnostics batch (%d rows): %w", len(batch), err)
	}
	return nil
}

// Close flushes what is buffered, waits for the committer and returns the
// first error any batch hit.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrBatchWriterClosed
	}
	bw.closed = true
	bw.flushLocked()
	bw.mu.Unlock()

	close(bw.commitCh)
	bw.wg.Wait()

	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.lastErr
}

// ListDiagnostics returns the rows recorded for runID in insertion order.
func ListDiagnostics(ctx context.Context, db DBExecutor, runID string) ([]Diagnostic, error) {
	rows, err := db.QueryContext(ctx, `SELECT run_id, kind, lemma, reason FROM build_diagnostics
		WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Diagnostic
	for rows.Next() {
		var d Diagnostic
		if err := rows.Scan(&d.RunID, &d.Kind, &d.Lemma, &d.Reason); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

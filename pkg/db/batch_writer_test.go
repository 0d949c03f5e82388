package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closeWithTimeout(t *testing.T, bw *BatchWriter) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- bw.Close() }()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for batch writer to close")
		return nil
	}
}

func TestBatchWriterInsertsInOrder(t *testing.T) {
	conn := setupTestDB(t)
	bw := NewBatchWriter(conn, 3)

	for i := range 7 {
		require.NoError(t, bw.Add(Diagnostic{
			RunID:  "run-1",
			Kind:   KindMissingTranslation,
			Lemma:  fmt.Sprintf("verb%d", i),
			Reason: "missing translation",
		}))
	}
	require.NoError(t, bw.Add(Diagnostic{RunID: "run-2", Kind: KindMismatch, Lemma: "dormir", Reason: "present jo"}))
	require.NoError(t, closeWithTimeout(t, bw))

	got, err := ListDiagnostics(context.Background(), conn, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 7)
	for i, d := range got {
		assert.Equal(t, fmt.Sprintf("verb%d", i), d.Lemma)
	}

	other, err := ListDiagnostics(context.Background(), conn, "run-2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, KindMismatch, other[0].Kind)
}

func TestBatchWriterRollsBackFailedBatch(t *testing.T) {
	conn := setupTestDB(t)
	bw := NewBatchWriter(conn, 2)
	var reported error
	bw.OnError = func(err error) { reported = err }

	require.NoError(t, bw.Add(Diagnostic{RunID: "run-1", Kind: KindMismatch, Lemma: "ok"}))
	require.NoError(t, bw.Add(Diagnostic{Kind: KindMismatch, Lemma: "orphan"}))

	err := closeWithTimeout(t, bw)
	require.Error(t, err)
	assert.Equal(t, err, reported)

	got, err := ListDiagnostics(context.Background(), conn, "run-1")
	require.NoError(t, err)
	assert.Empty(t, got, "the whole batch is rolled back")
}

func TestBatchWriterClosed(t *testing.T) {
	bw := NewBatchWriter(setupTestDB(t), 0)
	require.NoError(t, closeWithTimeout(t, bw))

	assert.ErrorIs(t, bw.Add(Diagnostic{RunID: "r"}), ErrBatchWriterClosed)
	assert.ErrorIs(t, bw.Close(), ErrBatchWriterClosed)
}

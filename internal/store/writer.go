package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DefaultBatchSize is the maximum number of operations per atomic batch the
// target store accepts.
const DefaultBatchSize = 500

// WriteError reports a batch that failed to commit. Chunks before Chunk
// stay committed.
type WriteError struct {
	Collection string
	Op         OpKind
	Chunk      int // zero-based index of the failing batch
	Committed  int // documents committed by earlier batches
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: batch %d failed after %d committed: %v", e.Op, e.Collection, e.Chunk, e.Committed, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Writer commits documents and deletions in fixed-size sequential batches.
type Writer struct {
	store     Store
	batchSize int
	logger    *zap.Logger
}

// NewWriter returns a writer over s. A non-positive batchSize uses
// DefaultBatchSize.
func NewWriter(s Store, batchSize int, logger *zap.Logger) *Writer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{store: s, batchSize: batchSize, logger: logger}
}

// BatchSize returns the configured batch limit.
func (w *Writer) BatchSize() int { return w.batchSize }

// Write sets every document of docs in collection and returns the number
// written. Each batch is awaited before the next one starts.
func (w *Writer) Write(ctx context.Context, collection string, docs []Document) (int, error) {
	ops := make([]Op, len(docs))
	for i, d := range docs {
		ops[i] = Op{Kind: OpSet, ID: d.ID, Data: d.Data}
	}
	return w.commitChunks(ctx, collection, OpSet, ops)
}

// Clear deletes every document in collection and returns the number deleted.
// An empty collection issues no batch.
func (w *Writer) Clear(ctx context.Context, collection string) (int, error) {
	ids, err := w.store.ListIDs(ctx, collection)
	if err != nil {
		return 0, &WriteError{Collection: collection, Op: OpDelete, Err: err}
	}

	ops := make([]Op, len(ids))
	for i, id := range ids {
		ops[i] = Op{Kind: OpDelete, ID: id}
	}
	return w.commitChunks(ctx, collection, OpDelete, ops)
}

func (w *Writer) commitChunks(ctx context.Context, collection string, kind OpKind, ops []Op) (int, error) {
	committed := 0
	for chunk, start := 0, 0; start < len(ops); chunk, start = chunk+1, start+w.batchSize {
		end := min(start+w.batchSize, len(ops))

		if err := ctx.Err(); err != nil {
			return committed, &WriteError{Collection: collection, Op: kind, Chunk: chunk, Committed: committed, Err: err}
		}
		if err := w.store.Commit(ctx, collection, ops[start:end]); err != nil {
			return committed, &WriteError{Collection: collection, Op: kind, Chunk: chunk, Committed: committed, Err: err}
		}

		committed += end - start
		w.logger.Debug("batch committed",
			zap.String("collection", collection),
			zap.Stringer("op", kind),
			zap.Int("chunk", chunk),
			zap.Int("size", end-start),
			zap.Int("committed", committed),
		)
	}
	return committed, nil
}

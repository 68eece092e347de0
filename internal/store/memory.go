package store

import (
	"context"
	"sort"
	"sync"
)

// Batch records one committed batch of a Memory store.
type Batch struct {
	Collection string
	Kind       OpKind
	Size       int
}

// Memory is an in-process Store. It backs dry runs and tests and records
// every committed batch.
type Memory struct {
	mu      sync.Mutex
	data    map[string]map[string]map[string]any
	batches []Batch
	commits int

	// FailCommit, when set, is consulted before every commit with the
	// zero-based commit number; a non-nil error aborts that commit.
	FailCommit func(collection string, n int) error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]map[string]any)}
}

func (m *Memory) Commit(ctx context.Context, collection string, ops []Op) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	n := m.commits
	m.commits++
	if m.FailCommit != nil {
		if err := m.FailCommit(collection, n); err != nil {
			return err
		}
	}

	col := m.data[collection]
	if col == nil {
		col = make(map[string]map[string]any)
		m.data[collection] = col
	}
	kind := OpSet
	for _, op := range ops {
		switch op.Kind {
		case OpSet:
			col[op.ID] = op.Data
		case OpDelete:
			delete(col, op.ID)
			kind = OpDelete
		}
	}
	m.batches = append(m.batches, Batch{Collection: collection, Kind: kind, Size: len(ops)})
	return nil
}

// ListIDs returns ids in lexical order.
func (m *Memory) ListIDs(ctx context.Context, collection string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(m.data[collection]))
	for id := range m.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Memory) Close() error { return nil }

// Get returns a stored document.
func (m *Memory) Get(collection, id string) (map[string]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[collection][id]
	return d, ok
}

// Count returns the number of documents in collection.
func (m *Memory) Count(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data[collection])
}

// Snapshot returns a shallow copy of every collection.
func (m *Memory) Snapshot() map[string]map[string]map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]map[string]map[string]any, len(m.data))
	for c, docs := range m.data {
		cp := make(map[string]map[string]any, len(docs))
		for id, d := range docs {
			cp[id] = d
		}
		out[c] = cp
	}
	return out
}

// Batches returns the committed batches in order.
func (m *Memory) Batches() []Batch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Batch(nil), m.batches...)
}

// ResetBatches forgets recorded batches.
func (m *Memory) ResetBatches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = nil
}

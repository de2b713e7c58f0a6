package backup

import (
	"context"
	"fmt"
	"sync"

	"rege/internal/core"
)

// MemoryMirror is an in-process Mirror for tests and local development.
type MemoryMirror struct {
	mu   sync.Mutex
	rows map[int64]memoryRow
	next int
}

type memoryRow struct {
	UserID string
	Tx     core.Transaction
	Ref    string
}

func NewMemoryMirror() *MemoryMirror {
	return &MemoryMirror{rows: make(map[int64]memoryRow)}
}

func (m *MemoryMirror) AppendTransaction(_ context.Context, userID string, tx core.Transaction) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	ref := fmt.Sprintf("row-%d", m.next)
	m.rows[tx.ID] = memoryRow{UserID: userID, Tx: tx, Ref: ref}
	return ref, nil
}

func (m *MemoryMirror) RemoveTransaction(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

// Len reports how many transactions are currently mirrored.
func (m *MemoryMirror) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// Get returns the mirrored row for a transaction id.
func (m *MemoryMirror) Get(id int64) (string, core.Transaction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	return row.UserID, row.Tx, ok
}

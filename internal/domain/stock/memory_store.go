// internal/domain/stock/memory_store.go
package stock

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store implementation. Commits are
// serialized by a single mutex, so the atomicity contract holds without a
// database. It backs the test suites and local development.
type MemoryStore struct {
	mu      sync.Mutex
	cells   map[CellKey]int
	entries []LedgerEntry
	nextID  uint
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cells:  make(map[CellKey]int),
		nextID: 1,
	}
}

// Quantity returns the current quantity for a cell
func (m *MemoryStore) Quantity(ctx context.Context, cell CellKey) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cells[cell], nil
}

// Quantities reads several cells under one lock acquisition
func (m *MemoryStore) Quantities(ctx context.Context, cells []CellKey) (map[CellKey]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[CellKey]int, len(cells))
	for _, c := range cells {
		out[c] = m.cells[c]
	}
	return out, nil
}

// Levels returns every location's quantity for one item
func (m *MemoryStore) Levels(ctx context.Context, itemID uint) ([]LevelAtLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var levels []LevelAtLocation
	for key, qty := range m.cells {
		if key.ItemID == itemID {
			levels = append(levels, LevelAtLocation{LocationID: key.LocationID, Quantity: qty})
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].LocationID < levels[j].LocationID })
	return levels, nil
}

// Commit atomically applies all deltas and appends their ledger entries
func (m *MemoryStore) Commit(ctx context.Context, deltas []Delta, opts CommitOptions) ([]LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := make(map[CellKey]int, len(deltas))
	for _, d := range deltas {
		current[d.Cell] = m.cells[d.Cell]
	}

	entries, updated, err := applyDeltas(deltas, current, opts)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for i := range entries {
		entries[i].ID = m.nextID
		entries[i].CreatedAt = now
		m.nextID++
	}

	for cell, qty := range updated {
		m.cells[cell] = qty
	}
	m.entries = append(m.entries, entries...)

	return entries, nil
}

// History returns ledger entries matching the query, newest first
func (m *MemoryStore) History(ctx context.Context, q LedgerQuery) ([]LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []LedgerEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if q.ItemID != 0 && e.ItemID != q.ItemID {
			continue
		}
		if q.LocationID != nil && e.LocationID != *q.LocationID {
			continue
		}
		if q.Kind != "" && e.Kind != q.Kind {
			continue
		}
		matched = append(matched, e)
	}

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

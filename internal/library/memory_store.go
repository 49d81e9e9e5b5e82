// file: internal/library/memory_store.go
// version: 1.0.0
// guid: 71d13450-db7a-4ac3-ab13-689d8c3ae13b

package library

import (
	"bytes"
	"sort"
	"sync"
)

// MemoryStore keeps entries in process memory. Nothing survives Close.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (m *MemoryStore) Add(title, authors string, image []byte) (*Entry, error) {
	entry, err := newEntry(title, authors, image)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.entries[entry.ID] = *entry
	m.mu.Unlock()
	return entry, nil
}

func (m *MemoryStore) Get(id string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}

func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) List() ([]Entry, error) {
	m.mu.RLock()
	entries := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	keys := make(map[string][]byte, len(entries))
	for _, e := range entries {
		keys[e.ID] = sortKey(e.Title)
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := bytes.Compare(keys[entries[i].ID], keys[entries[j].ID]); c != 0 {
			return c < 0
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (m *MemoryStore) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	m.entries = make(map[string]Entry)
	m.mu.Unlock()
	return nil
}

package research

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// MemoryStore keeps sessions in process; used when no database is configured
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
	index    []Summary
	capacity int
}

// NewMemoryStore keeps at most capacity sessions, dropping the oldest
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 100
	}
	return &MemoryStore{
		sessions: make(map[string][]byte),
		capacity: capacity,
	}
}

// Save stores a JSON copy of s
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.ID]; !exists {
		m.index = append(m.index, s.Summarize())
	}
	m.sessions[s.ID] = data

	for len(m.index) > m.capacity {
		delete(m.sessions, m.index[0].ID)
		m.index = m.index[1:]
	}
	return nil
}

// Get returns a copy of the stored session
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	s.Persisted = true
	return &s, nil
}

// List returns the newest sessions first
func (m *MemoryStore) List(_ context.Context, limit int) ([]Summary, error) {
	m.mu.RLock()
	out := make([]Summary, len(m.index))
	copy(out, m.index)
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)

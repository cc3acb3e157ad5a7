package kv

import (
	"context"
	"sync"
)

// Memory keeps lists in process memory.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]string)}
}

// GetStringList returns a copy of the list stored under key.
func (m *Memory) GetStringList(_ context.Context, key string) ([]string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	values, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return cloneList(values), true, nil
}

// SetStringList stores a copy of values under key.
func (m *Memory) SetStringList(_ context.Context, key string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = cloneList(values)
	return nil
}

// Delete removes key.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
}

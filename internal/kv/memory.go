package kv

import "sync"

// Memory is an in-process Store used by tests and by deployments that opt
// out of durable local state.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) GetItem(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *Memory) SetItem(key, value string) {
	m.mu.Lock()
	m.items[key] = value
	m.mu.Unlock()
}

func (m *Memory) RemoveItem(key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

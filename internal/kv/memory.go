package kv

import "sync"

// Map is an in-process map-backed store, used as the test fake.
type Map struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMap() *Map {
	return &Map{data: make(map[string][]byte)}
}

func (m *Map) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

func (m *Map) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *Map) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Map) Close() error {
	return nil
}

package store

import (
	"context"
	"sync"
)

// Memory is an in-process KV used by tests and as a scratch backend.
// It supports change notification.
type Memory struct {
	mu       sync.RWMutex
	data     map[string]string
	watchers []func(key string)
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	watchers := m.watchers
	m.mu.Unlock()
	for _, fn := range watchers {
		fn(key)
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	watchers := m.watchers
	m.mu.Unlock()
	for _, fn := range watchers {
		fn(key)
	}
	return nil
}

// Watch registers fn for change notifications.
func (m *Memory) Watch(fn func(key string)) {
	m.mu.Lock()
	m.watchers = append(m.watchers, fn)
	m.mu.Unlock()
}

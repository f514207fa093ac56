package kv

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Store for tests.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *Memory) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) List(_ context.Context, prefix, cursor string, limit int) ([]string, string, error) {
	m.mu.RLock()
	all := make([]string, 0, len(m.data))
	for key := range m.data {
		if strings.HasPrefix(key, prefix) && key > cursor {
			all = append(all, key)
		}
	}
	m.mu.RUnlock()

	sort.Strings(all)
	if len(all) > limit {
		all = all[:limit]
	}

	next := ""
	if len(all) == limit {
		next = all[len(all)-1]
	}
	return all, next, nil
}

package blob

import (
	"context"
	"fmt"
	"sync"
)

const memoryPrefix = "mem:"

// Memory keeps content in process memory. Used by tests and dry runs.
type Memory struct {
	mu   sync.RWMutex
	objs map[string][]byte
}

// NewMemory returns an empty in-memory store
func NewMemory() *Memory {
	return &Memory{objs: make(map[string][]byte)}
}

// Put stores a copy of data; errors if key exists
func (m *Memory) Put(_ context.Context, key string, data []byte) (Handle, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.objs[k]; exists {
		return "", fmt.Errorf("blob %s already exists", k)
	}
	m.objs[k] = append([]byte(nil), data...)
	return Handle(memoryPrefix + k), nil
}

// Load returns a copy of the stored content
func (m *Memory) Load(_ context.Context, h Handle) ([]byte, error) {
	k, ok := trimHandle(h, memoryPrefix)
	if !ok {
		return nil, fmt.Errorf("blob: foreign handle %q", h)
	}
	m.mu.RLock()
	data, found := m.objs[k]
	m.mu.RUnlock()
	if !found {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Len returns the number of stored objects
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objs)
}

func trimHandle(h Handle, prefix string) (string, bool) {
	s := string(h)
	if len(s) <= len(prefix) || s[:len(prefix)] != prefix {
		return "", false
	}
	return s[len(prefix):], true
}

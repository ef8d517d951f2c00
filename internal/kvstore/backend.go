package kvstore

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("key not found")

// Backend persists raw values per namespace. Get returns ErrNotFound for a
// missing key.
type Backend interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
}

type memoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() Backend {
	return &memoryBackend{data: make(map[string][]byte)}
}

func (m *memoryBackend) Get(_ context.Context, namespace, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[slot(namespace, key)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *memoryBackend) Put(_ context.Context, namespace, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	m.mu.Lock()
	m.data[slot(namespace, key)] = v
	m.mu.Unlock()
	return nil
}

func slot(namespace, key string) string {
	return namespace + "\x00" + key
}

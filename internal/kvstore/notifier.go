package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// Change describes one write. Value is the stored representation.
type Change struct {
	Namespace string          `json:"namespace"`
	Key       string          `json:"key"`
	Origin    string          `json:"origin"`
	Value     json.RawMessage `json:"value"`
}

type Notifier interface {
	Publish(ctx context.Context, c Change) error
	Listen(ctx context.Context, onChange func(Change)) error
	Close() error
}

type localNotifier struct {
	mu        sync.RWMutex
	listeners []func(Change)
}

// NewLocalNotifier fans changes out inside one process.
func NewLocalNotifier() Notifier {
	return &localNotifier{}
}

func (n *localNotifier) Publish(_ context.Context, c Change) error {
	n.mu.RLock()
	listeners := append([]func(Change){}, n.listeners...)
	n.mu.RUnlock()

	for _, fn := range listeners {
		fn(c)
	}
	return nil
}

func (n *localNotifier) Listen(_ context.Context, onChange func(Change)) error {
	if onChange == nil {
		return errors.New("onChange callback required")
	}
	n.mu.Lock()
	n.listeners = append(n.listeners, onChange)
	n.mu.Unlock()
	return nil
}

func (n *localNotifier) Close() error { return nil }

package memory

import (
	"context"
	"sync"
)

type KV struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewKV() *KV {
	return &KV{
		items: make(map[string]string),
	}
}

func (r *KV) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	v, ok := r.items[key]
	r.mu.RUnlock()

	return v, ok, nil
}

func (r *KV) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	r.items[key] = value
	r.mu.Unlock()

	return nil
}

func (r *KV) Remove(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.items, key)
	r.mu.Unlock()

	return nil
}

// Keys is used by tests to inspect what was persisted.
func (r *KV) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.items))
	for k := range r.items {
		out = append(out, k)
	}
	return out
}

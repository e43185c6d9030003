package utils

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memo caches values computed once per key. Concurrent callers asking for
// the same missing key share a single computation.
type Memo[V any] struct {
	mu     sync.RWMutex
	values map[string]V
	group  singleflight.Group
}

func NewMemo[V any]() *Memo[V] {
	return &Memo[V]{values: make(map[string]V)}
}

func (m *Memo[V]) Get(key string, build func() (V, error)) (V, error) {
	m.mu.RLock()
	v, ok := m.values[key]
	m.mu.RUnlock()
	if ok {
		return v, nil
	}
	res, err, _ := m.group.Do(key, func() (interface{}, error) {
		m.mu.RLock()
		v, ok := m.values[key]
		m.mu.RUnlock()
		if ok {
			return v, nil
		}
		v, err := build()
		if err != nil {
			return v, err
		}
		m.mu.Lock()
		m.values[key] = v
		m.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

func (m *Memo[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

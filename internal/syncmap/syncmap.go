package syncmap

import "sync"

// Map is a RW-locked generic map
type Map[K comparable, V any] struct {
	m          map[K]V
	generation uint64 //incremented by Reset
	mux        sync.RWMutex
}

// Get returns a value for the key
func (m *Map[K, V]) Get(k K) (V, bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	v, ok := m.m[k]
	return v, ok
}

// Put stores a value for the key
func (m *Map[K, V]) Put(k K, v V) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.m[k] = v
}

// GetOrPut returns the stored value or stores the one produced by build.
// build runs outside the lock; concurrent builders race and the first Put wins.
// A value built across a Reset is returned but not stored.
func (m *Map[K, V]) GetOrPut(k K, build func() (V, error)) (V, error) {
	m.mux.RLock()
	v, ok := m.m[k]
	generation := m.generation
	m.mux.RUnlock()
	if ok {
		return v, nil
	}
	v, err := build()
	if err != nil {
		return v, err
	}
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.generation != generation {
		return v, nil
	}
	if prev, ok := m.m[k]; ok {
		return prev, nil
	}
	m.m[k] = v
	return v, nil
}

// Reset removes all entries
func (m *Map[K, V]) Reset() {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.m = make(map[K]V)
	m.generation++
}

// Len returns entry count
func (m *Map[K, V]) Len() int {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return len(m.m)
}

// New creates a map
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}

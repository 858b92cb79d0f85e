package state

import (
	"sync"
)

// Cloneable is implemented by state records that can hand out detached
// copies of themselves.
type Cloneable[V any] interface {
	Clone() V
}

// Entry is one independently lockable cell of a ResourceMap. The inner
// lock guards the value only; entry existence is guarded by the map's
// outer lock.
type Entry[V Cloneable[V]] struct {
	mu    sync.Mutex
	value V
}

// Value returns a detached copy of the entry's current value. Callers never
// observe later mutation through the returned copy.
func (e *Entry[V]) Value() V {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value.Clone()
}

// Store replaces the entry's value.
func (e *Entry[V]) Store(value V) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = value
}

// ResourceMap is a keyed concurrent map with two-level locking: an outer
// reader/writer lock guards entry existence (whole-map replace and clear
// are writer-exclusive, lookups are reader-shared) and a per-entry lock
// guards each value, so unrelated entries can be read and updated without
// serializing on the whole collection.
type ResourceMap[K comparable, V Cloneable[V]] struct {
	mu      sync.RWMutex
	entries map[K]*Entry[V]
}

// NewResourceMap creates an empty map.
func NewResourceMap[K comparable, V Cloneable[V]]() *ResourceMap[K, V] {
	return &ResourceMap[K, V]{entries: make(map[K]*Entry[V])}
}

// Get returns the entry for the given key, if present. The entry remains
// valid after a concurrent Replace, but it then refers to the retired
// snapshot.
func (m *ResourceMap[K, V]) Get(key K) (*Entry[V], bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	return entry, ok
}

// Insert adds or overwrites a single entry.
func (m *ResourceMap[K, V]) Insert(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.entries[key]; ok {
		entry.Store(value)
		return
	}
	m.entries[key] = &Entry[V]{value: value}
}

// Replace atomically swaps the whole snapshot: a reader observes either
// the previous population or the new one, never a mixture.
func (m *ResourceMap[K, V]) Replace(values []V, key func(V) K) {
	entries := make(map[K]*Entry[V], len(values))
	for _, value := range values {
		entries[key(value)] = &Entry[V]{value: value}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = entries
}

// Clear drops every entry.
func (m *ResourceMap[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[K]*Entry[V])
}

// Values returns detached copies of every entry value in the current
// snapshot.
func (m *ResourceMap[K, V]) Values() []V {
	m.mu.RLock()
	entries := make([]*Entry[V], 0, len(m.entries))
	for _, entry := range m.entries {
		entries = append(entries, entry)
	}
	m.mu.RUnlock()

	values := make([]V, 0, len(entries))
	for _, entry := range entries {
		values = append(values, entry.Value())
	}
	return values
}

// Len returns the number of entries.
func (m *ResourceMap[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

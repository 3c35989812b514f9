// Package registry provides a generic, thread-safe table of entities kept in
// registration order.
package registry

import (
	"errors"
	"fmt"
	"sync"
)

// ErrAlreadyRegistered is returned when registering a key twice.
var ErrAlreadyRegistered = errors.New("already registered")

// Table maps keys to entities and remembers the order they were registered in.
// Entities are never removed.
type Table[K comparable, V any] struct {
	index map[K]int
	items []V
	mu    sync.RWMutex
}

// New creates a new empty table
func New[K comparable, V any]() *Table[K, V] {
	return &Table[K, V]{index: make(map[K]int)}
}

// Register adds an entity under key. It fails if the key is already taken
// and leaves the existing entity untouched.
func (t *Table[K, V]) Register(key K, v V) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.index[key]; exists {
		return fmt.Errorf("%w: %v", ErrAlreadyRegistered, key)
	}
	t.index[key] = len(t.items)
	t.items = append(t.items, v)
	return nil
}

// Get returns the entity registered under key.
func (t *Table[K, V]) Get(key K) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i, ok := t.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return t.items[i], true
}

// IsRegistered checks if a key is registered
func (t *Table[K, V]) IsRegistered(key K) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.index[key]
	return ok
}

// Find returns the first entity, in registration order, matching pred.
func (t *Table[K, V]) Find(pred func(V) bool) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, v := range t.items {
		if pred(v) {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Values returns all entities in registration order.
func (t *Table[K, V]) Values() []V {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]V, len(t.items))
	copy(out, t.items)
	return out
}

// Count returns the total number of registered entities
func (t *Table[K, V]) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

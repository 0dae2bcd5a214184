// Package memory provides a generic thread-safe in-memory store used by
// repository adapters. The store keeps insertion order and can be capped,
// evicting the oldest entries first.
package memory

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Store when the requested key does not exist.
var ErrNotFound = errors.New("not found")

// Store is a generic thread-safe in-memory key-value store.
type Store[V any] struct {
	mu      sync.RWMutex
	data    map[string]V
	order   []string
	limit   int
	keyFunc func(V) string
}

// New creates a Store with a key extractor function. A limit of zero or
// less means unbounded.
func New[V any](keyFunc func(V) string, limit int) *Store[V] {
	return &Store[V]{
		data:    make(map[string]V),
		limit:   limit,
		keyFunc: keyFunc,
	}
}

// Set inserts or replaces the value, using keyFunc to derive the key.
// Replacing keeps the original position.
func (s *Store[V]) Set(_ context.Context, v V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.keyFunc(v)
	if _, exists := s.data[key]; !exists {
		s.order = append(s.order, key)
	}
	s.data[key] = v
	for s.limit > 0 && len(s.order) > s.limit {
		delete(s.data, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

// Get returns the value for key, or ErrNotFound if absent.
func (s *Store[V]) Get(_ context.Context, key string) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	return v, nil
}

// Newest returns up to limit values matching pred, most recently inserted
// first. pred may be nil; limit <= 0 returns every match.
func (s *Store[V]) Newest(_ context.Context, pred func(V) bool, limit int) []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []V
	for i := len(s.order) - 1; i >= 0; i-- {
		v := s.data[s.order[i]]
		if pred != nil && !pred(v) {
			continue
		}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
